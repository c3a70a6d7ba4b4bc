package github

import (
	"encoding/json"

	"github.com/wfops/wfops/internal/core/domain"
	"go.trai.ch/zerr"
)

// rateLimitResource mirrors one quota block of the gh rate limit
// response.
type rateLimitResource struct {
	Limit     int   `json:"limit"`
	Used      int   `json:"used"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// rateLimitEnvelope accepts both response shapes: the full document
// with a resources.core block and a flat quota object.
type rateLimitEnvelope struct {
	Resources struct {
		Core *rateLimitResource `json:"core"`
	} `json:"resources"`

	Limit     int   `json:"limit"`
	Used      int   `json:"used"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

func decodeRateLimitState(payload []byte) (domain.RateLimitState, error) {
	var env rateLimitEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return domain.RateLimitState{}, zerr.Wrap(err, "failed to decode rate limit payload")
	}

	res := rateLimitResource{
		Limit:     env.Limit,
		Used:      env.Used,
		Remaining: env.Remaining,
		Reset:     env.Reset,
	}
	if env.Resources.Core != nil {
		res = *env.Resources.Core
	}

	// A real quota block always carries a positive limit. Anything else
	// is a payload we do not understand.
	if res.Limit <= 0 {
		return domain.RateLimitState{}, zerr.New("rate limit payload missing quota fields")
	}

	return domain.RateLimitState{
		Limit:     res.Limit,
		Used:      res.Used,
		Remaining: res.Remaining,
		Reset:     res.Reset,
	}, nil
}
