package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.trai.ch/zerr"

	"github.com/wfops/wfops/internal/core/domain"
)

const (
	// DefaultAnalyzeLimit caps how many recent runs one analysis fetches.
	DefaultAnalyzeLimit = 50

	// cleanupListLimit is the page size for the cleanup run listing, the
	// largest page the API serves.
	cleanupListLimit = 100
)

// AnalyzeOptions configuration for the Analyze method.
type AnalyzeOptions struct {
	Repository string
	Limit      int
	JSON       bool
}

// Analyze fetches the repository's recent workflow runs and renders
// aggregate statistics. The listing passes through the cache-first
// client, so repeated analyses within the TTL stay off the network.
func (a *App) Analyze(ctx context.Context, w io.Writer, opts AnalyzeOptions) error {
	repo, err := a.repository(opts.Repository)
	if err != nil {
		return err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultAnalyzeLimit
	}

	payload, err := a.client.Call(ctx, fmt.Sprintf("repos/%s/actions/runs?per_page=%d", repo, limit))
	if err != nil {
		return err
	}

	runs, err := decodeRuns(payload)
	if err != nil {
		return err
	}

	stats := aggregateRuns(runs)

	if opts.JSON {
		doc, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return zerr.Wrap(err, "failed to encode run stats")
		}
		doc = append(doc, '\n')
		if _, err := w.Write(doc); err != nil {
			return zerr.Wrap(err, "failed to write run stats")
		}
		return nil
	}
	return writeStats(w, repo, stats)
}

// runsDocument mirrors the fields the pipeline reads from the actions
// runs listing endpoint.
type runsDocument struct {
	WorkflowRuns []struct {
		ID           int64     `json:"id"`
		Name         string    `json:"name"`
		Conclusion   string    `json:"conclusion"`
		RunStartedAt time.Time `json:"run_started_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	} `json:"workflow_runs"`
}

// decodeRuns parses a raw listing payload. The client hands payloads
// through uninterpreted, so decoding is this caller's concern.
func decodeRuns(payload []byte) ([]domain.WorkflowRun, error) {
	var doc runsDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, zerr.Wrap(err, "failed to decode workflow runs")
	}

	runs := make([]domain.WorkflowRun, 0, len(doc.WorkflowRuns))
	for _, raw := range doc.WorkflowRuns {
		runs = append(runs, domain.WorkflowRun{
			ID:         raw.ID,
			Name:       raw.Name,
			Conclusion: raw.Conclusion,
			StartedAt:  raw.RunStartedAt,
			UpdatedAt:  raw.UpdatedAt,
		})
	}
	return runs, nil
}

// aggregateRuns folds the runs into RunStats. Runs without a conclusion
// yet are bucketed as pending; only runs with usable timestamps count
// toward the duration figures.
func aggregateRuns(runs []domain.WorkflowRun) domain.RunStats {
	stats := domain.RunStats{
		Total:        len(runs),
		ByConclusion: make(map[string]int),
	}

	var total time.Duration
	var timed int
	for _, run := range runs {
		conclusion := run.Conclusion
		if conclusion == "" {
			conclusion = "pending"
		}
		stats.ByConclusion[conclusion]++

		if d := run.Duration(); d > 0 {
			total += d
			timed++
			if d > stats.LongestDuration {
				stats.LongestDuration = d
				stats.LongestName = run.Name
			}
		}
	}

	if stats.Total > 0 {
		stats.SuccessRatePercent = float64(stats.ByConclusion["success"]) / float64(stats.Total) * 100
	}
	if timed > 0 {
		stats.AverageDuration = total / time.Duration(timed)
	}
	return stats
}

// writeStats renders the aggregate as an aligned text block.
func writeStats(w io.Writer, repo string, stats domain.RunStats) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Workflow runs for %s\n", repo)
	fmt.Fprintf(&b, "  %-20s %d\n", "total", stats.Total)

	conclusions := make([]string, 0, len(stats.ByConclusion))
	for conclusion := range stats.ByConclusion {
		conclusions = append(conclusions, conclusion)
	}
	sort.Strings(conclusions)
	for _, conclusion := range conclusions {
		fmt.Fprintf(&b, "  %-20s %d\n", conclusion, stats.ByConclusion[conclusion])
	}

	fmt.Fprintf(&b, "  %-20s %.1f%%\n", "success rate", stats.SuccessRatePercent)
	if stats.AverageDuration > 0 {
		fmt.Fprintf(&b, "  %-20s %s\n", "average duration", stats.AverageDuration.Round(time.Second))
	}
	if stats.LongestName != "" {
		fmt.Fprintf(&b, "  %-20s %s (%s)\n", "longest", stats.LongestDuration.Round(time.Second), stats.LongestName)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return zerr.Wrap(err, "failed to write run stats")
	}
	return nil
}
