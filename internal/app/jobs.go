package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/zerr"

	"github.com/wfops/wfops/internal/adapters/telemetry"
	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/engine/executor"
)

// registerJobs binds the built-in job functions. Findings and payloads
// are streamed to the renderer through the job's span.
func (a *App) registerJobs() error {
	jobs := []struct {
		name string
		fn   executor.JobFunc
	}{
		{functionValidate, a.validateWorkflow},
		{functionFetch, a.fetchEndpoint},
		{functionDigest, a.digestFile},
		{functionDeleteRun, a.deleteRun},
	}

	for _, job := range jobs {
		if err := a.registry.Register(job.name, job.fn); err != nil {
			return err
		}
	}
	return nil
}

// validateWorkflow runs the structural rules over one workflow file.
// Rule violations are streamed as output and fail the item; the error
// return proper is reserved for unreadable or unparseable files.
func (a *App) validateWorkflow(ctx context.Context, item string) error {
	findings, err := a.validator.Validate(item)
	if err != nil {
		return err
	}

	out := telemetry.WriterFrom(ctx)
	for _, finding := range findings {
		fmt.Fprintf(out, "%s: %s\n", finding.Rule, finding.Message)
	}

	if len(findings) > 0 {
		return errors.Join(
			domain.ErrValidationFailed,
			zerr.With(zerr.New("rule violations"), "findings", len(findings)),
		)
	}
	return nil
}

// fetchEndpoint performs one cache-first API call and streams the raw
// payload as the job's output.
func (a *App) fetchEndpoint(ctx context.Context, item string) error {
	payload, err := a.client.Call(ctx, item)
	if err != nil {
		return err
	}

	_, err = telemetry.WriterFrom(ctx).Write(payload)
	return err
}

// digestFile computes the content digest of one file.
func (a *App) digestFile(ctx context.Context, item string) error {
	digest, err := a.hasher.Digest(item)
	if err != nil {
		return err
	}

	fmt.Fprintf(telemetry.WriterFrom(ctx), "%s  %s\n", digest, item)
	return nil
}

// deleteRun issues the destructive API call for one workflow run.
func (a *App) deleteRun(ctx context.Context, item string) error {
	return a.client.Delete(ctx, item)
}
