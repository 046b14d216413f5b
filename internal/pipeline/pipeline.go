package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// Compressor aggregates child-table data into the Compressed JSON field.
type Compressor interface {
	Compress(applicantID string) error
	CompressAll() (succeeded, failed int)
}

// Shortlister evaluates criteria and manages lead records.
type Shortlister interface {
	Process(applicantID string) (bool, error)
	ProcessAll() (processed, shortlisted int)
}

// Enricher writes LLM assessments onto applicant records.
type Enricher interface {
	Enrich(ctx context.Context, applicantID string, force bool) error
	EnrichAll(ctx context.Context, force bool) (evaluated, skipped, failed int)
}

// Pipeline chains compression, shortlisting and LLM enrichment.
type Pipeline struct {
	compressor Compressor
	shortlist  Shortlister
	enricher   Enricher
}

func New(compressor Compressor, shortlist Shortlister, enricher Enricher) *Pipeline {
	return &Pipeline{
		compressor: compressor,
		shortlist:  shortlist,
		enricher:   enricher,
	}
}

// Run handles the full processing pipeline for one applicant:
// 1. Compress child tables into the JSON document
// 2. Evaluate shortlist criteria
// 3. Enrich with the LLM assessment
// The first failing step aborts the run.
func (p *Pipeline) Run(ctx context.Context, applicantID string, forceLLM bool) error {
	logger := slog.With("component", "pipeline", "applicant_id", applicantID)

	// ================= compress =================
	if err := p.compressor.Compress(applicantID); err != nil {
		return fmt.Errorf("compression failed: %w", err)
	}
	logger.Info("compressed applicant data")

	// ================= shortlist =================
	shortlisted, err := p.shortlist.Process(applicantID)
	if err != nil {
		return fmt.Errorf("shortlist evaluation failed: %w", err)
	}
	logger.Info("shortlist evaluated", "shortlisted", shortlisted)

	// ================= llm enrich =================
	if err := p.enricher.Enrich(ctx, applicantID, forceLLM); err != nil {
		return fmt.Errorf("llm evaluation failed: %w", err)
	}

	logger.Info("pipeline finished")
	return nil
}

// RunAll processes every applicant one stage at a time: all compressions,
// then all shortlist evaluations, then all LLM enrichments.
func (p *Pipeline) RunAll(ctx context.Context, forceLLM bool) {
	logger := slog.With("component", "pipeline", "operation", "run_all")

	compressed, compressFailed := p.compressor.CompressAll()
	logger.Info("compression stage finished",
		"succeeded", compressed, "failed", compressFailed)

	processed, shortlisted := p.shortlist.ProcessAll()
	logger.Info("shortlist stage finished",
		"processed", processed, "shortlisted", shortlisted)

	evaluated, skipped, evalFailed := p.enricher.EnrichAll(ctx, forceLLM)
	logger.Info("llm stage finished",
		"evaluated", evaluated, "skipped", skipped, "failed", evalFailed)

	logger.Info("pipeline finished for all applicants")
}
