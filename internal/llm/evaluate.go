package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Pyrem/talentbase/internal/airtable"
	errs "github.com/Pyrem/talentbase/pkg/errors"
)

// Completer is the single-turn completion the evaluator depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Store is the slice of the table gateway enrichment needs.
type Store interface {
	GetApplicant(id string) (*airtable.Record, error)
	ListApplicants() ([]*airtable.Record, error)
	UpdateApplicant(id string, fields map[string]any) error
}

// Evaluator writes LLM assessments onto applicant records.
type Evaluator struct {
	store     Store
	completer Completer
	bulkPause time.Duration
}

func NewEvaluator(store Store, completer Completer) *Evaluator {
	return &Evaluator{
		store:     store,
		completer: completer,
		bulkPause: time.Second,
	}
}

// Enrich evaluates one applicant and writes the four assessment fields
// back. An applicant that already carries an LLM Summary is skipped unless
// force is set. All four fields are written even when some labels did not
// parse.
func (e *Evaluator) Enrich(ctx context.Context, applicantID string, force bool) error {
	logger := slog.With("component", "llm", "operation", "enrich", "applicant_id", applicantID)

	rec, err := e.store.GetApplicant(applicantID)
	if err != nil {
		return fmt.Errorf("fetch applicant: %w", err)
	}

	raw, _ := rec.Fields[airtable.FieldCompressedJSON].(string)
	if raw == "" {
		return errs.ErrNoCompressedJSON
	}

	if !force && hasSummary(rec) {
		logger.Info("already evaluated, skipping (use force to re-evaluate)")
		return nil
	}

	response, err := e.completer.Complete(ctx, BuildPrompt(raw))
	if err != nil {
		return err
	}

	assessment := ParseAssessment(response)

	if err := e.store.UpdateApplicant(applicantID, map[string]any{
		airtable.FieldLLMSummary:   assessment.Summary,
		airtable.FieldLLMScore:     assessment.Score,
		airtable.FieldLLMIssues:    assessment.Issues,
		airtable.FieldLLMFollowUps: assessment.FollowUps,
	}); err != nil {
		return fmt.Errorf("write assessment: %w", err)
	}

	logger.Info("llm evaluation written", "score", assessment.Score)
	return nil
}

// EnrichAll evaluates every applicant, pausing between LLM calls so bulk
// runs stay under provider rate limits. Skipped applicants do not pause.
func (e *Evaluator) EnrichAll(ctx context.Context, force bool) (evaluated, skipped, failed int) {
	logger := slog.With("component", "llm", "operation", "enrich_all")

	applicants, err := e.store.ListApplicants()
	if err != nil {
		logger.Error("cannot list applicants", "error", err)
		return 0, 0, 0
	}
	logger.Info("evaluating all applicants", "count", len(applicants), "force", force)

	for _, rec := range applicants {
		if !force && hasSummary(rec) {
			logger.Info("already evaluated, skipping", "applicant_id", rec.ID)
			skipped++
			continue
		}

		if err := e.Enrich(ctx, rec.ID, force); err != nil {
			logger.Error("llm evaluation failed", "applicant_id", rec.ID, "error", err)
			failed++
		} else {
			evaluated++
		}

		e.pause(ctx)
	}

	logger.Info("bulk llm evaluation finished",
		"evaluated", evaluated, "skipped", skipped, "failed", failed)
	return evaluated, skipped, failed
}

func (e *Evaluator) pause(ctx context.Context) {
	if e.bulkPause <= 0 {
		return
	}
	select {
	case <-time.After(e.bulkPause):
	case <-ctx.Done():
	}
}

func hasSummary(rec *airtable.Record) bool {
	s, _ := rec.Fields[airtable.FieldLLMSummary].(string)
	return s != ""
}
