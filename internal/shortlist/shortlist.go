package shortlist

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Pyrem/talentbase/internal/airtable"
	"github.com/Pyrem/talentbase/internal/config"
	errs "github.com/Pyrem/talentbase/pkg/errors"
	"github.com/Pyrem/talentbase/pkg/types"
)

// Store is the slice of the table gateway shortlisting needs.
type Store interface {
	GetApplicant(id string) (*airtable.Record, error)
	ListApplicants() ([]*airtable.Record, error)
	UpdateApplicant(id string, fields map[string]any) error
	ShortlistedLeadExists(applicantID string) (bool, error)
	CreateShortlistedLead(fields map[string]any) error
}

// Policy is the fixed criteria configuration for a run.
type Policy struct {
	ApprovedLocations    []string
	TierOneCompanies     []string
	MaxHourlyRate        float64
	MinAvailabilityHours int
	MinYearsExperience   int
}

func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		ApprovedLocations:    cfg.ApprovedLocations,
		TierOneCompanies:     cfg.TierOneCompanies,
		MaxHourlyRate:        cfg.MaxHourlyRate,
		MinAvailabilityHours: cfg.MinAvailabilityHours,
		MinYearsExperience:   cfg.MinYearsExperience,
	}
}

// Evaluator applies the shortlist criteria to compressed profiles and
// records the outcome: a lead row for passing applicants, a status field
// either way.
type Evaluator struct {
	store  Store
	policy Policy
	now    func() time.Time
}

func New(store Store, policy Policy) *Evaluator {
	return &Evaluator{store: store, policy: policy, now: time.Now}
}

// Evaluate runs the three criteria against the applicant's stored
// Compressed JSON. The document is read tolerantly: absent keys fall back
// to the documented defaults, with the one sharp edge that an absent
// preferred_rate means "rate unknown" and can never pass the rate cap.
func (e *Evaluator) Evaluate(applicantID string) (*types.Evaluation, error) {
	rec, err := e.store.GetApplicant(applicantID)
	if err != nil {
		return nil, fmt.Errorf("fetch applicant: %w", err)
	}

	raw, _ := rec.Fields[airtable.FieldCompressedJSON].(string)
	if raw == "" {
		return nil, errs.ErrNoCompressedJSON
	}
	if !gjson.Valid(raw) {
		return nil, errs.ErrInvalidCompressedJSON
	}
	doc := gjson.Parse(raw)

	locPassed, locReason := e.checkLocation(doc.Get("personal.location").String())
	expPassed, expReason := e.checkExperience(doc)
	compPassed, compReason := e.checkCompensation(doc)

	return &types.Evaluation{
		ApplicantID: applicantID,
		Shortlisted: locPassed && expPassed && compPassed,
		Criteria: []types.CriterionResult{
			{Name: "Location", Passed: locPassed, Reason: locReason},
			{Name: "Experience", Passed: expPassed, Reason: expReason},
			{Name: "Compensation", Passed: compPassed, Reason: compReason},
		},
		CompressedJSON: raw,
	}, nil
}

// Process evaluates one applicant and applies the outcome. It reports
// whether the applicant was shortlisted.
func (e *Evaluator) Process(applicantID string) (bool, error) {
	logger := slog.With("component", "shortlist", "applicant_id", applicantID)

	ev, err := e.Evaluate(applicantID)
	if err != nil {
		return false, err
	}

	for _, c := range ev.Criteria {
		logger.Info("criterion evaluated", "criterion", c.Name, "passed", c.Passed, "reason", c.Reason)
	}

	if !ev.Shortlisted {
		if err := e.store.UpdateApplicant(applicantID, map[string]any{
			airtable.FieldShortlistStatus: airtable.StatusNotShortlisted,
		}); err != nil {
			return false, fmt.Errorf("update shortlist status: %w", err)
		}
		logger.Info("applicant not shortlisted")
		return false, nil
	}

	if err := e.createLead(ev); err != nil {
		return false, err
	}
	return true, nil
}

// ProcessAll evaluates every applicant, isolating per-applicant failures.
func (e *Evaluator) ProcessAll() (processed, shortlisted int) {
	logger := slog.With("component", "shortlist", "operation", "process_all")

	applicants, err := e.store.ListApplicants()
	if err != nil {
		logger.Error("cannot list applicants", "error", err)
		return 0, 0
	}
	logger.Info("evaluating all applicants", "count", len(applicants))

	for _, rec := range applicants {
		ok, err := e.Process(rec.ID)
		if err != nil {
			logger.Error("shortlist processing failed", "applicant_id", rec.ID, "error", err)
			continue
		}
		processed++
		if ok {
			shortlisted++
		}
	}

	logger.Info("bulk shortlist finished", "processed", processed, "shortlisted", shortlisted)
	return processed, shortlisted
}

// createLead writes the lead row for a passing evaluation, exactly once
// per applicant: an existing lead short-circuits without touching anything.
func (e *Evaluator) createLead(ev *types.Evaluation) error {
	logger := slog.With("component", "shortlist", "applicant_id", ev.ApplicantID)

	exists, err := e.store.ShortlistedLeadExists(ev.ApplicantID)
	if err != nil {
		return fmt.Errorf("check existing lead: %w", err)
	}
	if exists {
		logger.Info("shortlisted lead already exists, skipping creation")
		return nil
	}

	if err := e.store.CreateShortlistedLead(map[string]any{
		airtable.FieldApplicant:      []string{ev.ApplicantID},
		airtable.FieldCompressedJSON: ev.CompressedJSON,
		airtable.FieldScoreReason:    scoreReason(ev),
		airtable.FieldCreatedAt:      e.now().Format(time.RFC3339),
	}); err != nil {
		return fmt.Errorf("create lead: %w", err)
	}

	if err := e.store.UpdateApplicant(ev.ApplicantID, map[string]any{
		airtable.FieldShortlistStatus: airtable.StatusShortlisted,
	}); err != nil {
		return fmt.Errorf("update shortlist status: %w", err)
	}

	logger.Info("applicant shortlisted")
	return nil
}

func (e *Evaluator) checkLocation(location string) (bool, string) {
	norm := strings.ToLower(strings.TrimSpace(location))
	if norm != "" {
		for _, approved := range e.policy.ApprovedLocations {
			entry := strings.ToLower(strings.TrimSpace(approved))
			if entry != "" && strings.Contains(norm, entry) {
				return true, fmt.Sprintf("Location '%s' is approved", location)
			}
		}
	}
	return false, fmt.Sprintf("Location '%s' is not approved", location)
}

func (e *Evaluator) checkExperience(doc gjson.Result) (bool, string) {
	totalYears := doc.Get("total_experience_years").Float()

	// Collects the company strings that matched, deduplicated in first-seen
	// order.
	var matches []string
	seen := map[string]bool{}
	for _, entry := range doc.Get("experience").Array() {
		company := strings.TrimSpace(entry.Get("company").String())
		if company == "" || seen[company] {
			continue
		}
		lower := strings.ToLower(company)
		for _, tier := range e.policy.TierOneCompanies {
			name := strings.ToLower(strings.TrimSpace(tier))
			if name != "" && strings.Contains(lower, name) {
				seen[company] = true
				matches = append(matches, company)
				break
			}
		}
	}

	if totalYears >= float64(e.policy.MinYearsExperience) {
		return true, fmt.Sprintf("Has %v years of experience (>= %d required)", totalYears, e.policy.MinYearsExperience)
	}
	if len(matches) > 0 {
		return true, "Worked at Tier-1 company: " + strings.Join(matches, ", ")
	}
	return false, fmt.Sprintf("Only %v years experience and no Tier-1 company experience", totalYears)
}

func (e *Evaluator) checkCompensation(doc gjson.Result) (bool, string) {
	salary := doc.Get("salary")

	// An absent rate is unknown, not free: it must never pass the cap.
	rate := math.Inf(1)
	if r := salary.Get("preferred_rate"); r.Exists() {
		rate = r.Float()
	}
	availability := salary.Get("availability").Float()

	currency := "USD"
	if c := salary.Get("currency"); c.Exists() {
		currency = c.String()
	}
	if strings.ToUpper(currency) != "USD" {
		slog.Warn("non-USD preferred rate, comparing numbers as-is",
			"component", "shortlist", "currency", currency)
	}

	var failures []string
	if rate > e.policy.MaxHourlyRate {
		failures = append(failures, fmt.Sprintf("Rate $%v/hr exceeds max $%v/hr", rate, e.policy.MaxHourlyRate))
	}
	if availability < float64(e.policy.MinAvailabilityHours) {
		failures = append(failures, fmt.Sprintf("Availability %v hrs/wk below min %d hrs/wk", availability, e.policy.MinAvailabilityHours))
	}

	if len(failures) > 0 {
		return false, strings.Join(failures, "; ")
	}
	return true, fmt.Sprintf("Rate $%v/hr <= $%v/hr and %v hrs/wk >= %d hrs/wk",
		rate, e.policy.MaxHourlyRate, availability, e.policy.MinAvailabilityHours)
}

// scoreReason renders the criterion outcomes, one line each, in evaluation
// order.
func scoreReason(ev *types.Evaluation) string {
	lines := make([]string, 0, len(ev.Criteria))
	for _, c := range ev.Criteria {
		lines = append(lines, fmt.Sprintf("%s: %s", c.Name, c.Reason))
	}
	return strings.Join(lines, "\n")
}
