package decompression

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Pyrem/talentbase/internal/airtable"
	errs "github.com/Pyrem/talentbase/pkg/errors"
	"github.com/Pyrem/talentbase/pkg/types"
)

// Store is the slice of the table gateway decompression needs.
type Store interface {
	GetApplicant(id string) (*airtable.Record, error)
	ListApplicants() ([]*airtable.Record, error)
	GetPersonalDetails(applicantID string) (*airtable.Record, error)
	CreatePersonalDetails(fields map[string]any) error
	UpdatePersonalDetails(id string, fields map[string]any) error
	ListWorkExperiences(applicantID string) ([]*airtable.Record, error)
	CreateWorkExperience(fields map[string]any) error
	UpdateWorkExperience(id string, fields map[string]any) error
	DeleteWorkExperience(id string) error
	GetSalaryPreferences(applicantID string) (*airtable.Record, error)
	CreateSalaryPreferences(fields map[string]any) error
	UpdateSalaryPreferences(id string, fields map[string]any) error
}

// Decompressor fans the Compressed JSON document back out into the child
// tables, treating the document as the source of truth.
type Decompressor struct {
	store Store
}

func New(store Store) *Decompressor {
	return &Decompressor{store: store}
}

// document mirrors the compressed profile with pointer sections so key
// presence can gate each upsert: a present-but-empty section still writes a
// row of defaults, while an absent key leaves that table untouched.
type document struct {
	Personal   *personalSection         `json:"personal"`
	Experience *[]types.ExperienceEntry `json:"experience"`
	Salary     *salarySection           `json:"salary"`
}

type personalSection struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
}

type salarySection struct {
	PreferredRate float64 `json:"preferred_rate"`
	MinimumRate   float64 `json:"minimum_rate"`
	Currency      *string `json:"currency"`
	Availability  float64 `json:"availability"`
}

// Decompress parses the applicant's Compressed JSON and upserts each
// present section into its child table. A missing or unparseable document
// is a hard failure and writes nothing; section failures are collected so
// the remaining sections still run.
func (d *Decompressor) Decompress(applicantID string) error {
	logger := slog.With("component", "decompression", "applicant_id", applicantID)
	logger.Info("decompressing applicant data")

	rec, err := d.store.GetApplicant(applicantID)
	if err != nil {
		return fmt.Errorf("fetch applicant: %w", err)
	}

	raw, _ := rec.Fields[airtable.FieldCompressedJSON].(string)
	if raw == "" {
		return errs.ErrNoCompressedJSON
	}

	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidCompressedJSON, err)
	}

	var sectionErrs []error

	if doc.Personal != nil {
		if err := d.upsertPersonal(applicantID, *doc.Personal); err != nil {
			logger.Error("personal details upsert failed", "error", err)
			sectionErrs = append(sectionErrs, fmt.Errorf("personal details: %w", err))
		}
	}
	if doc.Experience != nil {
		if err := d.upsertExperiences(applicantID, *doc.Experience); err != nil {
			logger.Error("work experience upsert failed", "error", err)
			sectionErrs = append(sectionErrs, fmt.Errorf("work experience: %w", err))
		}
	}
	if doc.Salary != nil {
		if err := d.upsertSalary(applicantID, *doc.Salary); err != nil {
			logger.Error("salary preferences upsert failed", "error", err)
			sectionErrs = append(sectionErrs, fmt.Errorf("salary preferences: %w", err))
		}
	}

	if err := errors.Join(sectionErrs...); err != nil {
		return errs.Applicant(applicantID, err)
	}

	logger.Info("decompressed applicant data")
	return nil
}

// DecompressAll decompresses every applicant, isolating per-applicant
// failures.
func (d *Decompressor) DecompressAll() (succeeded, failed int) {
	logger := slog.With("component", "decompression", "operation", "decompress_all")

	applicants, err := d.store.ListApplicants()
	if err != nil {
		logger.Error("cannot list applicants", "error", err)
		return 0, 0
	}
	logger.Info("decompressing all applicants", "count", len(applicants))

	for _, rec := range applicants {
		if err := d.Decompress(rec.ID); err != nil {
			logger.Error("decompression failed", "applicant_id", rec.ID, "error", err)
			failed++
			continue
		}
		succeeded++
	}

	logger.Info("bulk decompression finished", "succeeded", succeeded, "failed", failed)
	return succeeded, failed
}

func (d *Decompressor) upsertPersonal(applicantID string, p personalSection) error {
	existing, err := d.store.GetPersonalDetails(applicantID)
	if err != nil {
		return fmt.Errorf("lookup existing row: %w", err)
	}

	fields := map[string]any{
		airtable.FieldApplicantID: []string{applicantID},
		airtable.FieldFullName:    p.Name,
		airtable.FieldEmail:       p.Email,
		airtable.FieldLocation:    p.Location,
		airtable.FieldLinkedIn:    p.LinkedIn,
	}

	if existing != nil {
		if err := d.store.UpdatePersonalDetails(existing.ID, fields); err != nil {
			return err
		}
		slog.Info("updated personal details", "component", "decompression",
			"applicant_id", applicantID, "record_id", existing.ID)
		return nil
	}

	if err := d.store.CreatePersonalDetails(fields); err != nil {
		return err
	}
	slog.Info("created personal details", "component", "decompression",
		"applicant_id", applicantID)
	return nil
}

// upsertExperiences matches document entries to existing rows by list
// position: the i-th entry updates the i-th row, surplus entries create
// rows, surplus rows are deleted. Reordering entries between runs therefore
// swaps content between rows.
func (d *Decompressor) upsertExperiences(applicantID string, entries []types.ExperienceEntry) error {
	existing, err := d.store.ListWorkExperiences(applicantID)
	if err != nil {
		return fmt.Errorf("lookup existing rows: %w", err)
	}

	var rowErrs []error
	updated, created, deleted := 0, 0, 0

	for i, entry := range entries {
		fields := map[string]any{
			airtable.FieldApplicantID:  []string{applicantID},
			airtable.FieldCompany:      entry.Company,
			airtable.FieldTitle:        entry.Title,
			airtable.FieldStartDate:    entry.StartDate,
			airtable.FieldEndDate:      entry.EndDate,
			airtable.FieldTechnologies: entry.Technologies,
			airtable.FieldDescription:  entry.Description,
		}

		if i < len(existing) {
			if err := d.store.UpdateWorkExperience(existing[i].ID, fields); err != nil {
				rowErrs = append(rowErrs, fmt.Errorf("update row %d: %w", i, err))
				continue
			}
			updated++
			continue
		}

		if err := d.store.CreateWorkExperience(fields); err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("create row %d: %w", i, err))
			continue
		}
		created++
	}

	for _, rec := range existing[min(len(entries), len(existing)):] {
		if err := d.store.DeleteWorkExperience(rec.ID); err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("delete stale row %s: %w", rec.ID, err))
			continue
		}
		deleted++
	}

	slog.Info("synced work experience rows", "component", "decompression",
		"applicant_id", applicantID,
		"updated", updated, "created", created, "deleted", deleted)

	return errors.Join(rowErrs...)
}

func (d *Decompressor) upsertSalary(applicantID string, s salarySection) error {
	existing, err := d.store.GetSalaryPreferences(applicantID)
	if err != nil {
		return fmt.Errorf("lookup existing row: %w", err)
	}

	currency := "USD"
	if s.Currency != nil {
		currency = *s.Currency
	}

	fields := map[string]any{
		airtable.FieldApplicantID:   []string{applicantID},
		airtable.FieldPreferredRate: s.PreferredRate,
		airtable.FieldMinimumRate:   s.MinimumRate,
		airtable.FieldCurrency:      currency,
		airtable.FieldAvailability:  s.Availability,
	}

	if existing != nil {
		if err := d.store.UpdateSalaryPreferences(existing.ID, fields); err != nil {
			return err
		}
		slog.Info("updated salary preferences", "component", "decompression",
			"applicant_id", applicantID, "record_id", existing.ID)
		return nil
	}

	if err := d.store.CreateSalaryPreferences(fields); err != nil {
		return err
	}
	slog.Info("created salary preferences", "component", "decompression",
		"applicant_id", applicantID)
	return nil
}
