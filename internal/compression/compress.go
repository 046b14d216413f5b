package compression

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Pyrem/talentbase/internal/airtable"
	"github.com/Pyrem/talentbase/pkg/types"
)

const dateLayout = "2006-01-02"

// Store is the slice of the table gateway compression needs.
type Store interface {
	GetApplicant(id string) (*airtable.Record, error)
	ListApplicants() ([]*airtable.Record, error)
	UpdateApplicant(id string, fields map[string]any) error
	GetPersonalDetails(applicantID string) (*airtable.Record, error)
	ListWorkExperiences(applicantID string) ([]*airtable.Record, error)
	GetSalaryPreferences(applicantID string) (*airtable.Record, error)
}

// Compressor aggregates an applicant's child-table rows into the
// Compressed JSON field on the applicant record.
type Compressor struct {
	store Store
}

func New(store Store) *Compressor {
	return &Compressor{store: store}
}

// Compress builds the applicant's profile document and writes it to the
// Compressed JSON field. Missing child rows degrade to empty sections; only
// a missing applicant or a failed write fails the operation.
func (c *Compressor) Compress(applicantID string) error {
	logger := slog.With("component", "compression", "applicant_id", applicantID)
	logger.Info("compressing applicant data")

	if _, err := c.store.GetApplicant(applicantID); err != nil {
		return fmt.Errorf("fetch applicant: %w", err)
	}

	doc := c.Build(applicantID)

	body, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("marshal compressed document: %w", err)
	}

	if err := c.store.UpdateApplicant(applicantID, map[string]any{
		airtable.FieldCompressedJSON: body,
	}); err != nil {
		return fmt.Errorf("write compressed document: %w", err)
	}

	logger.Info("compressed applicant data written",
		"experience_entries", len(doc.Experience),
		"total_experience_years", doc.TotalExperienceYears)
	return nil
}

// Build aggregates the child tables into a profile document. It never
// fails: an unavailable or absent section is logged and left at its empty
// default so the document shape stays complete.
func (c *Compressor) Build(applicantID string) types.Profile {
	logger := slog.With("component", "compression", "applicant_id", applicantID)
	doc := types.NewProfile()

	personal, err := c.store.GetPersonalDetails(applicantID)
	switch {
	case err != nil:
		logger.Warn("personal details unavailable, leaving section empty", "error", err)
	case personal == nil:
		logger.Warn("no personal details found")
	default:
		doc.Personal = map[string]any{
			"name":     fieldOr(personal.Fields, airtable.FieldFullName, ""),
			"email":    fieldOr(personal.Fields, airtable.FieldEmail, ""),
			"location": fieldOr(personal.Fields, airtable.FieldLocation, ""),
			"linkedin": fieldOr(personal.Fields, airtable.FieldLinkedIn, ""),
		}
	}

	experiences, err := c.store.ListWorkExperiences(applicantID)
	if err != nil {
		logger.Warn("work experiences unavailable, leaving section empty", "error", err)
		experiences = nil
	}
	if len(experiences) == 0 {
		logger.Warn("no work experience found")
	}
	for _, row := range experiences {
		doc.Experience = append(doc.Experience, types.ExperienceEntry{
			Company:      stringField(row.Fields, airtable.FieldCompany),
			Title:        stringField(row.Fields, airtable.FieldTitle),
			StartDate:    stringField(row.Fields, airtable.FieldStartDate),
			EndDate:      stringField(row.Fields, airtable.FieldEndDate),
			Technologies: stringField(row.Fields, airtable.FieldTechnologies),
			Description:  stringField(row.Fields, airtable.FieldDescription),
		})
	}
	doc.TotalExperienceYears = totalExperienceYears(doc.Experience, time.Now())

	salary, err := c.store.GetSalaryPreferences(applicantID)
	switch {
	case err != nil:
		logger.Warn("salary preferences unavailable, leaving section empty", "error", err)
	case salary == nil:
		logger.Warn("no salary preferences found")
	default:
		doc.Salary = map[string]any{
			"preferred_rate": fieldOr(salary.Fields, airtable.FieldPreferredRate, 0),
			"minimum_rate":   fieldOr(salary.Fields, airtable.FieldMinimumRate, 0),
			"currency":       fieldOr(salary.Fields, airtable.FieldCurrency, "USD"),
			"availability":   fieldOr(salary.Fields, airtable.FieldAvailability, 0),
		}
	}

	return doc
}

// CompressAll compresses every applicant, isolating per-applicant failures.
func (c *Compressor) CompressAll() (succeeded, failed int) {
	logger := slog.With("component", "compression", "operation", "compress_all")

	applicants, err := c.store.ListApplicants()
	if err != nil {
		logger.Error("cannot list applicants", "error", err)
		return 0, 0
	}
	logger.Info("compressing all applicants", "count", len(applicants))

	for _, rec := range applicants {
		if err := c.Compress(rec.ID); err != nil {
			logger.Error("compression failed", "applicant_id", rec.ID, "error", err)
			failed++
			continue
		}
		succeeded++
	}

	logger.Info("bulk compression finished", "succeeded", succeeded, "failed", failed)
	return succeeded, failed
}

// totalExperienceYears sums whole days between each entry's start date and
// its end date (today when the entry is still open), divided into years and
// rounded to one decimal. Entries without a parseable start date are
// skipped; a present but unparseable end date skips the entry too.
func totalExperienceYears(entries []types.ExperienceEntry, now time.Time) float64 {
	totalDays := 0

	for _, e := range entries {
		if e.StartDate == "" {
			continue
		}
		start, err := time.Parse(dateLayout, e.StartDate)
		if err != nil {
			slog.Warn("skipping experience entry with unparseable start date",
				"component", "compression", "start_date", e.StartDate)
			continue
		}

		end := now
		if e.EndDate != "" {
			end, err = time.Parse(dateLayout, e.EndDate)
			if err != nil {
				slog.Warn("skipping experience entry with unparseable end date",
					"component", "compression", "end_date", e.EndDate)
				continue
			}
		}

		totalDays += int(end.Sub(start).Hours() / 24)
	}

	return math.Round(float64(totalDays)/365.25*10) / 10
}

func fieldOr(fields map[string]any, key string, def any) any {
	if v, ok := fields[key]; ok {
		return v
	}
	return def
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
