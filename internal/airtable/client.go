package airtable

import (
	"context"
	"fmt"
	"log/slog"

	airtableapi "github.com/mehanizm/airtable"
	"golang.org/x/time/rate"

	"github.com/Pyrem/talentbase/internal/config"
)

// requestsPerSecond is the per-base budget the Airtable API enforces.
const requestsPerSecond = 5

// Record is the slice of an Airtable record the pipeline works with.
type Record struct {
	ID     string
	Fields map[string]any
}

// Client is the gateway to the five pipeline tables. Every call waits on a
// shared limiter so bulk runs stay inside the API budget.
type Client struct {
	api *airtableapi.Client

	applicants *airtableapi.Table
	personal   *airtableapi.Table
	experience *airtableapi.Table
	salary     *airtableapi.Table
	leads      *airtableapi.Table

	limiter *rate.Limiter
	log     *slog.Logger
}

func New(cfg *config.Config) *Client {
	api := airtableapi.NewClient(cfg.AirtableAPIKey)

	return &Client{
		api:        api,
		applicants: api.GetTable(cfg.AirtableBaseID, cfg.TableApplicants),
		personal:   api.GetTable(cfg.AirtableBaseID, cfg.TablePersonalDetails),
		experience: api.GetTable(cfg.AirtableBaseID, cfg.TableWorkExperience),
		salary:     api.GetTable(cfg.AirtableBaseID, cfg.TableSalaryPreferences),
		leads:      api.GetTable(cfg.AirtableBaseID, cfg.TableShortlistedLeads),
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		log:        slog.With("component", "airtable"),
	}
}

// GetApplicant fetches one applicant record by id.
func (c *Client) GetApplicant(id string) (*Record, error) {
	c.wait()
	rec, err := c.applicants.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("get applicant %s: %w", id, err)
	}
	return fromAPI(rec), nil
}

// ListApplicants returns every applicant record, following pagination.
func (c *Client) ListApplicants() ([]*Record, error) {
	recs, err := c.list(c.applicants, "")
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	return recs, nil
}

// UpdateApplicant patches the given fields on an applicant record.
func (c *Client) UpdateApplicant(id string, fields map[string]any) error {
	return c.update(c.applicants, id, fields)
}

// GetPersonalDetails returns the applicant's personal details row, or nil
// when none exists. Duplicate rows resolve to the first match.
func (c *Client) GetPersonalDetails(applicantID string) (*Record, error) {
	rec, err := c.first(c.personal, linkFormula(FieldApplicantID, applicantID))
	if err != nil {
		return nil, fmt.Errorf("get personal details for %s: %w", applicantID, err)
	}
	return rec, nil
}

func (c *Client) CreatePersonalDetails(fields map[string]any) error {
	return c.create(c.personal, fields)
}

func (c *Client) UpdatePersonalDetails(id string, fields map[string]any) error {
	return c.update(c.personal, id, fields)
}

// ListWorkExperiences returns all experience rows linked to the applicant.
func (c *Client) ListWorkExperiences(applicantID string) ([]*Record, error) {
	recs, err := c.list(c.experience, linkFormula(FieldApplicantID, applicantID))
	if err != nil {
		return nil, fmt.Errorf("list work experiences for %s: %w", applicantID, err)
	}
	return recs, nil
}

func (c *Client) CreateWorkExperience(fields map[string]any) error {
	return c.create(c.experience, fields)
}

func (c *Client) UpdateWorkExperience(id string, fields map[string]any) error {
	return c.update(c.experience, id, fields)
}

func (c *Client) DeleteWorkExperience(id string) error {
	return c.delete(c.experience, id)
}

// GetSalaryPreferences returns the applicant's salary row, or nil when none
// exists.
func (c *Client) GetSalaryPreferences(applicantID string) (*Record, error) {
	rec, err := c.first(c.salary, linkFormula(FieldApplicantID, applicantID))
	if err != nil {
		return nil, fmt.Errorf("get salary preferences for %s: %w", applicantID, err)
	}
	return rec, nil
}

func (c *Client) CreateSalaryPreferences(fields map[string]any) error {
	return c.create(c.salary, fields)
}

func (c *Client) UpdateSalaryPreferences(id string, fields map[string]any) error {
	return c.update(c.salary, id, fields)
}

// ShortlistedLeadExists reports whether a lead row already points at the
// applicant.
func (c *Client) ShortlistedLeadExists(applicantID string) (bool, error) {
	rec, err := c.first(c.leads, linkFormula(FieldApplicant, applicantID))
	if err != nil {
		return false, fmt.Errorf("check shortlisted lead for %s: %w", applicantID, err)
	}
	return rec != nil, nil
}

func (c *Client) CreateShortlistedLead(fields map[string]any) error {
	return c.create(c.leads, fields)
}

// linkFormula builds the filterByFormula expression matching rows whose
// link field points at the given record id.
func linkFormula(field, recordID string) string {
	return fmt.Sprintf("{%s} = '%s'", field, recordID)
}

func (c *Client) list(t *airtableapi.Table, formula string) ([]*Record, error) {
	var out []*Record
	offset := ""

	for {
		c.wait()
		q := t.GetRecords()
		if formula != "" {
			q = q.WithFilterFormula(formula)
		}
		if offset != "" {
			q = q.WithOffset(offset)
		}

		page, err := q.Do()
		if err != nil {
			return nil, err
		}
		for _, rec := range page.Records {
			out = append(out, fromAPI(rec))
		}

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	return out, nil
}

func (c *Client) first(t *airtableapi.Table, formula string) (*Record, error) {
	c.wait()
	page, err := t.GetRecords().WithFilterFormula(formula).Do()
	if err != nil {
		return nil, err
	}
	if len(page.Records) == 0 {
		return nil, nil
	}
	return fromAPI(page.Records[0]), nil
}

func (c *Client) create(t *airtableapi.Table, fields map[string]any) error {
	c.wait()
	created, err := t.AddRecords(&airtableapi.Records{
		Records: []*airtableapi.Record{{Fields: fields}},
	})
	if err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	for _, rec := range created.Records {
		c.log.Debug("created record", "record_id", rec.ID)
	}
	return nil
}

// update sends a partial update: fields absent from the map keep their
// stored values. UpdateRecords would PUT and clear every omitted field.
func (c *Client) update(t *airtableapi.Table, id string, fields map[string]any) error {
	c.wait()
	_, err := t.UpdateRecordsPartial(&airtableapi.Records{
		Records: []*airtableapi.Record{{ID: id, Fields: fields}},
	})
	if err != nil {
		return fmt.Errorf("update record %s: %w", id, err)
	}
	c.log.Debug("updated record", "record_id", id)
	return nil
}

func (c *Client) delete(t *airtableapi.Table, id string) error {
	c.wait()
	if _, err := t.DeleteRecords([]string{id}); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	c.log.Debug("deleted record", "record_id", id)
	return nil
}

// wait blocks until the limiter grants a slot. The background context never
// expires, so the returned error is always nil.
func (c *Client) wait() {
	_ = c.limiter.Wait(context.Background())
}

func fromAPI(rec *airtableapi.Record) *Record {
	if rec == nil {
		return nil
	}
	return &Record{ID: rec.ID, Fields: rec.Fields}
}
