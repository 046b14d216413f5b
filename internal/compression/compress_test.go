package compression

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Pyrem/talentbase/internal/airtable"
	"github.com/Pyrem/talentbase/pkg/types"
)

type fakeStore struct {
	applicants  []*airtable.Record
	personal    map[string]*airtable.Record
	experiences map[string][]*airtable.Record
	salary      map[string]*airtable.Record

	personalErr   error
	experienceErr error
	salaryErr     error
	failUpdateFor string

	updates map[string]map[string]any
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		personal:    map[string]*airtable.Record{},
		experiences: map[string][]*airtable.Record{},
		salary:      map[string]*airtable.Record{},
		updates:     map[string]map[string]any{},
	}
}

func (f *fakeStore) GetApplicant(id string) (*airtable.Record, error) {
	for _, rec := range f.applicants {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeStore) ListApplicants() ([]*airtable.Record, error) {
	return f.applicants, nil
}

func (f *fakeStore) UpdateApplicant(id string, fields map[string]any) error {
	if id == f.failUpdateFor {
		return errors.New("update rejected")
	}
	f.updates[id] = fields
	return nil
}

func (f *fakeStore) GetPersonalDetails(applicantID string) (*airtable.Record, error) {
	if f.personalErr != nil {
		return nil, f.personalErr
	}
	return f.personal[applicantID], nil
}

func (f *fakeStore) ListWorkExperiences(applicantID string) ([]*airtable.Record, error) {
	if f.experienceErr != nil {
		return nil, f.experienceErr
	}
	return f.experiences[applicantID], nil
}

func (f *fakeStore) GetSalaryPreferences(applicantID string) (*airtable.Record, error) {
	if f.salaryErr != nil {
		return nil, f.salaryErr
	}
	return f.salary[applicantID], nil
}

func TestTotalExperienceYears(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		entries []types.ExperienceEntry
		want    float64
	}{
		{"no entries", nil, 0},
		{"one full year", []types.ExperienceEntry{
			{StartDate: "2020-01-01", EndDate: "2021-01-01"},
		}, 1.0},
		{"half year", []types.ExperienceEntry{
			{StartDate: "2020-01-01", EndDate: "2020-07-01"},
		}, 0.5},
		{"two jobs summed", []types.ExperienceEntry{
			{StartDate: "2018-01-01", EndDate: "2019-01-01"},
			{StartDate: "2020-01-01", EndDate: "2021-01-01"},
		}, 2.0},
		{"open ended runs to now", []types.ExperienceEntry{
			{StartDate: "2024-01-01"},
		}, 1.0},
		{"missing start date skipped", []types.ExperienceEntry{
			{EndDate: "2021-01-01"},
		}, 0},
		{"unparseable start date skipped", []types.ExperienceEntry{
			{StartDate: "May 2020", EndDate: "2021-01-01"},
		}, 0},
		{"unparseable end date skips entry", []types.ExperienceEntry{
			{StartDate: "2020-01-01", EndDate: "ongoing"},
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := totalExperienceYears(tt.entries, now); got != tt.want {
				t.Errorf("totalExperienceYears() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestBuildEmptySections checks the document keeps its full shape when no
// child rows exist: empty objects and an empty list, never nulls.
func TestBuildEmptySections(t *testing.T) {
	store := newFakeStore()
	store.applicants = []*airtable.Record{{ID: "recA", Fields: map[string]any{}}}

	doc := New(store).Build("recA")

	body, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	want := `{
  "personal": {},
  "experience": [],
  "total_experience_years": 0,
  "salary": {}
}`
	if body != want {
		t.Errorf("document = %s, want %s", body, want)
	}
}

func TestBuildFieldMappings(t *testing.T) {
	store := newFakeStore()
	store.applicants = []*airtable.Record{{ID: "recA", Fields: map[string]any{}}}
	store.personal["recA"] = &airtable.Record{ID: "p1", Fields: map[string]any{
		"Full Name": "Jane Doe",
		"Email":     "jane@example.com",
		"Location":  "Berlin, Germany",
		"LinkedIn":  "https://linkedin.com/in/janedoe",
	}}
	store.experiences["recA"] = []*airtable.Record{
		{ID: "w1", Fields: map[string]any{
			"Company":      "Google",
			"Title":        "Engineer",
			"Start Date":   "2020-01-01",
			"End Date":     "2021-01-01",
			"Technologies": "Go, Kubernetes",
			"Description":  "Platform work",
		}},
	}
	store.salary["recA"] = &airtable.Record{ID: "s1", Fields: map[string]any{
		"Preferred Rate":        float64(85),
		"Minimum Rate":          float64(70),
		"Availability (hrs/wk)": float64(30),
	}}

	doc := New(store).Build("recA")

	if got := doc.Personal["name"]; got != "Jane Doe" {
		t.Errorf("personal name = %v, want Jane Doe", got)
	}
	if got := doc.Personal["linkedin"]; got != "https://linkedin.com/in/janedoe" {
		t.Errorf("personal linkedin = %v", got)
	}
	if len(doc.Experience) != 1 {
		t.Fatalf("experience entries = %d, want 1", len(doc.Experience))
	}
	if doc.Experience[0].Company != "Google" || doc.Experience[0].Technologies != "Go, Kubernetes" {
		t.Errorf("experience entry = %+v", doc.Experience[0])
	}
	if doc.TotalExperienceYears != 1.0 {
		t.Errorf("total experience = %v, want 1.0", doc.TotalExperienceYears)
	}
	if got := doc.Salary["preferred_rate"]; got != float64(85) {
		t.Errorf("salary preferred_rate = %v, want 85", got)
	}
	if got := doc.Salary["currency"]; got != "USD" {
		t.Errorf("salary currency = %v, want default USD", got)
	}
}

func TestCompressWritesDocument(t *testing.T) {
	store := newFakeStore()
	store.applicants = []*airtable.Record{{ID: "recA", Fields: map[string]any{}}}
	store.personal["recA"] = &airtable.Record{ID: "p1", Fields: map[string]any{
		"Full Name": "Jane Doe",
	}}

	if err := New(store).Compress("recA"); err != nil {
		t.Fatalf("Compress() failed: %v", err)
	}

	fields, ok := store.updates["recA"]
	if !ok {
		t.Fatal("no update written for applicant")
	}
	body, ok := fields["Compressed JSON"].(string)
	if !ok || body == "" {
		t.Fatalf("Compressed JSON not written, got %v", fields)
	}
	if !strings.Contains(body, `"name": "Jane Doe"`) {
		t.Errorf("document missing personal data: %s", body)
	}
}

func TestCompressUnknownApplicant(t *testing.T) {
	store := newFakeStore()

	if err := New(store).Compress("missing"); err == nil {
		t.Fatal("expected error for unknown applicant")
	}
	if len(store.updates) != 0 {
		t.Errorf("expected no updates, got %v", store.updates)
	}
}

// TestBuildChildReadFailure checks that an unavailable child table degrades
// to an empty section instead of failing the whole compression.
func TestBuildChildReadFailure(t *testing.T) {
	store := newFakeStore()
	store.applicants = []*airtable.Record{{ID: "recA", Fields: map[string]any{}}}
	store.personalErr = errors.New("airtable down")
	store.experienceErr = errors.New("airtable down")
	store.salaryErr = errors.New("airtable down")

	doc := New(store).Build("recA")

	if len(doc.Personal) != 0 || len(doc.Experience) != 0 || len(doc.Salary) != 0 {
		t.Errorf("expected empty sections, got %+v", doc)
	}

	if err := New(store).Compress("recA"); err != nil {
		t.Errorf("Compress() should still succeed, got %v", err)
	}
}

func TestCompressAll(t *testing.T) {
	store := newFakeStore()
	store.applicants = []*airtable.Record{
		{ID: "rec1", Fields: map[string]any{}},
		{ID: "rec2", Fields: map[string]any{}},
		{ID: "rec3", Fields: map[string]any{}},
	}
	store.failUpdateFor = "rec2"

	succeeded, failed := New(store).CompressAll()

	if succeeded != 2 || failed != 1 {
		t.Errorf("CompressAll() = (%d, %d), want (2, 1)", succeeded, failed)
	}
}
