package types

import "encoding/json"

// =============== COMPRESSED PROFILE TYPES ===============

// Profile is the document stored in the Compressed JSON field of an
// applicant record. All four top-level keys are always present: a missing
// child row leaves its section as an empty object, no experience rows leave
// an empty list and a zero total.
type Profile struct {
	Personal             map[string]any    `json:"personal"`
	Experience           []ExperienceEntry `json:"experience"`
	TotalExperienceYears float64           `json:"total_experience_years"`
	Salary               map[string]any    `json:"salary"`
}

type ExperienceEntry struct {
	Company      string `json:"company"`
	Title        string `json:"title"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Technologies string `json:"technologies"`
	Description  string `json:"description"`
}

// NewProfile returns a document with every section at its empty default.
func NewProfile() Profile {
	return Profile{
		Personal:   map[string]any{},
		Experience: []ExperienceEntry{},
		Salary:     map[string]any{},
	}
}

// Marshal renders the document the way it is stored in the field,
// two-space indented.
func (p Profile) Marshal() (string, error) {
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// =============== LLM ASSESSMENT TYPES ===============

// Assessment holds the labeled fields parsed out of an LLM evaluation
// response. Fields the response did not contain keep their zero value.
type Assessment struct {
	Summary   string `json:"summary"`
	Score     int    `json:"score"`
	Issues    string `json:"issues"`
	FollowUps string `json:"follow_ups"`
}

// =============== SHORTLIST TYPES ===============

type CriterionResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason"`
}

type Evaluation struct {
	ApplicantID    string            `json:"applicant_id"`
	Shortlisted    bool              `json:"shortlisted"`
	Criteria       []CriterionResult `json:"criteria"`
	CompressedJSON string            `json:"-"`
}
