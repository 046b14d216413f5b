package airtable

// Field names of the base schema. The schema itself is owned by the hosted
// base; these constants only have to spell it the way the base does.

// Applicants table.
const (
	FieldCompressedJSON  = "Compressed JSON"
	FieldShortlistStatus = "Shortlist Status"
	FieldLLMSummary      = "LLM Summary"
	FieldLLMScore        = "LLM Score"
	FieldLLMIssues       = "LLM Issues"
	FieldLLMFollowUps    = "LLM Follow-Ups"
)

// Link fields. Child tables point back at the parent through
// "Applicant ID"; the leads table points through "Applicant".
const (
	FieldApplicantID = "Applicant ID"
	FieldApplicant   = "Applicant"
)

// Personal Details table.
const (
	FieldFullName = "Full Name"
	FieldEmail    = "Email"
	FieldLocation = "Location"
	FieldLinkedIn = "LinkedIn"
)

// Work Experience table.
const (
	FieldCompany      = "Company"
	FieldTitle        = "Title"
	FieldStartDate    = "Start Date"
	FieldEndDate      = "End Date"
	FieldTechnologies = "Technologies"
	FieldDescription  = "Description"
)

// Salary Preferences table.
const (
	FieldPreferredRate = "Preferred Rate"
	FieldMinimumRate   = "Minimum Rate"
	FieldCurrency      = "Currency"
	FieldAvailability  = "Availability (hrs/wk)"
)

// Shortlisted Leads table.
const (
	FieldScoreReason = "Score Reason"
	FieldCreatedAt   = "Created At"
)

// Shortlist Status values.
const (
	StatusShortlisted    = "Shortlisted"
	StatusNotShortlisted = "Not Shortlisted"
)
