package errors

import (
	"errors"
	"fmt"
)

// Sentinels for the failure classes the pipeline branches on. Everything
// else travels as a wrapped error straight to the caller.
var (
	// ErrNoCompressedJSON means the applicant exists but its Compressed JSON
	// field is empty, so there is nothing to decompress or evaluate.
	ErrNoCompressedJSON = errors.New("applicant has no Compressed JSON")

	// ErrInvalidCompressedJSON means the field holds text that does not
	// parse as JSON. Nothing is written downstream of this.
	ErrInvalidCompressedJSON = errors.New("Compressed JSON is not valid JSON")

	// ErrEmptyResponse means the LLM call succeeded but produced no text.
	// The retry loop treats it like any other transient failure.
	ErrEmptyResponse = errors.New("llm returned an empty response")
)

// Applicant wraps err with the applicant record id so joined section
// errors keep saying which record they are about.
func Applicant(applicantID string, err error) error {
	return fmt.Errorf("applicant %s: %w", applicantID, err)
}
