package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"fortuna/internal/models"
)

// Models wrap the JSON object in prose more often than not, so grab the
// span from the first "{" to the last "}" and decode that.
var jsonObjectRegex = regexp.MustCompile(`(?s)\{.*\}`)

// ParseError means the model reply could not be recovered as a structured
// prediction. Raw keeps the full reply for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParsePrediction extracts the JSON object from a raw model reply. A
// successfully decoded object is returned as-is: field contents, including
// whether winner actually names one of the two teams, are the model's word.
func ParsePrediction(raw string) (*models.Prediction, error) {
	span := jsonObjectRegex.FindString(raw)
	if span == "" {
		return nil, &ParseError{Raw: raw, Err: errors.New("no JSON object in reply")}
	}

	var p models.Prediction
	if err := json.Unmarshal([]byte(span), &p); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return &p, nil
}
