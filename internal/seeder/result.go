package seeder

import (
	"github.com/trackline/trackline-backend/internal/types"
)

// RecordError is one per-record failure. The batch keeps going; the error
// only surfaces here.
type RecordError struct {
	Kind   types.ContentKind `json:"kind"`
	ID     string            `json:"id"`
	Reason string            `json:"reason"`
}

// Summary is the batch outcome returned to the invoking CLI.
type Summary struct {
	Inserted         int           `json:"inserted"`
	Updated          int           `json:"updated"`
	SkippedLocked    int           `json:"skipped_locked"`
	SkippedHumanEdit int           `json:"skipped_human_edit"`
	Total            int           `json:"total"`
	Errors           []RecordError `json:"errors,omitempty"`
}

func (s *Summary) count(outcome Outcome) {
	switch outcome {
	case OutcomeInsert:
		s.Inserted++
	case OutcomeUpdate:
		s.Updated++
	case OutcomeSkipLocked:
		s.SkippedLocked++
	case OutcomeSkipHumanEdit:
		s.SkippedHumanEdit++
	}
}

func (s *Summary) addError(kind types.ContentKind, id string, err error) {
	s.Errors = append(s.Errors, RecordError{Kind: kind, ID: id, Reason: err.Error()})
}
