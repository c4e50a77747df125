package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"slidedeck/internal/models"
)

// DraftError reports structured text that could not be parsed. The draft
// text stays pending and the last valid value is unchanged.
type DraftError struct {
	Field string
	Text  string
	Err   error
}

func (e *DraftError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *DraftError) Unwrap() error {
	return e.Err
}

func isDraftField(field string) bool {
	return field == models.FieldChartData || field == models.FieldProgressData
}

// SetDraft stages raw text for chartData or progressData
func (s *Session) SetDraft(field, text string) error {
	if !isDraftField(field) {
		return fmt.Errorf("%w: %s has no draft", ErrUnknownField, field)
	}
	s.drafts[field] = text
	return nil
}

// Draft returns the pending text of field, or the current value formatted
// as JSON when nothing is pending.
func (s *Session) Draft(field string) (text string, pending bool) {
	if d, ok := s.drafts[field]; ok {
		return d, true
	}
	var v any
	switch field {
	case models.FieldChartData:
		v = nonNil(s.chart)
	case models.FieldProgressData:
		v = nonNil(s.progress)
	default:
		return "", false
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", false
	}
	return string(data), false
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// Commit parses the pending draft of field and promotes it to the field's
// value. Without a draft it does nothing.
func (s *Session) Commit(field string) error {
	text, ok := s.drafts[field]
	if !ok {
		return nil
	}

	switch field {
	case models.FieldChartData:
		var entries []models.ChartEntry
		if err := json.Unmarshal([]byte(text), &entries); err != nil {
			return &DraftError{Field: field, Text: text, Err: err}
		}
		s.chart = nonNil(entries)
	case models.FieldProgressData:
		var entries []models.ProgressEntry
		if err := json.Unmarshal([]byte(text), &entries); err != nil {
			return &DraftError{Field: field, Text: text, Err: err}
		}
		s.progress = nonNil(entries)
	default:
		return fmt.Errorf("%w: %s has no draft", ErrUnknownField, field)
	}

	s.present[field] = true
	delete(s.drafts, field)
	return nil
}

// CommitAll commits every pending draft and joins the failures
func (s *Session) CommitAll() error {
	var errs []error
	for _, field := range s.PendingDrafts() {
		if err := s.Commit(field); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PendingDrafts lists the fields holding uncommitted text
func (s *Session) PendingDrafts() []string {
	fields := make([]string, 0, len(s.drafts))
	for f := range s.drafts {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// DiscardDraft drops the pending text of field
func (s *Session) DiscardDraft(field string) {
	delete(s.drafts, field)
}
