package calculator

import (
	"fmt"
	"math"
	"strings"
)

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError 拒绝计算，不产生部分结果
type ValidationError struct {
	Problems []FieldError
	Err      error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Field + " " + p.Reason
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) add(field, reason string) {
	e.Problems = append(e.Problems, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) addf(field, format string, args ...interface{}) {
	e.add(field, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) checkPositive(field string, v float64) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		e.add(field, "must be a finite number")
	case v <= 0:
		e.add(field, "must be positive")
	}
}

func (e *ValidationError) checkFinite(field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.add(field, "must be a finite number")
	}
}
