package model

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidUnitCount    Code = "INVALID_UNIT_COUNT"
	CodeFractionOutOfRange  Code = "FRACTION_OUT_OF_RANGE"
	CodeUnrecognizedValue   Code = "UNRECOGNIZED_VALUE"
	CodeNegativeAmount      Code = "NEGATIVE_AMOUNT"
	CodeInvalidUnitMix      Code = "INVALID_UNIT_MIX"
	CodeUnknownAMIThreshold Code = "UNKNOWN_AMI_THRESHOLD"
)

// ErrDivisionUndefined is reported by ratio metrics whose denominator is zero.
var ErrDivisionUndefined = errors.New("division undefined")

// ValidationError identifies one malformed or out-of-range input field.
type ValidationError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field failure found in one input snapshot.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) add(field string, code Code, format string, args ...any) {
	*v = append(*v, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ConfigurationError means the reference tables cannot serve a configured value.
type ConfigurationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Message)
}
