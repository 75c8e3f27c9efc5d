// Package errors provides structured error types with helpful suggestions.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents the category of error.
type ErrorCode string

const (
	// Lookup errors
	ErrModelNotFound ErrorCode = "MODEL_NOT_FOUND"
	ErrTableNotFound ErrorCode = "TABLE_NOT_FOUND"
	ErrUnknownType   ErrorCode = "UNKNOWN_TYPE"

	// Resolution errors
	ErrMethodMismatch   ErrorCode = "METHOD_MISMATCH"
	ErrIterableConflict ErrorCode = "ITERABLE_CONFLICT"
	ErrInvokeFailed     ErrorCode = "INVOKE_FAILED"

	// Mapping and output errors
	ErrUnmappedColumnType ErrorCode = "UNMAPPED_COLUMN_TYPE"
	ErrOutputExists       ErrorCode = "OUTPUT_EXISTS"

	// Setup errors
	ErrConfigInvalid      ErrorCode = "CONFIG_INVALID"
	ErrDialectUnsupported ErrorCode = "DIALECT_UNSUPPORTED"
	ErrGeneral            ErrorCode = "GENERAL_ERROR"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// TranspileError is a structured error with a code and suggestion.
type TranspileError struct {
	Code       ErrorCode
	Message    string
	Suggestion string
	Context    string // The offending input, e.g. an @return annotation
}

// New creates an error with the given code.
func New(code ErrorCode, message string) *TranspileError {
	return &TranspileError{
		Code:    code,
		Message: message,
	}
}

// Newf creates an error with the given code and a formatted message.
func Newf(code ErrorCode, format string, args ...any) *TranspileError {
	return New(code, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *TranspileError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is reports whether target is a TranspileError with the same code, so that
// errors.Is(err, errors.New(code, "")) matches on the code alone.
func (e *TranspileError) Is(target error) bool {
	t, ok := target.(*TranspileError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Print outputs the error in a user-friendly colored format.
func (e *TranspileError) Print() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s%sError:%s %s\n", colorBold, colorRed, colorReset, e.Message))

	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s|%s  %s\n", colorGray, colorReset, e.Context))
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n%sSuggestion:%s %s\n", colorCyan, colorReset, e.Suggestion))
	}

	return sb.String()
}

// WithSuggestion adds a suggestion to the error.
func (e *TranspileError) WithSuggestion(suggestion string) *TranspileError {
	e.Suggestion = suggestion
	return e
}

// WithContext attaches the offending input to the error.
func (e *TranspileError) WithContext(context string) *TranspileError {
	e.Context = context
	return e
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var te *TranspileError
	if stderrors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// As returns the first TranspileError in err's chain.
func As(err error) (*TranspileError, bool) {
	var te *TranspileError
	if stderrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// CodeOf returns the code of the first TranspileError in err's chain, or
// ErrGeneral if there is none.
func CodeOf(err error) ErrorCode {
	var te *TranspileError
	if stderrors.As(err, &te) {
		return te.Code
	}
	return ErrGeneral
}

// Suggestions provides common suggestion messages.
var Suggestions = map[ErrorCode]string{
	ErrModelNotFound:      "Pass the full import path (e.g. example.com/app/models.User) or add its package to models.namespaces",
	ErrUnknownType:        "Register the type with the model container so it can be resolved by name",
	ErrOutputExists:       "Remove --no-overwrite to replace the existing schema file",
	ErrDialectUnsupported: "Supported dialects: sqlite, postgres, mysql",
	ErrConfigInvalid:      "Run 'transpiler init' to create a default transpiler.yml",
}

// SuggestSimilar finds similar strings using Levenshtein distance.
func SuggestSimilar(input string, options []string) string {
	input = strings.ToLower(input)
	var best string
	bestDist := len(input) + 1

	for _, opt := range options {
		dist := levenshtein(input, strings.ToLower(opt))
		if dist < bestDist && dist <= 3 { // Only suggest if close enough
			bestDist = dist
			best = opt
		}
	}

	if best != "" {
		return fmt.Sprintf("Did you mean '%s'?", best)
	}
	return ""
}

// levenshtein calculates the edit distance between two strings.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
