package application

import (
	"fmt"
	"strings"

	"coscindex/internal/domain"
)

// MaxVerbosity is the highest crawl log level
const MaxVerbosity = 3

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "resourceIndex" -> "resource index")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"scheme":        "scheme",
		"source":        "source",
		"resourceIndex": "resource index",
		"fileIndex":     "file index",
		"verbose":       "verbosity",
		"expression":    "JSONPath expression",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateVerbosity checks that a crawl log level is within 0..MaxVerbosity
func ValidateVerbosity(level int) error {
	if level < 0 || level > MaxVerbosity {
		return &ValidationError{
			Field:   "verbose",
			Message: fmt.Sprintf("%s must be between 0 and %d, got: %d", formatFieldName("verbose"), MaxVerbosity, level),
		}
	}
	return nil
}

// ValidateSource checks that every resource index named by a source exists
// in the snapshot. Scheme names are checked when the catalog resolves them.
func ValidateSource(snap *domain.Snapshot, src domain.Source) error {
	var idxs []domain.ResourceIndex
	switch s := src.(type) {
	case domain.IndexSource:
		idxs = []domain.ResourceIndex{domain.ResourceIndex(s)}
	case domain.IndexListSource:
		idxs = s
	case domain.SchemeSource:
		return ValidateRequired("scheme", string(s))
	}
	for _, ri := range idxs {
		if int(ri) < 0 || int(ri) >= len(snap.Resources) {
			return &ValidationError{
				Field:   "resourceIndex",
				Message: fmt.Sprintf("expected %s below %d, got: %d", formatFieldName("resourceIndex"), len(snap.Resources), ri),
			}
		}
	}
	return nil
}
