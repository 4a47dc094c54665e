package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ersonp/family-core/internal/infrastructure/parsers"
)

// formatDetails renders audit details as sorted key=value pairs.
func formatDetails(details map[string]any) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, " ")
}

func validateFormat(format string) error {
	if format == "" || contains(parsers.Formats, format) {
		return nil
	}
	return fmt.Errorf("invalid format %q, valid formats: %v", format, parsers.Formats)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// orDash returns s, or "-" when s is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
