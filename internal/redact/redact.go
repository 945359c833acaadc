// Package redact provides utilities for redacting sensitive information from
// strings before they are logged or returned in error responses. This
// package helps prevent the accidental leakage of API keys, file paths, and
// other sensitive data that might be included in upstream error messages.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder    = "[REDACTED]"
	RedactedPathPlaceholder = "[REDACTED_PATH]"
	RedactedKeyPlaceholder  = "[REDACTED_KEY]"
)

// Precompiled regex patterns
var (
	// Google API keys have a fixed prefix and length.
	googleKeyRegex = regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`)

	// Generic credentials and tokens, e.g. "api_key=..." in upstream errors.
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// File paths, which can reveal local directory layout.
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)
	winPathRegex  = regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`)

	// Upstream host names with optional ports.
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	// All patterns and their placeholders, applied in order. The Google key
	// pattern runs first so the generic key pattern never truncates it.
	patterns = []*regexp.Regexp{
		googleKeyRegex, apiKeyRegex, unixPathRegex, winPathRegex, hostPortRegex,
	}

	patternPlaceholders = map[*regexp.Regexp]string{
		googleKeyRegex: RedactedKeyPlaceholder,
		apiKeyRegex:    RedactedKeyPlaceholder,
		unixPathRegex:  RedactedPathPlaceholder,
		winPathRegex:   RedactedPathPlaceholder,
		hostPortRegex:  "[REDACTED_HOST]",
	}
)

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		placeholder := RedactionPlaceholder
		if ph, ok := patternPlaceholders[pattern]; ok {
			placeholder = ph
		}
		result = pattern.ReplaceAllString(result, placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
