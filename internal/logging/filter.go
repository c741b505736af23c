// Package logging builds the command-line logger and keeps key material out
// of log output.
package logging

import (
	"io"
	"regexp"

	"github.com/rs/zerolog"
)

// RedactedValue replaces sensitive data in log output.
const RedactedValue = "[REDACTED]"

// sensitivePattern pairs a pattern with its replacement template.
type sensitivePattern struct {
	re   *regexp.Regexp
	repl string
}

var sensitivePatterns = []sensitivePattern{
	// Standalone 32-byte hex values: private keys and nonces look exactly
	// like this. Longer runs (signatures, uncompressed keys) do not match.
	{regexp.MustCompile(`\b(?:0[xX])?[0-9a-fA-F]{64}\b`), RedactedValue},

	// Assignments such as private_key=... or secret: ... keep their name.
	// The value stops before any quote or backslash so that the closing
	// quote of a JSON string survives.
	{
		regexp.MustCompile(`(?i)\b(private[_-]?key|secret|nonce)(\s*[:=]\s*)(?:\\?["'])?[^\s"'\\,}]+`),
		"${1}${2}" + RedactedValue,
	},
}

// SensitiveDataHook flags log events whose message looks like it carries
// key material. zerolog hooks cannot rewrite the message, so filtering
// proper is done by FilteringWriter.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData reports whether s matches any sensitive pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.re.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive match in value.
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.re.ReplaceAllString(result, pattern.repl)
	}
	return result
}

// FilteringWriter redacts sensitive data before passing output on.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports the length of p, not of the
// filtered output, so callers do not see a short write.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := fw.w.Write([]byte(FilterSensitiveValue(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
