package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// TextPolicy rejects free text matching any configured denylist pattern,
// and empty or whitespace-only text. The same policy guards the intake
// reason, the public description, and review reasons.
type TextPolicy struct {
	patterns []*regexp.Regexp
}

// NewTextPolicy compiles the denylist. Patterns are matched
// case-insensitively against the whole text.
func NewTextPolicy(patterns []string) (*TextPolicy, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + trimmed)
		if err != nil {
			return nil, fmt.Errorf("text policy: compile pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return &TextPolicy{patterns: compiled}, nil
}

// Check returns nil when the text passes, or a validation Error carrying
// CodeInvalidComment (denylist hit) or CodeRequired (empty text).
func (p *TextPolicy) Check(text string) error {
	for _, re := range p.patterns {
		if re.MatchString(text) {
			return &Error{Code: CodeInvalidComment}
		}
	}
	if strings.TrimSpace(text) == "" {
		return &Error{Code: CodeRequired}
	}
	return nil
}
