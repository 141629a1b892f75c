package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Match reports whether reqPath satisfies pattern under the operator, the
// same comparison the console applies to incoming requests once the rule
// is saved. An invalid regular expression never matches.
func (o PathOperator) Match(pattern, reqPath string) bool {
	switch o {
	case PathOperatorExact:
		return reqPath == pattern
	case PathOperatorStartsWith:
		return strings.HasPrefix(reqPath, pattern)
	case PathOperatorContains:
		return strings.Contains(reqPath, pattern)
	case PathOperatorRegex:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(reqPath)
	default: // 默认 Exact 匹配
		return reqPath == pattern
	}
}

// ValidatePattern checks that pattern is usable with the operator.
func (o PathOperator) ValidatePattern(pattern string) error {
	if o != PathOperatorRegex {
		return nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("invalid path regex %q: %w", pattern, err)
	}
	return nil
}
