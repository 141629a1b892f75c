package console

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocatorString(t *testing.T) {
	form := CSS("#oneTransform")

	tests := []struct {
		name     string
		loc      Locator
		expected string
	}{
		{
			name:     "plain css",
			loc:      CSS(".navbar-brand"),
			expected: ".navbar-brand",
		},
		{
			name:     "has text",
			loc:      CSS("a").HasText("Mocking Rules"),
			expected: `a:has-text("Mocking Rules")`,
		},
		{
			name:     "text",
			loc:      CSS("button").WithText("Additional Rule Types"),
			expected: `button:text("Additional Rule Types")`,
		},
		{
			name:     "nested",
			loc:      form.Find(`select[name="matchMethod"]`),
			expected: `#oneTransform >> select[name="matchMethod"]`,
		},
		{
			name:     "row with two texts and child",
			loc:      CSS(".rule-row").HasText("Anime Quotes Proxy", "/quote").Find("code").HasText("/quote"),
			expected: `.rule-row:has-text("Anime Quotes Proxy"):has-text("/quote") >> code:has-text("/quote")`,
		},
		{
			name:     "zero value",
			loc:      Locator{},
			expected: "<empty>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.loc.String())
		})
	}
}

func TestLocatorIsImmutable(t *testing.T) {
	base := CSS(".rule-row").HasText("a")
	narrowed := base.HasText("b")
	child := base.Find("code")

	assert.Equal(t, []string{"a"}, base.Parts()[0].HasText)
	assert.Equal(t, []string{"a", "b"}, narrowed.Parts()[0].HasText)
	assert.Len(t, base.Parts(), 1)
	assert.Len(t, child.Parts(), 2)

	parts := base.Parts()
	parts[0].CSS = "mutated"
	assert.Equal(t, ".rule-row", base.Parts()[0].CSS)
}

func TestZeroLocatorNarrowing(t *testing.T) {
	var l Locator
	assert.True(t, l.HasText("x").IsZero())
	assert.True(t, l.WithText("x").IsZero())
}

func TestErrorClassification(t *testing.T) {
	loc := CSS("#matchPath")
	timeout := NewTimeoutError(loc, "toBeVisible", context.DeadlineExceeded)
	mismatch := NewMismatchError(loc, "toHaveValue", "/quote", "/quo", nil)
	wrapped := fmt.Errorf("step configureRequestMatching: %w", mismatch)
	other := errors.New("target closed")

	assert.True(t, IsTimeout(timeout))
	assert.False(t, IsMismatch(timeout))
	assert.True(t, IsMismatch(wrapped))
	assert.True(t, IsExpectationFailure(wrapped))
	assert.False(t, IsExpectationFailure(other))
	assert.False(t, IsTimeout(other))
	assert.True(t, IsTimeout(fmt.Errorf("wait: %w", context.DeadlineExceeded)))

	assert.Equal(t, `expect(#matchPath).toHaveValue: want "/quote", got "/quo" [mismatch]`, mismatch.Error())
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)
}
