package console

import (
	"fmt"
	"strings"
)

// ElementState is the condition a wait blocks on.
type ElementState string

const (
	StateAttached ElementState = "attached"
	StateDetached ElementState = "detached"
	StateVisible  ElementState = "visible"
	StateHidden   ElementState = "hidden"
)

func (s ElementState) IsValid() bool {
	switch s {
	case StateAttached, StateDetached, StateVisible, StateHidden:
		return true
	default:
		return false
	}
}

// Part is one level of a Locator chain.
//
//	CSS      css selector evaluated inside the previous level (or the document)
//	HasText  every entry must appear in the element text (case-insensitive, whitespace collapsed)
//	Text     like HasText, but the innermost matching element wins
type Part struct {
	CSS     string   `json:"css"`
	HasText []string `json:"hasText,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Locator 元素定位器（值对象）. The zero value matches nothing.
// When several elements match, the first in document order is used.
type Locator struct {
	parts []Part
}

// CSS starts a locator from a css selector.
func CSS(selector string) Locator {
	return Locator{parts: []Part{{CSS: selector}}}
}

// HasText narrows the last level to elements containing all of texts.
func (l Locator) HasText(texts ...string) Locator {
	out := l.clone()
	if len(out.parts) == 0 {
		return out
	}
	last := &out.parts[len(out.parts)-1]
	last.HasText = append(append([]string(nil), last.HasText...), texts...)
	return out
}

// WithText narrows the last level to the innermost element containing text.
func (l Locator) WithText(text string) Locator {
	out := l.clone()
	if len(out.parts) == 0 {
		return out
	}
	out.parts[len(out.parts)-1].Text = text
	return out
}

// Locator returns child resolved inside l.
func (l Locator) Locator(child Locator) Locator {
	out := l.clone()
	out.parts = append(out.parts, child.clone().parts...)
	return out
}

// Find is shorthand for l.Locator(CSS(selector)).
func (l Locator) Find(selector string) Locator {
	return l.Locator(CSS(selector))
}

// Parts returns a copy of the chain, outermost first.
func (l Locator) Parts() []Part {
	return l.clone().parts
}

func (l Locator) IsZero() bool {
	return len(l.parts) == 0
}

func (l Locator) clone() Locator {
	parts := make([]Part, len(l.parts))
	for i, p := range l.parts {
		parts[i] = Part{
			CSS:     p.CSS,
			HasText: append([]string(nil), p.HasText...),
			Text:    p.Text,
		}
	}
	return Locator{parts: parts}
}

// String renders the chain the way selectors show up in logs, e.g.
// `#oneTransform >> select[name="matchMethod"]`.
func (l Locator) String() string {
	if len(l.parts) == 0 {
		return "<empty>"
	}
	out := make([]string, 0, len(l.parts))
	for _, p := range l.parts {
		var b strings.Builder
		b.WriteString(p.CSS)
		for _, t := range p.HasText {
			fmt.Fprintf(&b, ":has-text(%q)", t)
		}
		if p.Text != "" {
			fmt.Fprintf(&b, ":text(%q)", p.Text)
		}
		out = append(out, b.String())
	}
	return strings.Join(out, " >> ")
}
