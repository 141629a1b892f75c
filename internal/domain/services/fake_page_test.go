package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go_mock_console/internal/domain/iface"
	"go_mock_console/internal/domain/model/console"
)

// fakePage is an in-memory ConsolePage. Elements are present unless listed
// in missing; values are whatever was last selected or filled.
type fakePage struct {
	mu        sync.Mutex
	calls     []string
	missing   map[string]bool
	failState map[string]console.ElementState
	values    map[string]string
	rewrite   map[string]string // locator -> value the page settles on instead
	unchecked map[string]bool
}

var _ iface.ConsolePage = (*fakePage)(nil)

func newFakePage() *fakePage {
	return &fakePage{
		missing:   map[string]bool{},
		failState: map[string]console.ElementState{},
		values:    map[string]string{},
		rewrite:   map[string]string{},
		unchecked: map[string]bool{},
	}
}

func (p *fakePage) record(format string, args ...any) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *fakePage) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakePage) present(loc console.Locator, expectation string) error {
	if p.missing[loc.String()] {
		return console.NewTimeoutError(loc, expectation, context.DeadlineExceeded)
	}
	return nil
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.record("navigate %s", url)
	return nil
}

func (p *fakePage) WaitFor(ctx context.Context, loc console.Locator, state console.ElementState, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.record("wait %s %s", state, loc)
	if s, ok := p.failState[loc.String()]; ok && s == state {
		return console.NewTimeoutError(loc, "state="+string(state), context.DeadlineExceeded)
	}
	if state == console.StateVisible || state == console.StateAttached {
		return p.present(loc, "state="+string(state))
	}
	return nil
}

func (p *fakePage) Click(ctx context.Context, loc console.Locator, opts iface.ClickOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.record("click %s force=%t", loc, opts.Force)
	return p.present(loc, "click")
}

func (p *fakePage) SelectOption(ctx context.Context, loc console.Locator, value string) error {
	return p.set(ctx, "select", loc, value)
}

func (p *fakePage) Fill(ctx context.Context, loc console.Locator, value string) error {
	return p.set(ctx, "fill", loc, value)
}

func (p *fakePage) set(ctx context.Context, action string, loc console.Locator, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.record("%s %s = %s", action, loc, value)
	if err := p.present(loc, action); err != nil {
		return err
	}
	if v, ok := p.rewrite[loc.String()]; ok {
		value = v
	}
	p.values[loc.String()] = value
	return nil
}

func (p *fakePage) ExpectVisible(ctx context.Context, loc console.Locator, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.record("expect visible %s", loc)
	return p.present(loc, "toBeVisible")
}

func (p *fakePage) ExpectEnabled(ctx context.Context, loc console.Locator, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.record("expect enabled %s", loc)
	return p.present(loc, "toBeEnabled")
}

func (p *fakePage) ExpectValue(ctx context.Context, loc console.Locator, want string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.record("expect value %s = %s", loc, want)
	if err := p.present(loc, "toHaveValue"); err != nil {
		return err
	}
	if got := p.values[loc.String()]; got != want {
		return console.NewMismatchError(loc, "toHaveValue", want, got, context.DeadlineExceeded)
	}
	return nil
}

func (p *fakePage) ExpectChecked(ctx context.Context, loc console.Locator, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	p.record("expect checked %s", loc)
	if err := p.present(loc, "toBeChecked"); err != nil {
		return err
	}
	if p.unchecked[loc.String()] {
		return console.NewMismatchError(loc, "toBeChecked", "true", "false", context.DeadlineExceeded)
	}
	return nil
}
