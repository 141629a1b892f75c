package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_mock_console/internal/domain/iface"
	"go_mock_console/internal/domain/model/console"
	configs "go_mock_console/internal/infra/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// RodPage 基于 go-rod 的控制台页面实现
type RodPage struct {
	page     *rod.Page
	timeouts configs.TimeoutConfig
}

var _ iface.ConsolePage = (*RodPage)(nil)

func NewRodPage(page *rod.Page, timeouts configs.TimeoutConfig) *RodPage {
	return &RodPage{page: page, timeouts: timeouts}
}

// Raw exposes the underlying page for capture helpers.
func (p *RodPage) Raw() *rod.Page {
	return p.page
}

// scoped binds the page to ctx bounded by d.
func (p *RodPage) scoped(ctx context.Context, d time.Duration) (*rod.Page, context.CancelFunc) {
	tctx, cancel := context.WithTimeout(ctx, d)
	return p.page.Context(tctx), cancel
}

func (p *RodPage) actionTimeout(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return p.timeouts.Action
}

func (p *RodPage) Navigate(ctx context.Context, url string) error {
	pg, cancel := p.scoped(ctx, p.timeouts.Navigation)
	defer cancel()

	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

func (p *RodPage) WaitFor(ctx context.Context, loc console.Locator, state console.ElementState, timeout time.Duration) error {
	if !state.IsValid() {
		return fmt.Errorf("unknown element state %q", state)
	}
	return p.waitUntil(ctx, loc, string(state), "", "state="+string(state), timeout)
}

func (p *RodPage) Click(ctx context.Context, loc console.Locator, opts iface.ClickOptions) error {
	b := newBudget(p.actionTimeout(opts.Timeout))
	if opts.Force {
		el, cancel, err := p.element(ctx, loc, "click", b.left())
		if err != nil {
			return err
		}
		defer cancel()
		if _, err := el.Eval(forceClickJS); err != nil {
			return p.classify(ctx, loc, "click", err)
		}
		return nil
	}

	if err := p.waitUntil(ctx, loc, "enabled", "", "click", b.left()); err != nil {
		return err
	}
	el, cancel, err := p.element(ctx, loc, "click", b.left())
	if err != nil {
		return err
	}
	defer cancel()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return p.classify(ctx, loc, "click", err)
	}
	return nil
}

// SelectOption waits until the select is usable and offers value, then picks it.
func (p *RodPage) SelectOption(ctx context.Context, loc console.Locator, value string) error {
	expectation := fmt.Sprintf("selectOption(%q)", value)
	b := newBudget(p.timeouts.Action)
	if err := p.waitUntil(ctx, loc, "option", value, expectation, b.left()); err != nil {
		return err
	}
	el, cancel, err := p.element(ctx, loc, expectation, b.left())
	if err != nil {
		return err
	}
	defer cancel()

	res, err := el.Eval(selectJS, value)
	if err != nil {
		return p.classify(ctx, loc, expectation, err)
	}
	if !res.Value.Bool() {
		return console.NewTimeoutError(loc, expectation, errors.New("option disappeared before selection"))
	}
	return nil
}

func (p *RodPage) Fill(ctx context.Context, loc console.Locator, value string) error {
	b := newBudget(p.timeouts.Action)
	if err := p.waitUntil(ctx, loc, "enabled", "", "fill", b.left()); err != nil {
		return err
	}
	el, cancel, err := p.element(ctx, loc, "fill", b.left())
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := el.Eval(clearJS); err != nil {
		return p.classify(ctx, loc, "fill", err)
	}
	if value == "" {
		return nil
	}
	if err := el.Input(value); err != nil {
		return p.classify(ctx, loc, "fill", err)
	}
	return nil
}

func (p *RodPage) ExpectVisible(ctx context.Context, loc console.Locator, timeout time.Duration) error {
	return p.waitUntil(ctx, loc, "visible", "", "toBeVisible", timeout)
}

func (p *RodPage) ExpectEnabled(ctx context.Context, loc console.Locator, timeout time.Duration) error {
	return p.waitUntil(ctx, loc, "enabled", "", "toBeEnabled", timeout)
}

func (p *RodPage) ExpectValue(ctx context.Context, loc console.Locator, want string, timeout time.Duration) error {
	err := p.waitUntil(ctx, loc, "value", want, "toHaveValue", timeout)
	if err == nil || !console.IsTimeout(err) || ctx.Err() != nil {
		return err
	}
	return p.mismatch(ctx, loc, "toHaveValue", "value", want, err)
}

func (p *RodPage) ExpectChecked(ctx context.Context, loc console.Locator, timeout time.Duration) error {
	err := p.waitUntil(ctx, loc, "checked", "", "toBeChecked", timeout)
	if err == nil || !console.IsTimeout(err) || ctx.Err() != nil {
		return err
	}
	return p.mismatch(ctx, loc, "toBeChecked", "checked", "true", err)
}

// budget is one deadline shared by the waits that make up an action.
type budget struct {
	end time.Time
}

func newBudget(d time.Duration) budget {
	return budget{end: time.Now().Add(d)}
}

// left is the time remaining, never negative.
func (b budget) left() time.Duration {
	if d := time.Until(b.end); d > 0 {
		return d
	}
	return 0
}

// waitUntil polls checkJS until it holds or the budget runs out.
func (p *RodPage) waitUntil(ctx context.Context, loc console.Locator, kind, want, expectation string, timeout time.Duration) error {
	if loc.IsZero() {
		return fmt.Errorf("%s: empty locator", expectation)
	}
	pg, cancel := p.scoped(ctx, timeout)
	defer cancel()

	if err := pg.Wait(rod.Eval(checkJS, loc.Parts(), kind, want)); err != nil {
		return p.classify(ctx, loc, expectation, err)
	}
	return nil
}

// element resolves loc within timeout. The returned element stays bound to
// the timeout until cancel is called.
func (p *RodPage) element(ctx context.Context, loc console.Locator, expectation string, timeout time.Duration) (*rod.Element, context.CancelFunc, error) {
	if loc.IsZero() {
		return nil, nil, fmt.Errorf("%s: empty locator", expectation)
	}
	pg, cancel := p.scoped(ctx, timeout)
	el, err := pg.ElementByJS(rod.Eval(locateJS, loc.Parts()))
	if err != nil {
		cancel()
		return nil, nil, p.classify(ctx, loc, expectation, err)
	}
	return el, cancel, nil
}

// mismatch turns a timed out value check into a mismatch when the element
// exists, so the report carries what the page settled on.
func (p *RodPage) mismatch(ctx context.Context, loc console.Locator, expectation, prop, want string, cause error) error {
	pg, cancel := p.scoped(ctx, 2*time.Second)
	defer cancel()

	res, err := pg.Eval(probeJS, loc.Parts(), prop)
	if err != nil || !res.Value.Get("found").Bool() {
		return cause
	}
	return console.NewMismatchError(loc, expectation, want, res.Value.Get("value").Str(), context.DeadlineExceeded)
}

// classify maps rod errors onto expectation errors. Cancellation of the
// caller's context is returned as is.
func (p *RodPage) classify(ctx context.Context, loc console.Locator, expectation string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s %s: %w", expectation, loc, ctx.Err())
	}
	var notFound *rod.ElementNotFoundError
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &notFound) {
		return console.NewTimeoutError(loc, expectation, err)
	}
	return fmt.Errorf("%s %s: %w", expectation, loc, err)
}
