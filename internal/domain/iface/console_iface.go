package iface

import (
	"context"
	"time"

	"go_mock_console/internal/domain/model/console"
)

// ClickOptions 点击选项
type ClickOptions struct {
	// Force dispatches the click without waiting for the element to be
	// visible, stable and unobscured.
	Force bool
	// Timeout bounds locating the element; zero uses the page default.
	Timeout time.Duration
}

// ConsolePage 控制台页面操作接口. Every call blocks until it succeeds, its
// budget runs out, or ctx is done.
type ConsolePage interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error
	// WaitFor blocks until loc reaches state.
	WaitFor(ctx context.Context, loc console.Locator, state console.ElementState, timeout time.Duration) error
	Click(ctx context.Context, loc console.Locator, opts ClickOptions) error
	// SelectOption selects the <option> whose value is value.
	SelectOption(ctx context.Context, loc console.Locator, value string) error
	// Fill replaces the input value.
	Fill(ctx context.Context, loc console.Locator, value string) error

	ExpectVisible(ctx context.Context, loc console.Locator, timeout time.Duration) error
	ExpectEnabled(ctx context.Context, loc console.Locator, timeout time.Duration) error
	ExpectValue(ctx context.Context, loc console.Locator, want string, timeout time.Duration) error
	ExpectChecked(ctx context.Context, loc console.Locator, timeout time.Duration) error
}

// ConsoleSession owns one browser and the page opened in it.
type ConsoleSession interface {
	Page() ConsolePage
	// Close releases the browser. passed decides which artifacts are kept;
	// the kept artifact paths are returned.
	Close(passed bool) ([]string, error)
}

// SessionFactory opens a fresh session whose artifacts go to artifactDir.
type SessionFactory interface {
	NewSession(ctx context.Context, artifactDir string) (ConsoleSession, error)
}
