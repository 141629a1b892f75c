package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go_mock_console/internal/domain/iface"
	"go_mock_console/internal/domain/model/console"
	model "go_mock_console/internal/domain/model/proxy_rule"
	configs "go_mock_console/internal/infra/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	dir    string
	closed bool
	passed bool
}

func (s *fakeSession) Page() iface.ConsolePage { return nil }

func (s *fakeSession) Close(passed bool) ([]string, error) {
	s.closed = true
	s.passed = passed
	if passed {
		return nil, nil
	}
	return []string{filepath.Join(s.dir, "screenshot.png")}, nil
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions []*fakeSession
	openErr  error
}

func (f *fakeSessions) NewSession(ctx context.Context, dir string) (iface.ConsoleSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	s := &fakeSession{dir: dir}
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *fakeSessions) dirs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, s.dir)
	}
	return out
}

func testRunConfig(t *testing.T) *configs.RunConfig {
	c := configs.DefaultRunConfig()
	c.Capture.OutputDir = t.TempDir()
	c.Timeouts.Test = time.Second
	c.Runner.Retries = 2
	c.Runner.RetryDelay = 0
	return c
}

// failingTimes fails the first n calls.
func failingTimes(n int) TestFunc {
	var mu sync.Mutex
	calls := 0
	return func(ctx context.Context, page iface.ConsolePage) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls <= n {
			return console.NewTimeoutError(console.CSS(".navbar-brand"), "state=visible", context.DeadlineExceeded)
		}
		return nil
	}
}

func newTestRunner(t *testing.T, c *configs.RunConfig, sessions iface.SessionFactory) *Runner {
	r := NewRunner(c, sessions)
	r.SetReporters()
	return r
}

func TestRunStatuses(t *testing.T) {
	tests := []struct {
		name         string
		test         TestFunc
		wantStatus   Status
		wantAttempts int
	}{
		{name: "passes first time", test: failingTimes(0), wantStatus: StatusPassed, wantAttempts: 1},
		{name: "passes on retry", test: failingTimes(1), wantStatus: StatusFlaky, wantAttempts: 2},
		{name: "passes on last retry", test: failingTimes(2), wantStatus: StatusFlaky, wantAttempts: 3},
		{name: "never passes", test: failingTimes(10), wantStatus: StatusFailed, wantAttempts: 3},
		{
			name: "invalid spec is not retried",
			test: func(ctx context.Context, page iface.ConsolePage) error {
				return fmt.Errorf("build automation: %w", model.ErrInvalidSpec)
			},
			wantStatus:   StatusFailed,
			wantAttempts: 1,
		},
		{
			name: "panic fails the attempt",
			test: func(ctx context.Context, page iface.ConsolePage) error {
				panic("boom")
			},
			wantStatus:   StatusFailed,
			wantAttempts: 3,
		},
		{name: "missing body", test: nil, wantStatus: StatusFailed, wantAttempts: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testRunConfig(t)
			sessions := &fakeSessions{}
			sc := Scenario{Suite: "Beeceptor Proxy Rule Configuration", Title: "Create proxy rule", Test: tt.test}

			report, err := newTestRunner(t, c, sessions).Run(context.Background(), sc)
			require.NoError(t, err)
			require.Len(t, report.Results, 1)

			res := report.Results[0]
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Len(t, res.Attempts, tt.wantAttempts)
			assert.Equal(t, tt.wantStatus != StatusFailed, report.OK())
			assert.NotEmpty(t, report.RunID)

			// every session is closed with the attempt's outcome
			require.Len(t, sessions.sessions, tt.wantAttempts)
			for i, a := range res.Attempts {
				assert.Equal(t, i, a.Attempt)
				assert.True(t, sessions.sessions[i].closed)
				assert.Equal(t, a.Passed, sessions.sessions[i].passed)
				if a.Passed {
					assert.Empty(t, a.Artifacts)
				} else {
					assert.Len(t, a.Artifacts, 1)
				}
			}
		})
	}
}

func TestRunArtifactDirectories(t *testing.T) {
	c := testRunConfig(t)
	sessions := &fakeSessions{}
	sc := Scenario{Suite: "Suite", Title: "Create proxy rule", Test: failingTimes(2)}

	_, err := newTestRunner(t, c, sessions).Run(context.Background(), sc)
	require.NoError(t, err)

	base := filepath.Join(c.Capture.OutputDir, "suite-create-proxy-rule")
	assert.Equal(t, []string{base, base + "-retry1", base + "-retry2"}, sessions.dirs())
}

func TestRunAppliesTestTimeout(t *testing.T) {
	c := testRunConfig(t)
	c.Timeouts.Test = 50 * time.Millisecond
	c.Runner.Retries = 0

	sc := Scenario{Title: "hangs", Test: func(ctx context.Context, page iface.ConsolePage) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	report, err := newTestRunner(t, c, &fakeSessions{}).Run(context.Background(), sc)
	require.NoError(t, err)

	res := report.Results[0]
	assert.Equal(t, StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err(), context.DeadlineExceeded)
	assert.Contains(t, res.Err().Error(), "test timeout of 50ms exceeded")
}

func TestRunSessionFailure(t *testing.T) {
	c := testRunConfig(t)
	c.Runner.Retries = 1
	sessions := &fakeSessions{openErr: errors.New("no browser")}

	report, err := newTestRunner(t, c, sessions).Run(context.Background(), Scenario{Title: "t", Test: failingTimes(0)})
	require.NoError(t, err)

	res := report.Results[0]
	assert.Equal(t, StatusFailed, res.Status)
	assert.Len(t, res.Attempts, 2)
	assert.Contains(t, res.Err().Error(), "failed to open session: no browser")
}

func TestRunCancelledContext(t *testing.T) {
	c := testRunConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	sc := Scenario{Title: "cancel", Test: func(ctx context.Context, page iface.ConsolePage) error {
		cancel()
		return ctx.Err()
	}}

	report, err := newTestRunner(t, c, &fakeSessions{}).Run(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.Len(t, report.Results[0].Attempts, 1)
}

func TestRunKeepsScenarioOrder(t *testing.T) {
	c := testRunConfig(t)
	c.Runner.Workers = 3
	c.Runner.FullyParallel = true

	var scenarios []Scenario
	for i := 0; i < 6; i++ {
		scenarios = append(scenarios, Scenario{Suite: "s", Title: fmt.Sprintf("t%d", i), Test: failingTimes(0)})
	}

	report, err := newTestRunner(t, c, &fakeSessions{}).Run(context.Background(), scenarios...)
	require.NoError(t, err)
	require.Len(t, report.Results, 6)
	for i, res := range report.Results {
		assert.Equal(t, fmt.Sprintf("t%d", i), res.Scenario.Title)
	}
}

func TestGroups(t *testing.T) {
	scenarios := []Scenario{
		{Suite: "a", Title: "1"},
		{Suite: "b", Title: "2"},
		{Suite: "a", Title: "3"},
	}

	r := &Runner{}
	assert.Equal(t, [][]int{{0, 2}, {1}}, r.groups(scenarios))

	r.runner.FullyParallel = true
	assert.Equal(t, [][]int{{0}, {1}, {2}}, r.groups(scenarios))
}

func TestScenarioNaming(t *testing.T) {
	tests := []struct {
		sc       Scenario
		wantName string
		wantSlug string
	}{
		{
			sc:       Scenario{Suite: "Beeceptor Proxy Rule Configuration", Title: "Create proxy rule for Animechan API"},
			wantName: "Beeceptor Proxy Rule Configuration › Create proxy rule for Animechan API",
			wantSlug: "beeceptor-proxy-rule-configuration-create-proxy-rule-for-animechan-api",
		},
		{sc: Scenario{Title: "Only title"}, wantName: "Only title", wantSlug: "only-title"},
		{sc: Scenario{Title: "!!!"}, wantName: "!!!", wantSlug: "scenario"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.sc.Name())
			assert.Equal(t, tt.wantSlug, tt.sc.Slug())
		})
	}
}
