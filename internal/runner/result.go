package runner

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go_mock_console/internal/domain/iface"
)

// TestFunc is the body of a scenario, run against a fresh page per attempt.
type TestFunc func(ctx context.Context, page iface.ConsolePage) error

// Scenario 一个测试场景
type Scenario struct {
	Suite string
	Title string
	Test  TestFunc
}

// Name is "suite › title".
func (s Scenario) Name() string {
	if s.Suite == "" {
		return s.Title
	}
	return s.Suite + " › " + s.Title
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slug names the scenario's artifact directory.
func (s Scenario) Slug() string {
	slug := strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(s.Name()), "-"), "-")
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	if slug == "" {
		return "scenario"
	}
	return slug
}

type Status string

const (
	StatusPassed Status = "passed"
	StatusFlaky  Status = "flaky" // passed after at least one retry
	StatusFailed Status = "failed"
)

// AttemptResult 单次执行结果
type AttemptResult struct {
	Attempt   int // 0 for the first run
	Passed    bool
	Duration  time.Duration
	Err       error
	Artifacts []string
}

// ErrMessage is the error text, empty when the attempt passed.
func (a AttemptResult) ErrMessage() string {
	if a.Err == nil {
		return ""
	}
	return a.Err.Error()
}

type ScenarioResult struct {
	Scenario Scenario
	Status   Status
	Attempts []AttemptResult
	Duration time.Duration
}

// Err is the error of the last attempt.
func (r ScenarioResult) Err() error {
	if len(r.Attempts) == 0 {
		return nil
	}
	return r.Attempts[len(r.Attempts)-1].Err
}

// RunReport 一次运行的汇总
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []ScenarioResult
}

func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Counts returns the number of passed, flaky and failed scenarios.
func (r *RunReport) Counts() (passed, flaky, failed int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusPassed:
			passed++
		case StatusFlaky:
			flaky++
		default:
			failed++
		}
	}
	return passed, flaky, failed
}

// OK reports whether no scenario failed.
func (r *RunReport) OK() bool {
	_, _, failed := r.Counts()
	return failed == 0
}
