package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go_mock_console/internal/domain/iface"
	model "go_mock_console/internal/domain/model/proxy_rule"
	configs "go_mock_console/internal/infra/config"
	"go_mock_console/utils"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// Runner 场景执行器: worker pool, whole-run retries, per-attempt timeout.
type Runner struct {
	runner    configs.RunnerConfig
	timeouts  configs.TimeoutConfig
	outputDir string
	sessions  iface.SessionFactory
	reporters []Reporter
}

func NewRunner(c *configs.RunConfig, sessions iface.SessionFactory) *Runner {
	return &Runner{
		runner:    c.Runner,
		timeouts:  c.Timeouts,
		outputDir: c.Capture.OutputDir,
		sessions:  sessions,
		reporters: NewReporters(c.Runner, os.Stdout),
	}
}

// SetReporters replaces the configured reporters.
func (r *Runner) SetReporters(reporters ...Reporter) {
	r.reporters = reporters
}

// Run executes every scenario and reports the results. The returned error
// is only set when the run could not be carried out at all; failing
// scenarios are reflected in the report.
func (r *Runner) Run(ctx context.Context, scenarios ...Scenario) (*RunReport, error) {
	log := utils.GetLogger()

	report := &RunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Results:   make([]ScenarioResult, len(scenarios)),
	}
	log.Infof("Running %d test(s) using %d worker(s), run %s", len(scenarios), r.runner.Workers, report.RunID)

	pool, err := ants.NewPool(r.runner.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, group := range r.groups(scenarios) {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			for _, i := range group {
				report.Results[i] = r.runScenario(ctx, scenarios[i])
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to submit scenario: %w", err)
		}
	}
	wg.Wait()
	report.FinishedAt = time.Now()

	var errs []error
	for _, rep := range r.reporters {
		if err := rep.Report(report); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return report, fmt.Errorf("failed to write report: %w", errors.Join(errs...))
	}
	return report, nil
}

// groups returns scenario indexes per pool task. Unless fully parallel,
// scenarios of one suite share a task and run in declaration order.
func (r *Runner) groups(scenarios []Scenario) [][]int {
	if r.runner.FullyParallel {
		out := make([][]int, len(scenarios))
		for i := range scenarios {
			out[i] = []int{i}
		}
		return out
	}

	var out [][]int
	bySuite := map[string]int{}
	for i, sc := range scenarios {
		g, ok := bySuite[sc.Suite]
		if !ok {
			g = len(out)
			bySuite[sc.Suite] = g
			out = append(out, nil)
		}
		out[g] = append(out[g], i)
	}
	return out
}

func (r *Runner) runScenario(ctx context.Context, sc Scenario) ScenarioResult {
	log := utils.GetLogger().WithField("scenario", sc.Name())
	res := ScenarioResult{Scenario: sc}
	start := time.Now()

	attempt := 0
	err := retry.Do(
		func() error {
			a := r.runAttempt(ctx, sc, attempt)
			attempt++
			res.Attempts = append(res.Attempts, a)
			if a.Err != nil && (errors.Is(a.Err, model.ErrInvalidSpec) || ctx.Err() != nil) {
				return retry.Unrecoverable(a.Err)
			}
			return a.Err
		},
		retry.Context(ctx),
		retry.Attempts(uint(r.runner.Retries+1)),
		retry.Delay(r.runner.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("attempt %d failed, retrying: %v", n+1, err)
		}),
	)
	res.Duration = time.Since(start)

	switch {
	case err != nil:
		res.Status = StatusFailed
		log.Errorf("failed after %d attempt(s): %v", len(res.Attempts), err)
	case len(res.Attempts) > 1:
		res.Status = StatusFlaky
		log.Warnf("passed on attempt %d", len(res.Attempts))
	default:
		res.Status = StatusPassed
	}
	return res
}

// runAttempt runs the scenario once on a fresh session under the test timeout.
func (r *Runner) runAttempt(ctx context.Context, sc Scenario, attempt int) AttemptResult {
	log := utils.GetLogger().WithField("scenario", sc.Name())
	res := AttemptResult{Attempt: attempt}
	start := time.Now()

	dir := filepath.Join(r.outputDir, sc.Slug())
	if attempt > 0 {
		dir = fmt.Sprintf("%s-retry%d", dir, attempt)
	}

	actx, cancel := context.WithTimeout(ctx, r.timeouts.Test)
	defer cancel()

	session, err := r.sessions.NewSession(actx, dir)
	if err != nil {
		res.Err = fmt.Errorf("failed to open session: %w", err)
		res.Duration = time.Since(start)
		return res
	}

	err = runTest(actx, sc.Test, session.Page())
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("test timeout of %s exceeded: %w", r.timeouts.Test, err)
	}
	res.Err = err
	res.Passed = err == nil

	artifacts, cerr := session.Close(res.Passed)
	if cerr != nil {
		log.Warnf("failed to close session: %v", cerr)
	}
	res.Artifacts = artifacts
	res.Duration = time.Since(start)
	return res
}

// runTest converts a panic in the test body into a failure.
func runTest(ctx context.Context, fn TestFunc, page iface.ConsolePage) (err error) {
	if fn == nil {
		return errors.New("scenario has no test body")
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("test panicked: %v", p)
		}
	}()
	return fn(ctx, page)
}
