package services

import (
	"context"
	"fmt"
	"time"

	"go_mock_console/internal/domain/iface"
	"go_mock_console/internal/domain/model/console"
	model "go_mock_console/internal/domain/model/proxy_rule"
	configs "go_mock_console/internal/infra/config"
	"go_mock_console/utils"

	"github.com/sirupsen/logrus"
)

// StepTimings 各步骤的等待预算与稳定等待
type StepTimings struct {
	LandingWait  time.Duration // .navbar-brand after navigation
	ElementWait  time.Duration // dialogs, menus and buttons
	SaveWait     time.Duration // creation form hidden after save
	DetachWait   time.Duration // previous rules dialog gone before verification
	ExpectWait   time.Duration // value / visible / checked assertions
	ShortSettle  time.Duration
	Settle       time.Duration
	LongSettle   time.Duration
	ClickTimeout time.Duration // force click during verification
}

// DefaultStepTimings mirrors the budgets the console needs in practice.
func DefaultStepTimings(expect time.Duration) StepTimings {
	return StepTimings{
		LandingWait:  10 * time.Second,
		ElementWait:  5 * time.Second,
		SaveWait:     10 * time.Second,
		DetachWait:   5 * time.Second,
		ExpectWait:   expect,
		ShortSettle:  500 * time.Millisecond,
		Settle:       time.Second,
		LongSettle:   2 * time.Second,
		ClickTimeout: 5 * time.Second,
	}
}

// StepError 标识失败的步骤
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Step names, in execution order.
const (
	StepNavigateToEndpoint        = "navigateToEndpoint"
	StepOpenMockingRules          = "openMockingRules"
	StepClickCreateProxy          = "clickCreateProxy"
	StepConfigureRequestMatching  = "configureRequestMatching"
	StepConfigureResponseBehavior = "configureResponseBehavior"
	StepConfigureHttpCallout      = "configureHttpCallout"
	StepAddDescription            = "addDescription"
	StepSaveProxyRule             = "saveProxyRule"
	StepVerifyRuleCreation        = "verifyRuleCreation"
)

// ProxyRuleAutomation drives the console through the creation of one proxy
// rule and checks the saved row.
type ProxyRuleAutomation struct {
	page       iface.ConsolePage
	spec       model.ProxyRuleSpec
	consoleURL string
	timings    StepTimings
	log        *logrus.Entry
}

var _ iface.RuleAutomation = (*ProxyRuleAutomation)(nil)

func NewProxyRuleAutomation(page iface.ConsolePage, spec model.ProxyRuleSpec, consoleURL string, timings StepTimings) *ProxyRuleAutomation {
	return &ProxyRuleAutomation{
		page:       page,
		spec:       spec,
		consoleURL: consoleURL,
		timings:    timings,
		log:        utils.GetLogger().WithField("rule", spec.Description),
	}
}

type step struct {
	name    string
	success string
	failure string
	run     func(ctx context.Context) error
}

func (a *ProxyRuleAutomation) steps() []step {
	return []step{
		{StepNavigateToEndpoint, "Navigated to endpoint", "Navigation failed", a.navigateToEndpoint},
		{StepOpenMockingRules, "Opened mocking rules", "Failed to open mocking rules", a.openMockingRules},
		{StepClickCreateProxy, "Opened proxy creation form", "Failed to create proxy", a.clickCreateProxy},
		{StepConfigureRequestMatching, "Configured request matching", "Failed to configure request matching", a.configureRequestMatching},
		{StepConfigureResponseBehavior, "Configured response behavior", "Failed to configure response behavior", a.configureResponseBehavior},
		{StepConfigureHttpCallout, "Configured HTTP callout", "Failed to configure HTTP callout", a.configureHttpCallout},
		{StepAddDescription, "Added description", "Failed to add description", a.addDescription},
		{StepSaveProxyRule, "Saved proxy rule", "Failed to save proxy rule", a.saveProxyRule},
		{StepVerifyRuleCreation, "Verified rule creation", "Failed to verify rule creation", a.verifyRuleCreation},
	}
}

// Execute runs the nine steps in order. The first failure is logged and
// returned as a *StepError; later steps do not run.
func (a *ProxyRuleAutomation) Execute(ctx context.Context) error {
	for _, s := range a.steps() {
		log := a.log.WithField("step", s.name)
		if err := s.run(ctx); err != nil {
			log.WithError(err).Error(s.failure)
			return &StepError{Step: s.name, Err: err}
		}
		log.Info("✓ " + s.success)
	}
	return nil
}

func (a *ProxyRuleAutomation) navigateToEndpoint(ctx context.Context) error {
	if err := a.page.Navigate(ctx, a.consoleURL); err != nil {
		return err
	}
	return a.page.WaitFor(ctx, landingMarker, console.StateVisible, a.timings.LandingWait)
}

func (a *ProxyRuleAutomation) openMockingRules(ctx context.Context) error {
	if err := pause(ctx, a.timings.Settle); err != nil {
		return err
	}
	if err := a.page.ExpectVisible(ctx, mockingRulesLink, a.timings.ElementWait); err != nil {
		return err
	}
	if err := a.page.Click(ctx, mockingRulesLink, iface.ClickOptions{}); err != nil {
		return err
	}
	return a.page.WaitFor(ctx, rulesModal, console.StateVisible, a.timings.ElementWait)
}

func (a *ProxyRuleAutomation) clickCreateProxy(ctx context.Context) error {
	if err := a.page.ExpectVisible(ctx, additionalRuleTypes, a.timings.ElementWait); err != nil {
		return err
	}
	if err := a.page.Click(ctx, additionalRuleTypes, iface.ClickOptions{}); err != nil {
		return err
	}

	// 等待下拉菜单展开
	if err := pause(ctx, a.timings.ShortSettle); err != nil {
		return err
	}

	if err := a.page.ExpectVisible(ctx, createProxyOption, a.timings.ElementWait); err != nil {
		return err
	}
	if err := a.page.Click(ctx, createProxyOption, iface.ClickOptions{}); err != nil {
		return err
	}
	return a.page.WaitFor(ctx, ruleForm, console.StateVisible, a.timings.ElementWait)
}

func (a *ProxyRuleAutomation) configureRequestMatching(ctx context.Context) error {
	if err := pause(ctx, a.timings.ShortSettle); err != nil {
		return err
	}
	if err := a.page.SelectOption(ctx, matchMethodSelect, a.spec.Method.String()); err != nil {
		return err
	}
	if err := a.page.SelectOption(ctx, pathOperatorSelect, a.spec.PathOperator.String()); err != nil {
		return err
	}
	if err := a.page.Fill(ctx, matchPathInput, a.spec.Path); err != nil {
		return err
	}

	return a.expectValues(ctx, []fieldValue{
		{matchMethodSelect, a.spec.Method.String()},
		{pathOperatorSelect, a.spec.PathOperator.String()},
		{matchPathInput, a.spec.Path},
	})
}

func (a *ProxyRuleAutomation) configureResponseBehavior(ctx context.Context) error {
	behavior := string(a.spec.Callout.Behavior)
	if err := a.page.SelectOption(ctx, behaviorSelect, behavior); err != nil {
		return err
	}

	// 表单会根据 behavior 重新渲染
	if err := pause(ctx, a.timings.ShortSettle); err != nil {
		return err
	}

	return a.page.ExpectValue(ctx, behaviorSelect, behavior, a.timings.ExpectWait)
}

func (a *ProxyRuleAutomation) configureHttpCallout(ctx context.Context) error {
	transform := string(a.spec.Callout.Transform)

	if err := a.page.SelectOption(ctx, proxyMethodSelect, a.spec.Method.String()); err != nil {
		return err
	}
	if err := a.page.Fill(ctx, targetEndpointInput, a.spec.TargetEndpoint); err != nil {
		return err
	}
	if err := a.page.SelectOption(ctx, transformSelect, transform); err != nil {
		return err
	}
	if err := a.page.Fill(ctx, minDelayInput, a.spec.Callout.MinDelayValue()); err != nil {
		return err
	}
	if err := a.page.Fill(ctx, maxDelayInput, a.spec.Callout.MaxDelayValue()); err != nil {
		return err
	}

	return a.expectValues(ctx, []fieldValue{
		{proxyMethodSelect, a.spec.Method.String()},
		{targetEndpointInput, a.spec.TargetEndpoint},
		{transformSelect, transform},
	})
}

func (a *ProxyRuleAutomation) addDescription(ctx context.Context) error {
	if err := a.page.Fill(ctx, descriptionInput, a.spec.Description); err != nil {
		return err
	}
	return a.page.ExpectValue(ctx, descriptionInput, a.spec.Description, a.timings.ExpectWait)
}

func (a *ProxyRuleAutomation) saveProxyRule(ctx context.Context) error {
	if err := pause(ctx, a.timings.Settle); err != nil {
		return err
	}
	if err := a.page.ExpectEnabled(ctx, saveProxyButton, a.timings.ExpectWait); err != nil {
		return err
	}
	if err := a.page.Click(ctx, saveProxyButton, iface.ClickOptions{}); err != nil {
		return err
	}
	if err := pause(ctx, a.timings.LongSettle); err != nil {
		return err
	}
	if err := a.page.WaitFor(ctx, ruleForm, console.StateHidden, a.timings.SaveWait); err != nil {
		return err
	}
	return pause(ctx, a.timings.Settle)
}

func (a *ProxyRuleAutomation) verifyRuleCreation(ctx context.Context) error {
	if err := pause(ctx, a.timings.LongSettle); err != nil {
		return err
	}

	// 上一个弹窗可能已经不存在，超时忽略
	if err := a.page.WaitFor(ctx, rulesModal, console.StateDetached, a.timings.DetachWait); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.log.WithError(err).Debug("rules dialog still attached, continuing")
	}

	if err := a.page.Click(ctx, mockingRulesLink, iface.ClickOptions{Force: true, Timeout: a.timings.ClickTimeout}); err != nil {
		return err
	}
	if err := a.page.WaitFor(ctx, rulesModal, console.StateVisible, a.timings.ElementWait); err != nil {
		return err
	}
	if err := pause(ctx, a.timings.Settle); err != nil {
		return err
	}

	row := ruleRow(a.spec.Description, a.spec.Path)
	if err := a.page.ExpectVisible(ctx, row, a.timings.ElementWait); err != nil {
		return err
	}
	if err := a.page.ExpectVisible(ctx, row.Locator(console.CSS("*").WithText(a.spec.Method.String())), a.timings.ExpectWait); err != nil {
		return err
	}
	if err := a.page.ExpectVisible(ctx, row.Find("code").HasText(a.spec.Path), a.timings.ExpectWait); err != nil {
		return err
	}
	return a.page.ExpectChecked(ctx, row.Find(`input[type="checkbox"]`), a.timings.ExpectWait)
}

type fieldValue struct {
	loc   console.Locator
	value string
}

func (a *ProxyRuleAutomation) expectValues(ctx context.Context, fields []fieldValue) error {
	for _, f := range fields {
		if err := a.page.ExpectValue(ctx, f.loc, f.value, a.timings.ExpectWait); err != nil {
			return err
		}
	}
	return nil
}

// pause is a fixed settle wait that still honours cancellation.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ProxyRuleAutomationFactory builds workflows sharing one run configuration.
type ProxyRuleAutomationFactory struct {
	consoleURL string
	timings    StepTimings
}

var _ iface.AutomationFactory = (*ProxyRuleAutomationFactory)(nil)

func NewProxyRuleAutomationFactory(c *configs.RunConfig) iface.AutomationFactory {
	return &ProxyRuleAutomationFactory{
		consoleURL: c.Console.ConsoleURL(),
		timings:    DefaultStepTimings(c.Timeouts.Expect),
	}
}

// NewProxyRuleAutomationFactoryWithTimings is used where settle pauses must
// be shortened, e.g. against a local fixture.
func NewProxyRuleAutomationFactoryWithTimings(consoleURL string, timings StepTimings) iface.AutomationFactory {
	return &ProxyRuleAutomationFactory{consoleURL: consoleURL, timings: timings}
}

func (f *ProxyRuleAutomationFactory) NewAutomation(page iface.ConsolePage, spec model.ProxyRuleSpec) iface.RuleAutomation {
	return NewProxyRuleAutomation(page, spec, f.consoleURL, f.timings)
}
