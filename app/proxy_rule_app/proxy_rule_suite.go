package proxy_rule_app

import (
	"context"
	"fmt"
	"io"
	"os"

	"go_mock_console/internal/domain/iface"
	model "go_mock_console/internal/domain/model/proxy_rule"
	configs "go_mock_console/internal/infra/config"
	"go_mock_console/internal/runner"
	"go_mock_console/utils"
)

const (
	SuiteTitle      = "Beeceptor Proxy Rule Configuration"
	CreateRuleTitle = "Create proxy rule for Animechan API"
)

// ProxyRuleSuite 控制台代理规则测试套件
type ProxyRuleSuite struct {
	Automations iface.AutomationFactory
	Console     configs.ConsoleConfig
	Rule        model.ProxyRuleSpec

	out io.Writer
}

func NewProxyRuleSuite(c *configs.RunConfig, automations iface.AutomationFactory) *ProxyRuleSuite {
	return &ProxyRuleSuite{
		Automations: automations,
		Console:     c.Console,
		Rule:        c.Rule,
		out:         os.Stdout,
	}
}

// SetOutput redirects the success banner.
func (s *ProxyRuleSuite) SetOutput(out io.Writer) {
	s.out = out
}

// CreateProxyRule creates the configured rule on page and prints where the
// rule can be called once it is verified.
func (s *ProxyRuleSuite) CreateProxyRule(ctx context.Context, page iface.ConsolePage) error {
	logger := utils.GetLogger()
	logger.Infof("CreateProxyRule Begin: %s", s.Rule)

	if err := s.Rule.Validate(); err != nil {
		logger.Errorf("validate rule err: %v", err)
		return err
	}

	automation := s.Automations.NewAutomation(page, s.Rule)
	if err := automation.Execute(ctx); err != nil {
		logger.Errorf("create proxy rule err: %v", err)
		return err
	}

	mockURL := s.Console.MockURL(s.Rule.Path)
	fmt.Fprintf(s.out, "\nProxy Rule Created Successfully!\n")
	fmt.Fprintf(s.out, "You can now access %s at:\n%s\n", s.Rule.Description, mockURL)
	fmt.Fprintf(s.out, "\nTest with:\ncurl %s\n", mockURL)
	return nil
}

// Scenarios lists the suite's tests in declaration order.
func (s *ProxyRuleSuite) Scenarios() []runner.Scenario {
	return []runner.Scenario{
		{Suite: SuiteTitle, Title: CreateRuleTitle, Test: s.CreateProxyRule},
	}
}
