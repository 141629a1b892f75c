package iface

import (
	"context"

	model "go_mock_console/internal/domain/model/proxy_rule"
)

// RuleAutomation 规则创建流程接口
type RuleAutomation interface {
	// Execute runs the whole workflow and stops at the first failing step.
	Execute(ctx context.Context) error
}

// AutomationFactory binds a workflow to a page and a spec.
type AutomationFactory interface {
	NewAutomation(page ConsolePage, spec model.ProxyRuleSpec) RuleAutomation
}
