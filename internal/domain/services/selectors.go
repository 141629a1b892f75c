package services

import "go_mock_console/internal/domain/model/console"

// 控制台页面元素定位
var (
	landingMarker       = console.CSS(".navbar-brand")
	mockingRulesLink    = console.CSS("a").HasText("Mocking Rules")
	rulesModal          = console.CSS(".modal.fade.allRules.in")
	additionalRuleTypes = console.CSS("button").WithText("Additional Rule Types")
	createProxyOption   = console.CSS("a").WithText("Create Proxy or Callout")

	ruleForm            = console.CSS("#oneTransform")
	matchMethodSelect   = ruleForm.Find(`select[name="matchMethod"]`)
	pathOperatorSelect  = ruleForm.Find("#pathOperator")
	matchPathInput      = ruleForm.Find("#matchPath")
	behaviorSelect      = ruleForm.Find(`select[name="behavior"]`)
	proxyMethodSelect   = ruleForm.Find(`select[name="matchMethodProxy"]`)
	targetEndpointInput = ruleForm.Find("#targetEndpoint")
	transformSelect     = ruleForm.Find(`select[name="tranform"]`)
	minDelayInput       = ruleForm.Find("#proxyMinDelay")
	maxDelayInput       = ruleForm.Find("#proxyMaxDelay")
	descriptionInput    = ruleForm.Find("#ruleDescription")
	saveProxyButton     = ruleForm.Find("button").HasText("Save Proxy")
)

// ruleRow is the rules-list row showing both the description and the path.
func ruleRow(description, path string) console.Locator {
	return console.CSS(".rule-row").HasText(description, path)
}
