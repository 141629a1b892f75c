package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidSpec marks a rule that the console can never accept. Runs that
// fail with it are not retried.
var ErrInvalidSpec = errors.New("invalid proxy rule spec")

// ProxyRuleSpec 描述要在控制台创建的代理规则。
// It is built once per run and handed to the workflow by value.
type ProxyRuleSpec struct {
	Method         Method          `json:"method" yaml:"method" validate:"required,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	PathOperator   PathOperator    `json:"pathOperator" yaml:"pathOperator" validate:"required,oneof=EM SW CO RE"`
	Path           string          `json:"path" yaml:"path" validate:"required,max=255"`
	TargetEndpoint string          `json:"targetEndpoint" yaml:"targetEndpoint" validate:"required,url,startswith=http"`
	Description    string          `json:"description" yaml:"description" validate:"required,max=120"`
	Callout        CalloutSettings `json:"callout" yaml:"callout"`
}

// CalloutSettings 回调（HTTP callout）相关的固定表单值
type CalloutSettings struct {
	Behavior  Behavior  `json:"behavior" yaml:"behavior" validate:"required,oneof=wait"`
	Transform Transform `json:"transform" yaml:"transform" validate:"required,oneof=no-transform"`
	MinDelay  int       `json:"minDelay" yaml:"minDelay" validate:"min=0"`
	MaxDelay  int       `json:"maxDelay" yaml:"maxDelay" validate:"min=0"`
}

// DefaultCalloutSettings wait for the upstream response, forward the payload
// untouched, 0-1s artificial delay.
func DefaultCalloutSettings() CalloutSettings {
	return CalloutSettings{
		Behavior:  BehaviorWait,
		Transform: TransformNone,
		MinDelay:  0,
		MaxDelay:  1,
	}
}

// MinDelayValue / MaxDelayValue are the delay inputs as typed into the form.
func (c CalloutSettings) MinDelayValue() string { return strconv.Itoa(c.MinDelay) }
func (c CalloutSettings) MaxDelayValue() string { return strconv.Itoa(c.MaxDelay) }

// AnimechanSpec is the rule the suite creates by default.
func AnimechanSpec() ProxyRuleSpec {
	return ProxyRuleSpec{
		Method:         MethodGet,
		PathOperator:   PathOperatorExact,
		Path:           "/quote",
		TargetEndpoint: "https://animechan.io/api/v1/quotes/random",
		Description:    "Anime Quotes Proxy",
		Callout:        DefaultCalloutSettings(),
	}
}

// NewProxyRuleSpec builds and validates a spec with default callout settings.
func NewProxyRuleSpec(method Method, op PathOperator, path, target, description string) (ProxyRuleSpec, error) {
	spec := ProxyRuleSpec{
		Method:         method,
		PathOperator:   op,
		Path:           path,
		TargetEndpoint: target,
		Description:    description,
		Callout:        DefaultCalloutSettings(),
	}
	if err := spec.Validate(); err != nil {
		return ProxyRuleSpec{}, err
	}
	return spec, nil
}

var validate = validator.New()

// Validate 校验规则配置，返回的错误包装 ErrInvalidSpec
func (s ProxyRuleSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if s.PathOperator != PathOperatorRegex && !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidSpec, s.Path)
	}
	if err := s.PathOperator.ValidatePattern(s.Path); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if s.Callout.MinDelay > s.Callout.MaxDelay {
		return fmt.Errorf("%w: min delay %d exceeds max delay %d", ErrInvalidSpec, s.Callout.MinDelay, s.Callout.MaxDelay)
	}
	return nil
}

// Matches reports whether a request would be routed by the rule.
func (s ProxyRuleSpec) Matches(method, path string) bool {
	if !strings.EqualFold(method, s.Method.String()) {
		return false
	}
	return s.PathOperator.Match(s.Path, path)
}

func (s ProxyRuleSpec) String() string {
	return fmt.Sprintf("%s %s %s -> %s (%s)", s.Method, s.PathOperator.Describe(), s.Path, s.TargetEndpoint, s.Description)
}
