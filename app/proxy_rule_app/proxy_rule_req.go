package proxy_rule_app

import (
	"fmt"
	"strings"

	model "go_mock_console/internal/domain/model/proxy_rule"

	"github.com/go-playground/validator/v10"
)

// CreateProxyRuleRequest is the rule as given on the command line or in a
// rule file, before it becomes a spec.
type CreateProxyRuleRequest struct {
	Method         string      `json:"method" yaml:"method" validate:"required"`
	PathOperator   string      `json:"pathOperator" yaml:"pathOperator" validate:"required,oneof=EM SW CO RE"`
	Path           string      `json:"path" yaml:"path" validate:"required,max=255"`
	TargetEndpoint string      `json:"targetEndpoint" yaml:"targetEndpoint" validate:"required,url"`
	Description    string      `json:"description" yaml:"description" validate:"required,min=1,max=120"`
	Callout        *CalloutDTO `json:"callout,omitempty" yaml:"callout,omitempty"`
}

type CalloutDTO struct {
	MinDelay int `json:"minDelay" yaml:"minDelay" validate:"min=0"`
	MaxDelay int `json:"maxDelay" yaml:"maxDelay" validate:"min=0,gtefield=MinDelay"`
}

// NewCreateProxyRuleRequest copies a spec into a request, e.g. to use the
// configured rule as the base for command line overrides.
func NewCreateProxyRuleRequest(spec model.ProxyRuleSpec) *CreateProxyRuleRequest {
	return &CreateProxyRuleRequest{
		Method:         spec.Method.String(),
		PathOperator:   spec.PathOperator.String(),
		Path:           spec.Path,
		TargetEndpoint: spec.TargetEndpoint,
		Description:    spec.Description,
		Callout: &CalloutDTO{
			MinDelay: spec.Callout.MinDelay,
			MaxDelay: spec.Callout.MaxDelay,
		},
	}
}

// Validate performs validation on CreateProxyRuleRequest
func (req *CreateProxyRuleRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	if _, ok := model.ParseMethod(req.Method); !ok {
		return fmt.Errorf("invalid request: unsupported method %q", req.Method)
	}
	return nil
}

// ConvertToProxyRuleSpec converts the request DTO to a validated spec.
func (req *CreateProxyRuleRequest) ConvertToProxyRuleSpec() (model.ProxyRuleSpec, error) {
	if err := req.Validate(); err != nil {
		return model.ProxyRuleSpec{}, fmt.Errorf("%w: %v", model.ErrInvalidSpec, err)
	}

	method, _ := model.ParseMethod(req.Method)
	spec := model.ProxyRuleSpec{
		Method:         method,
		PathOperator:   model.PathOperator(req.PathOperator),
		Path:           req.Path,
		TargetEndpoint: req.TargetEndpoint,
		Description:    strings.TrimSpace(req.Description),
		Callout:        model.DefaultCalloutSettings(),
	}
	if req.Callout != nil {
		spec.Callout.MinDelay = req.Callout.MinDelay
		spec.Callout.MaxDelay = req.Callout.MaxDelay
	}

	if err := spec.Validate(); err != nil {
		return model.ProxyRuleSpec{}, err
	}
	return spec, nil
}
