package model

import "strings"

// Method HTTP 方法枚举
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	return string(m)
}

// ParseMethod accepts any case and returns the canonical verb.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.IsValid()
}

// PathOperator 路径匹配操作符，取值与控制台 #pathOperator 下拉框的 option value 一致
type PathOperator string

const (
	PathOperatorExact      PathOperator = "EM"
	PathOperatorStartsWith PathOperator = "SW"
	PathOperatorContains   PathOperator = "CO"
	PathOperatorRegex      PathOperator = "RE"
)

func (o PathOperator) IsValid() bool {
	switch o {
	case PathOperatorExact, PathOperatorStartsWith, PathOperatorContains, PathOperatorRegex:
		return true
	default:
		return false
	}
}

func (o PathOperator) String() string {
	return string(o)
}

// Describe returns the label the console shows for the operator.
func (o PathOperator) Describe() string {
	switch o {
	case PathOperatorExact:
		return "exact match"
	case PathOperatorStartsWith:
		return "starts with"
	case PathOperatorContains:
		return "contains"
	case PathOperatorRegex:
		return "regular expression"
	default:
		return "unknown"
	}
}

// Behavior 响应行为 (select[name="behavior"])
type Behavior string

const BehaviorWait Behavior = "wait"

// Transform 请求体转换模式 (select[name="tranform"])
type Transform string

const TransformNone Transform = "no-transform"
