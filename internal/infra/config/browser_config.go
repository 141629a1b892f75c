package configs

import (
	"fmt"
	"time"
)

// BrowserConfig 浏览器配置
type BrowserConfig struct {
	Engine     string         `yaml:"engine"`
	Headless   bool           `yaml:"headless"`
	Bin        string         `yaml:"bin"`
	SlowMotion time.Duration  `yaml:"slowMotion"`
	Viewport   ViewportConfig `yaml:"viewport"`
}

type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

const EngineChromium = "chromium"

func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Engine:   EngineChromium,
		Headless: true,
		Viewport: ViewportConfig{Width: 1280, Height: 720},
	}
}

func (c BrowserConfig) validate() error {
	if c.Engine != EngineChromium {
		// only CDP browsers can be driven
		return &ValidationError{Field: "browser.engine", Message: fmt.Sprintf("unsupported engine %q", c.Engine)}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Field: "browser.viewport", Message: "viewport width and height must be positive"}
	}
	if c.SlowMotion < 0 {
		return &ValidationError{Field: "browser.slowMotion", Message: "slow motion must not be negative"}
	}
	return nil
}

// CapturePolicy 产物采集策略
type CapturePolicy string

const (
	CaptureOn              CapturePolicy = "on"
	CaptureOff             CapturePolicy = "off"
	CaptureOnlyOnFailure   CapturePolicy = "only-on-failure"
	CaptureRetainOnFailure CapturePolicy = "retain-on-failure"
)

// Active reports whether anything is recorded during the attempt.
func (p CapturePolicy) Active() bool {
	return p == CaptureOn || p == CaptureRetainOnFailure
}

// Keep reports whether the artifact survives an attempt with the given outcome.
func (p CapturePolicy) Keep(passed bool) bool {
	switch p {
	case CaptureOn:
		return true
	case CaptureOnlyOnFailure, CaptureRetainOnFailure:
		return !passed
	default:
		return false
	}
}

type CaptureConfig struct {
	Screenshot CapturePolicy `yaml:"screenshot"`
	Video      CapturePolicy `yaml:"video"`
	Trace      CapturePolicy `yaml:"trace"`
	OutputDir  string        `yaml:"outputDir"`
}

func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		Screenshot: CaptureOn,
		Video:      CaptureOn,
		Trace:      CaptureRetainOnFailure,
		OutputDir:  "test-results",
	}
}

func (c CaptureConfig) validate() error {
	switch c.Screenshot {
	case CaptureOn, CaptureOff, CaptureOnlyOnFailure:
	default:
		return &ValidationError{Field: "capture.screenshot", Message: fmt.Sprintf("unsupported policy %q", c.Screenshot)}
	}
	for field, p := range map[string]CapturePolicy{"capture.video": c.Video, "capture.trace": c.Trace} {
		switch p {
		case CaptureOn, CaptureOff, CaptureRetainOnFailure:
		default:
			return &ValidationError{Field: field, Message: fmt.Sprintf("unsupported policy %q", p)}
		}
	}
	if c.OutputDir == "" {
		return &ValidationError{Field: "capture.outputDir", Message: "output dir is required"}
	}
	return nil
}
