package configs

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	model "go_mock_console/internal/domain/model/proxy_rule"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the run configuration file; empty means code defaults.
type ConfigPath string

// RunConfig 运行配置，一次声明，运行期间不变
type RunConfig struct {
	Console  ConsoleConfig       `yaml:"console"`
	Timeouts TimeoutConfig       `yaml:"timeouts"`
	Browser  BrowserConfig       `yaml:"browser"`
	Capture  CaptureConfig       `yaml:"capture"`
	Runner   RunnerConfig        `yaml:"runner"`
	Log      LogConfig           `yaml:"log"`
	Rule     model.ProxyRuleSpec `yaml:"rule"`
}

// ConsoleConfig 目标控制台
type ConsoleConfig struct {
	BaseURL  string `yaml:"baseURL"`
	Endpoint string `yaml:"endpoint"`
	MockHost string `yaml:"mockHost"`
}

// ConsoleURL is the page the workflow opens.
func (c ConsoleConfig) ConsoleURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/console/" + url.PathEscape(c.Endpoint)
}

// MockURL is where requests matching a saved rule are served.
func (c ConsoleConfig) MockURL(path string) string {
	return fmt.Sprintf("https://%s.%s%s", c.Endpoint, c.MockHost, path)
}

type TimeoutConfig struct {
	Test       time.Duration `yaml:"test"`
	Expect     time.Duration `yaml:"expect"`
	Navigation time.Duration `yaml:"navigation"`
	Action     time.Duration `yaml:"action"`
}

type RunnerConfig struct {
	Retries       int           `yaml:"retries"`
	RetryDelay    time.Duration `yaml:"retryDelay"`
	Workers       int           `yaml:"workers"`
	FullyParallel bool          `yaml:"fullyParallel"`
	Reporters     []string      `yaml:"reporters"`
	ReportDir     string        `yaml:"reportDir"`
}

type LogConfig struct {
	FilePath string `yaml:"filePath"`
	Level    string `yaml:"level"`
}

// DefaultRunConfig 默认配置
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Console: ConsoleConfig{
			BaseURL:  "https://app.beeceptor.com",
			Endpoint: "internbeeceptor",
			MockHost: "free.beeceptor.com",
		},
		Timeouts: TimeoutConfig{
			Test:       30 * time.Second,
			Expect:     10 * time.Second,
			Navigation: 20 * time.Second,
			Action:     15 * time.Second,
		},
		Browser: DefaultBrowserConfig(),
		Capture: DefaultCaptureConfig(),
		Runner: RunnerConfig{
			Retries:   2,
			Workers:   1,
			Reporters: []string{ReporterHTML, ReporterList},
			ReportDir: "report",
		},
		Log: LogConfig{
			FilePath: "log/proxyrule.log",
			Level:    "info",
		},
		Rule: model.AnimechanSpec(),
	}
}

// LoadRunConfig 加载配置. An empty path resolves through the environment;
// when nothing is found the defaults are returned.
func LoadRunConfig(path ConfigPath) (*RunConfig, error) {
	configPath := string(path)
	if configPath == "" {
		configPath = getConfigPath()
	}

	config := DefaultRunConfig()
	if configPath != "" {
		configFile, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(configFile, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// LoadRunConfigFromEnv is the provider used by injectors that take no path.
func LoadRunConfigFromEnv() (*RunConfig, error) {
	return LoadRunConfig("")
}

// getConfigPath 获取配置文件路径
func getConfigPath() string {
	// 优先使用环境变量
	if path := os.Getenv("PROXYRULE_CONFIG_PATH"); path != "" {
		return path
	}

	env := os.Getenv("PROXYRULE_ENV")
	if env == "" {
		env = "local"
	}

	path := fmt.Sprintf("configs/proxyrule.%s.yaml", env)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// ValidationError 单个字段的校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Validate checks every section and reports all failures at once.
func (c *RunConfig) Validate() error {
	var errs []error

	if err := c.validateConsole(); err != nil {
		errs = append(errs, err)
	}
	if err := c.validateTimeouts(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Browser.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Capture.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.validateRunner(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Rule.Validate(); err != nil {
		errs = append(errs, &ValidationError{Field: "rule", Message: err.Error()})
	}

	return errors.Join(errs...)
}

func (c *RunConfig) validateConsole() error {
	u, err := url.Parse(c.Console.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: "console.baseURL", Message: fmt.Sprintf("%q is not an absolute url", c.Console.BaseURL)}
	}
	if c.Console.Endpoint == "" {
		return &ValidationError{Field: "console.endpoint", Message: "endpoint is required"}
	}
	if c.Console.MockHost == "" {
		return &ValidationError{Field: "console.mockHost", Message: "mock host is required"}
	}
	return nil
}

func (c *RunConfig) validateTimeouts() error {
	t := c.Timeouts
	if t.Test <= 0 {
		return &ValidationError{Field: "timeouts.test", Message: "test timeout must be positive"}
	}
	if t.Expect <= 0 {
		return &ValidationError{Field: "timeouts.expect", Message: "expect timeout must be positive"}
	}
	if t.Navigation <= 0 {
		return &ValidationError{Field: "timeouts.navigation", Message: "navigation timeout must be positive"}
	}
	if t.Action <= 0 {
		return &ValidationError{Field: "timeouts.action", Message: "action timeout must be positive"}
	}
	return nil
}

func (c *RunConfig) validateRunner() error {
	r := c.Runner
	if r.Retries < 0 {
		return &ValidationError{Field: "runner.retries", Message: "retries must not be negative"}
	}
	if r.Workers <= 0 {
		return &ValidationError{Field: "runner.workers", Message: "workers must be positive"}
	}
	for _, name := range r.Reporters {
		if name != ReporterHTML && name != ReporterList {
			return &ValidationError{Field: "runner.reporters", Message: fmt.Sprintf("unknown reporter %q", name)}
		}
	}
	if r.ReportDir == "" && r.HasReporter(ReporterHTML) {
		return &ValidationError{Field: "runner.reportDir", Message: "report dir is required by the html reporter"}
	}
	return nil
}

const (
	ReporterHTML = "html"
	ReporterList = "list"
)

func (r RunnerConfig) HasReporter(name string) bool {
	for _, n := range r.Reporters {
		if n == name {
			return true
		}
	}
	return false
}
