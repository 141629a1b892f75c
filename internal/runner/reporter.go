package runner

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	configs "go_mock_console/internal/infra/config"

	"github.com/fatih/color"
)

// Reporter 结果输出
type Reporter interface {
	Report(report *RunReport) error
}

// NewReporters builds the reporters named in the runner config.
func NewReporters(c configs.RunnerConfig, out io.Writer) []Reporter {
	var reporters []Reporter
	for _, name := range c.Reporters {
		switch name {
		case configs.ReporterList:
			reporters = append(reporters, NewListReporter(out))
		case configs.ReporterHTML:
			reporters = append(reporters, NewHTMLReporter(c.ReportDir))
		}
	}
	return reporters
}

// ListReporter prints one line per scenario and a summary.
type ListReporter struct {
	out io.Writer
}

func NewListReporter(out io.Writer) *ListReporter {
	return &ListReporter{out: out}
}

func (l *ListReporter) Report(report *RunReport) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	var b strings.Builder
	b.WriteString("\n")
	for i, res := range report.Results {
		mark := green("✓")
		switch res.Status {
		case StatusFlaky:
			mark = yellow("±")
		case StatusFailed:
			mark = red("✘")
		}
		fmt.Fprintf(&b, "  %s %3d %s %s\n", mark, i+1, res.Scenario.Name(), dim("("+formatDuration(res.Duration)+")"))
		for _, a := range res.Attempts {
			if a.Err == nil {
				continue
			}
			fmt.Fprintf(&b, "        %s %s\n", dim(fmt.Sprintf("attempt %d:", a.Attempt+1)), red(a.ErrMessage()))
			for _, path := range a.Artifacts {
				fmt.Fprintf(&b, "          %s\n", dim(path))
			}
		}
	}

	passed, flaky, failed := report.Counts()
	b.WriteString("\n")
	if failed > 0 {
		fmt.Fprintf(&b, "  %s\n", red(fmt.Sprintf("%d failed", failed)))
	}
	if flaky > 0 {
		fmt.Fprintf(&b, "  %s\n", yellow(fmt.Sprintf("%d flaky", flaky)))
	}
	fmt.Fprintf(&b, "  %s %s\n", green(fmt.Sprintf("%d passed", passed)), dim("("+formatDuration(report.Duration())+")"))

	_, err := io.WriteString(l.out, b.String())
	return err
}

// HTMLReporter writes <dir>/index.html.
type HTMLReporter struct {
	dir string
}

func NewHTMLReporter(dir string) *HTMLReporter {
	return &HTMLReporter{dir: dir}
}

// Path is the report file.
func (h *HTMLReporter) Path() string {
	return filepath.Join(h.dir, "index.html")
}

type htmlReportData struct {
	RunID       string
	GeneratedAt string
	Duration    string
	Passed      int
	Flaky       int
	Failed      int
	Results     []ScenarioResult
}

func (h *HTMLReporter) Report(report *RunReport) error {
	passed, flaky, failed := report.Counts()
	data := htmlReportData{
		RunID:       report.RunID,
		GeneratedAt: report.FinishedAt.Format("2006-01-02 15:04:05"),
		Duration:    formatDuration(report.Duration()),
		Passed:      passed,
		Flaky:       flaky,
		Failed:      failed,
		Results:     report.Results,
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"duration": formatDuration,
		"inc":      func(i int) int { return i + 1 },
		"relpath":  h.relPath,
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := os.MkdirAll(h.dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	file, err := os.Create(h.Path())
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// relPath makes artifact links relative to the report directory.
func (h *HTMLReporter) relPath(path string) string {
	absDir, err1 := filepath.Abs(h.dir)
	absPath, err2 := filepath.Abs(path)
	if err1 != nil || err2 != nil {
		return path
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Proxy Rule Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: #f5f7fa;
            color: #2d3748;
            padding: 2rem;
        }
        .container { max-width: 1100px; margin: 0 auto; }
        .card {
            background: white;
            padding: 1.5rem;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            margin-bottom: 1.5rem;
        }
        h1 { font-size: 1.75rem; margin-bottom: 0.5rem; }
        .meta { color: #718096; font-size: 0.9rem; }
        .stats { display: flex; gap: 2rem; margin-top: 1rem; }
        .stat-value { font-size: 1.75rem; font-weight: bold; }
        .passed { color: #48bb78; }
        .flaky { color: #ed8936; }
        .failed { color: #f56565; }
        table { width: 100%; border-collapse: collapse; margin-top: 0.75rem; }
        th, td { text-align: left; padding: 0.5rem; border-bottom: 1px solid #edf2f7; vertical-align: top; }
        th { color: #718096; font-size: 0.8rem; text-transform: uppercase; }
        pre { white-space: pre-wrap; font-size: 0.85rem; color: #c53030; }
        a { color: #3182ce; }
    </style>
</head>
<body>
<div class="container">
    <div class="card">
        <h1>Proxy Rule Report</h1>
        <div class="meta">Run {{.RunID}} &middot; {{.GeneratedAt}} &middot; {{.Duration}}</div>
        <div class="stats">
            <div><div class="stat-value passed">{{.Passed}}</div>passed</div>
            <div><div class="stat-value flaky">{{.Flaky}}</div>flaky</div>
            <div><div class="stat-value failed">{{.Failed}}</div>failed</div>
        </div>
    </div>
    {{range .Results}}
    <div class="card">
        <h2 class="{{.Status}}">{{.Scenario.Name}}</h2>
        <div class="meta">{{.Status}} &middot; {{duration .Duration}}</div>
        <table>
            <tr><th>Attempt</th><th>Result</th><th>Duration</th><th>Artifacts</th></tr>
            {{range .Attempts}}
            <tr>
                <td>{{inc .Attempt}}</td>
                <td>{{if .Passed}}<span class="passed">passed</span>{{else}}<span class="failed">failed</span><pre>{{.ErrMessage}}</pre>{{end}}</td>
                <td>{{duration .Duration}}</td>
                <td>{{range .Artifacts}}<div><a href="{{relpath .}}">{{relpath .}}</a></div>{{end}}</td>
            </tr>
            {{end}}
        </table>
    </div>
    {{end}}
</div>
</body>
</html>
`
