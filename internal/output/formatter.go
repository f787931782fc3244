package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/rohankatakam/depscan/internal/analyzer"
	"github.com/rohankatakam/depscan/internal/collector"
	apperrors "github.com/rohankatakam/depscan/internal/errors"
)

// Formatter renders scan results
type Formatter interface {
	FormatReport(report *analyzer.RiskReport, w io.Writer) error
	FormatBasicInfo(info *collector.BasicInfo, w io.Writer) error
}

// Format selects a Formatter
type Format string

const (
	FormatAuto  Format = "auto"  // text on a colour terminal, plain otherwise
	FormatText  Format = "text"  // styled terminal output
	FormatPlain Format = "plain" // same content, no styling
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// maxCoreContributorsWidth caps the core contributors cell
const maxCoreContributorsWidth = 50

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatText, FormatPlain, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", apperrors.ValidationErrorf("unknown output format %q (want auto, text, plain, json or yaml)", s)
	}
}

// Resolve replaces FormatAuto with text or plain depending on where output goes
func Resolve(format Format, out *os.File) Format {
	if format != FormatAuto {
		return format
	}
	if os.Getenv("NO_COLOR") != "" {
		return FormatPlain
	}
	if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return FormatText
	}
	return FormatPlain
}

// TerminalWidth returns the column count of out, or 0 when it is not a terminal
func TerminalWidth(out *os.File) int {
	if out == nil {
		return 0
	}
	width, _, err := term.GetSize(int(out.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// NewFormatter creates the formatter for a resolved format.
// width is the terminal width used to shorten long cells, 0 if unknown.
func NewFormatter(format Format, width int) (Formatter, error) {
	switch format {
	case FormatText:
		return NewStandardFormatter(width), nil
	case FormatPlain:
		return &PlainFormatter{Width: width}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("formatter for %q: format must be resolved first", format)
	}
}

type metricRow struct {
	Name  string
	Value string
	Note  string
}

// metricRows lays out the metrics table shared by text and plain output
func metricRows(m analyzer.Metrics, width int) []metricRow {
	rows := []metricRow{
		{"Bus factor", fmt.Sprintf("%d", m.BusFactor), "Lower means more concentrated maintenance"},
		{"Core contributors", truncateRunes(strings.Join(m.CoreContributors, ", "), coreWidth(width)), "Main code contributors"},
		{"Recent commits", fmt.Sprintf("%d", m.RecentCommits), "Commits in the recent half of the window"},
		{"Activity change", m.ActivityChangePercent(), "Compared with the half before it"},
	}
	if m.AvgIssueResponseDays != nil {
		rows = append(rows, metricRow{"Issue response", fmt.Sprintf("%.1f days", *m.AvgIssueResponseDays), "Average time to close"})
	}
	return rows
}

func coreWidth(width int) int {
	if width > 0 && width < maxCoreContributorsWidth {
		return width
	}
	return maxCoreContributorsWidth
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

type infoRow struct {
	Label string
	Value string
}

func basicInfoRows(info *collector.BasicInfo) []infoRow {
	return []infoRow{
		{"Full name", info.FullName},
		{"Description", info.Description},
		{"Created", info.CreatedAt},
		{"Last pushed", info.LastPushed},
		{"Stars", fmt.Sprintf("%d", info.Stars)},
		{"Forks", fmt.Sprintf("%d", info.Forks)},
		{"Open issues", fmt.Sprintf("%d", info.OpenIssues)},
		{"License", info.License},
	}
}
