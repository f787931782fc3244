package output

import (
	"fmt"
	"io"

	"github.com/rohankatakam/depscan/internal/analyzer"
	"github.com/rohankatakam/depscan/internal/collector"
)

// PlainFormatter outputs the same content as StandardFormatter without
// styling, for pipes, CI logs and NO_COLOR
type PlainFormatter struct {
	Width int
}

func (f *PlainFormatter) FormatReport(report *analyzer.RiskReport, w io.Writer) error {
	info := report.BasicInfo
	fmt.Fprintf(w, "=== Project overview ===\n")
	fmt.Fprintf(w, "%s\n", info.Name)
	fmt.Fprintf(w, "Last pushed: %s | Open issues: %d\n\n", info.LastPushed, info.OpenIssues)

	fmt.Fprintf(w, "=== Key metrics ===\n")
	rows := metricRows(report.Metrics, f.Width)
	nameWidth, valueWidth := 0, 0
	for _, r := range rows {
		nameWidth = max(nameWidth, len([]rune(r.Name)))
		valueWidth = max(valueWidth, len([]rune(r.Value)))
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-*s  %-*s  %s\n", nameWidth, r.Name, valueWidth, r.Value, r.Note)
	}
	fmt.Fprintf(w, "\n")

	if !report.HasRisks() {
		fmt.Fprintf(w, "No obvious risks found\n")
		return nil
	}

	fmt.Fprintf(w, "=== Risks ===\n")
	for i, risk := range report.Risks {
		fmt.Fprintf(w, "%d. [%s] %s: %s\n", i+1, risk.Level, risk.Category, risk.Description)
		fmt.Fprintf(w, "   Suggestion: %s\n", risk.Suggestion)
	}

	return nil
}

func (f *PlainFormatter) FormatBasicInfo(info *collector.BasicInfo, w io.Writer) error {
	fmt.Fprintf(w, "=== Basic info ===\n")
	for _, r := range basicInfoRows(info) {
		fmt.Fprintf(w, "  %s: %s\n", r.Label, r.Value)
	}
	return nil
}
