package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rohankatakam/depscan/internal/analyzer"
	"github.com/rohankatakam/depscan/internal/collector"
)

// StandardFormatter renders styled terminal output (default on a colour TTY)
type StandardFormatter struct {
	Width int
}

// NewStandardFormatter creates a styled formatter for a terminal of the given width
func NewStandardFormatter(width int) *StandardFormatter {
	return &StandardFormatter{Width: width}
}

func (f *StandardFormatter) FormatReport(report *analyzer.RiskReport, w io.Writer) error {
	s := newStyles(w)

	// Overview
	info := report.BasicInfo
	overview := s.Title.Render(info.Name) + "\n" +
		fmt.Sprintf("Last pushed: %s | Open issues: %s",
			s.Value.Render(info.LastPushed),
			s.Value.Render(strconv.Itoa(info.OpenIssues)))
	fmt.Fprintln(w, s.Label.Render("📦 Project overview"))
	fmt.Fprintln(w, s.Box.Render(overview))
	fmt.Fprintln(w)

	// Metrics
	fmt.Fprintln(w, s.Title.Render("📊 Key metrics"))
	rows := metricRows(report.Metrics, f.Width)
	nameWidth, valueWidth := 0, 0
	for _, r := range rows {
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
		valueWidth = max(valueWidth, lipgloss.Width(r.Value))
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s  %s  %s\n",
			s.Label.Width(nameWidth).Render(r.Name),
			s.Plain.Width(valueWidth).Render(r.Value),
			s.Muted.Render(r.Note))
	}
	fmt.Fprintln(w)

	// Findings
	if !report.HasRisks() {
		fmt.Fprintln(w, s.Success.Render("✓ No obvious risks found"))
		return nil
	}

	fmt.Fprintln(w, s.High.Bold(true).Render("⚠  Risks found"))
	for i, risk := range report.Risks {
		heading := fmt.Sprintf("%d. [%s] %s:", i+1, risk.Level, risk.Category)
		fmt.Fprintf(w, "%s %s\n", s.level(risk.Level).Render(heading), risk.Description)
		fmt.Fprintf(w, "   %s %s\n", s.Muted.Render("Suggestion:"), risk.Suggestion)
	}

	return nil
}

func (f *StandardFormatter) FormatBasicInfo(info *collector.BasicInfo, w io.Writer) error {
	s := newStyles(w)

	rows := basicInfoRows(info)
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, s.Label.Width(labelWidth).Render(r.Label)+"  "+r.Value)
	}

	fmt.Fprintln(w, s.Title.Render("📦 Basic info"))
	fmt.Fprintln(w, s.Box.Render(strings.Join(lines, "\n")))
	return nil
}
