package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/depscan/internal/analyzer"
	"github.com/rohankatakam/depscan/internal/collector"
)

// JSONFormatter outputs machine-readable JSON
type JSONFormatter struct{}

func (f *JSONFormatter) FormatReport(report *analyzer.RiskReport, w io.Writer) error {
	return writeJSON(w, report)
}

func (f *JSONFormatter) FormatBasicInfo(info *collector.BasicInfo, w io.Writer) error {
	return writeJSON(w, info)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAMLFormatter outputs YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatReport(report *analyzer.RiskReport, w io.Writer) error {
	return writeYAML(w, report)
}

func (f *YAMLFormatter) FormatBasicInfo(info *collector.BasicInfo, w io.Writer) error {
	return writeYAML(w, info)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}
