// Package export writes batch analysis results as CSV, XLSX, YAML, JSON or
// a plain-text table.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/script-analytics/internal/model"
)

// Supported output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
	FormatTable = "table"
)

// Result is the outcome of analyzing one script file. Exactly one of
// Analysis and Error is set.
type Result struct {
	File     string                `json:"file" yaml:"file"`
	Variant  model.Variant         `json:"variant,omitempty" yaml:"variant,omitempty"`
	Analysis *model.ScriptAnalysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Error    string                `json:"error,omitempty" yaml:"error,omitempty"`
}

// Header lists the flat columns used by CSV, XLSX and table output.
var Header = []string{
	"file", "variant", "hook_strength", "narrative_score", "algorithm_score",
	"personalized_score", "overall_quality_score", "retention_prediction",
	"expected_like_rate", "ctr", "estimated_views", "viral_probability",
	"confidence_level", "viral_elements", "error",
}

// Write encodes results to w in the given format.
func Write(w io.Writer, format string, results []Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	case FormatYAML:
		return WriteYAML(w, results)
	case FormatCSV:
		return WriteCSV(w, results)
	case FormatXLSX:
		return WriteXLSX(w, results)
	case FormatTable:
		return WriteTable(w, results)
	default:
		return eris.Errorf("export: unsupported format %q", format)
	}
}

// WriteJSON writes results as an indented JSON array.
func WriteJSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nonNil(results)); err != nil {
		return eris.Wrap(err, "export: encode JSON")
	}
	return nil
}

// WriteYAML writes results as a YAML sequence. Keys and their order follow
// the JSON encoding.
func WriteYAML(w io.Writer, results []Result) error {
	return writeYAML(w, nonNil(results))
}

// WriteYAMLValue writes any JSON-encodable value as YAML.
func WriteYAMLValue(w io.Writer, v any) error {
	return writeYAML(w, v)
}

func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return eris.Wrap(err, "export: encode JSON for YAML")
	}
	// JSON is a subset of YAML, so the node keeps field order.
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return eris.Wrap(err, "export: decode YAML node")
	}
	clearStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return eris.Wrap(err, "export: encode YAML")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "export: close YAML encoder")
	}
	return nil
}

// Row flattens a result into the Header columns.
func Row(r Result) []string {
	if r.Analysis == nil {
		row := make([]string, len(Header))
		row[0] = r.File
		row[1] = string(r.Variant)
		row[len(row)-1] = r.Error
		return row
	}

	a := r.Analysis
	labels := make([]string, len(a.ViralElements))
	for i, el := range a.ViralElements {
		labels[i] = el.Label
	}
	return []string{
		r.File,
		string(r.Variant),
		strconv.Itoa(a.HookStrength),
		strconv.Itoa(a.NarrativeScore),
		strconv.Itoa(a.AlgorithmScore),
		strconv.Itoa(a.PersonalizedScore),
		strconv.Itoa(a.OverallQualityScore),
		strconv.Itoa(a.RetentionPrediction),
		formatFloat(a.EngagementPrediction.ExpectedLikeRate),
		formatFloat(a.PerformancePrediction.CTR),
		strconv.FormatInt(a.PerformancePrediction.EstimatedViews, 10),
		strconv.Itoa(a.PerformancePrediction.ViralProbability),
		string(a.ConfidenceLevel),
		strings.Join(labels, "; "),
		r.Error,
	}
}

// WriteTable writes a fixed-width summary table.
func WriteTable(w io.Writer, results []Result) error {
	header := fmt.Sprintf("%-32s %-24s %5s %5s %5s %8s %7s %-6s\n",
		"File", "Variant", "Hook", "Qual", "Ret", "Views", "Viral%", "Conf")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "export: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 100)); err != nil {
		return eris.Wrap(err, "export: write table separator")
	}

	for _, r := range results {
		name := r.File
		if len(name) > 32 {
			name = "..." + name[len(name)-29:]
		}
		var line string
		if r.Analysis == nil {
			line = fmt.Sprintf("%-32s %-24s error: %s\n", name, r.Variant, r.Error)
		} else {
			a := r.Analysis
			line = fmt.Sprintf("%-32s %-24s %5d %5d %5d %8d %7d %-6s\n",
				name, r.Variant, a.HookStrength, a.OverallQualityScore, a.RetentionPrediction,
				a.PerformancePrediction.EstimatedViews, a.PerformancePrediction.ViralProbability, a.ConfidenceLevel)
		}
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "export: write table row")
		}
	}
	return nil
}

// clearStyle drops the flow style inherited from the JSON source so the
// output is block YAML.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func nonNil(results []Result) []Result {
	if results == nil {
		return []Result{}
	}
	return results
}
