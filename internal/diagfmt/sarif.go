package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"miriguard/internal/diag"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
	Properties  map[string]any    `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Props     map[string]any  `json:"properties,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn,omitempty"`
}

func sarifRules() []sarifRule {
	cats := diag.Categories()
	rules := make([]sarifRule, 0, len(cats))
	for _, c := range cats {
		rules = append(rules, sarifRule{
			ID:               c.String(),
			Name:             c.Title(),
			ShortDescription: sarifMessage{Text: c.Banner()},
		})
	}
	return rules
}

func ruleIndex(c diag.Category) int {
	for i, known := range diag.Categories() {
		if known == c {
			return i
		}
	}
	return len(diag.Categories()) - 1
}

// Sarif writes the actionable diagnostics as a SARIF 2.1.0 log with one
// rule per category.
func Sarif(w io.Writer, s RunSummary, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    meta.ToolName,
			Version: meta.ToolVersion,
			Rules:   sarifRules(),
		}},
		Results: make([]sarifResult, 0, len(s.Verdict.Actionable)),
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}
	if s.RunID != "" {
		run.Properties = map[string]any{"runId": s.RunID, "suppressed": s.Verdict.Suppressed}
	}
	for _, d := range s.Verdict.Actionable {
		r := sarifResult{
			RuleID:    d.Category.String(),
			RuleIndex: ruleIndex(d.Category),
			Level:     "error",
			Message:   sarifMessage{Text: d.Text},
		}
		if !d.Location.IsZero() {
			r.Locations = []sarifLocation{{PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifact{URI: filepath.ToSlash(d.Location.Path)},
				Region:           sarifRegion{StartLine: d.Location.Line, StartColumn: d.Location.Column},
			}}}
		}
		if d.Target != "" {
			r.Props = map[string]any{"target": d.Target}
		}
		run.Results = append(run.Results, r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
