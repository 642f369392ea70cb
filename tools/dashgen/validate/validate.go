// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and reference only known metrics.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/trip-market/tools/dashgen/rules"
)

// Result collects validation problems. Errors make an artifact unusable;
// warnings flag likely mistakes.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether there were no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Histogram series suffixes accepted on known histogram names.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Expr parses expr and checks its metric names against known.
func Expr(expr string, known map[string]bool) error {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", expr, err)
	}

	var unknown []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !isKnown(vs.Name, known) {
			unknown = append(unknown, vs.Name)
		}
		return nil
	})
	if len(unknown) > 0 {
		return fmt.Errorf("unknown metrics %s in %q", strings.Join(unknown, ", "), expr)
	}
	return nil
}

func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, s := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, s); ok && known[base] {
			return true
		}
	}
	return false
}

// panelJSON is the subset of Grafana's panel model the checks read.
type panelJSON struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	Targets []struct {
		Expr  string `json:"expr"`
		RefID string `json:"refId"`
	} `json:"targets"`
	Panels []panelJSON `json:"panels"`
}

// Dashboard checks every query of a built dashboard. It reads the
// dashboard's JSON form so any Grafana model version can be checked.
func Dashboard(dash any, known map[string]bool) Result {
	var res Result

	raw, err := json.Marshal(dash)
	if err != nil {
		res.errorf("encoding dashboard: %v", err)
		return res
	}
	var doc struct {
		Panels []panelJSON `json:"panels"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		res.errorf("decoding dashboard: %v", err)
		return res
	}

	for _, row := range doc.Panels {
		checkPanel(&res, row, known)
		for _, p := range row.Panels {
			checkPanel(&res, p, known)
		}
	}
	return res
}

func checkPanel(res *Result, p panelJSON, known map[string]bool) {
	if p.Type == "row" {
		if len(p.Panels) == 0 {
			res.warnf("row %q has no panels", p.Title)
		}
		return
	}
	if p.Title == "" {
		res.warnf("%s panel has no title", p.Type)
	}
	if len(p.Targets) == 0 {
		res.warnf("panel %q has no queries", p.Title)
	}

	seen := map[string]bool{}
	for _, t := range p.Targets {
		if seen[t.RefID] {
			res.warnf("panel %q reuses refId %q", p.Title, t.RefID)
		}
		seen[t.RefID] = true
		if err := Expr(t.Expr, known); err != nil {
			res.errorf("panel %q: %v", p.Title, err)
		}
	}
}

// Rules checks every rule expression in cr. Recording rules defined in cr
// count as known for the alerts that follow them.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	names := make(map[string]bool, len(known))
	for k, v := range known {
		names[k] = v
	}
	for _, rec := range cr.Records() {
		names[rec] = true
	}

	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			if name == "" {
				res.errorf("group %q: rule without record or alert name", g.Name)
				continue
			}
			if err := Expr(r.Expr, names); err != nil {
				res.errorf("rule %s: %v", name, err)
			}
			if r.Alert != "" && r.Labels["severity"] == "" {
				res.warnf("alert %s has no severity label", r.Alert)
			}
		}
	}
	return res
}
