// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to metrics automerch does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/automerch/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation, warnings
// are printed.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// Dashboard validates every target expression in the dashboard.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	data, err := json.Marshal(dash)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return res
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	var exprs []string
	collectExprs(doc, &exprs)
	if len(exprs) == 0 {
		res.Warnings = append(res.Warnings, "dashboard has no query targets")
	}
	for _, expr := range exprs {
		res.merge(Expr(expr, known))
	}
	return res
}

// Rules validates every rule expression in the CR. Names recorded by the
// CR count as known for the rest of it.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	all := make(map[string]bool, len(known))
	for k, v := range known {
		all[k] = v
	}
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			if r.Record != "" {
				all[r.Record] = true
			}
		}
	}

	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			if name == "" {
				res.Errors = append(res.Errors, fmt.Sprintf("group %s: rule has neither record nor alert", g.Name))
				continue
			}
			sub := Expr(r.Expr, all)
			for _, e := range sub.Errors {
				res.Errors = append(res.Errors, name+": "+e)
			}
			for _, w := range sub.Warnings {
				res.Warnings = append(res.Warnings, name+": "+w)
			}
		}
	}
	return res
}

// Expr parses a single PromQL expression and checks its selectors against
// known metric names.
func Expr(expr string, known map[string]bool) Result {
	var res Result

	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("parsing %q: %v", expr, err))
		return res
	}

	var names []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, vs.Name)
		}
		return nil
	})

	if len(names) == 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%q selects no metrics", expr))
	}
	sort.Strings(names)
	for _, name := range names {
		if !known[name] {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown metric %q in %q", name, expr))
		}
	}
	return res
}

func collectExprs(v any, out *[]string) {
	switch t := v.(type) {
	case map[string]any:
		if expr, ok := t["expr"].(string); ok && expr != "" {
			*out = append(*out, expr)
		}
		for _, child := range t {
			collectExprs(child, out)
		}
	case []any:
		for _, child := range t {
			collectExprs(child, out)
		}
	}
}
