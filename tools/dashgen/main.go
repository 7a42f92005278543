package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/automerch/tools/dashgen/dashboards"
	"github.com/donaldgifford/automerch/tools/dashgen/rules"
	"github.com/donaldgifford/automerch/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// artifact is one generated file relative to the output directory.
type artifact struct {
	path string
	data []byte
}

func run(cfg Config, validateOnly bool) error {
	arts, res, err := generate(cfg)
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !res.Ok() {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "invalid: %s\n", e)
		}
		return fmt.Errorf("validation failed with %d errors", len(res.Errors))
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	for _, a := range arts {
		path := filepath.Join(cfg.OutputDir, a.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, a.data, 0o644); err != nil { //nolint:gosec // generated config is world-readable
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", path)
	}
	return nil
}

func generate(cfg Config) ([]artifact, validate.Result, error) {
	var (
		arts []artifact
		res  validate.Result
	)

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return nil, res, fmt.Errorf("building overview dashboard: %w", err)
		}
		r := validate.Dashboard(dash, KnownMetrics)
		res.Errors = append(res.Errors, r.Errors...)
		res.Warnings = append(res.Warnings, r.Warnings...)

		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, res, fmt.Errorf("marshaling dashboard: %w", err)
		}
		arts = append(arts, artifact{
			path: filepath.Join("grafana", "data", "automerch-overview.json"),
			data: append(data, '\n'),
		})
	}

	if cfg.RulesEnabled {
		for _, rf := range []struct {
			name string
			cr   rules.PrometheusRule
		}{
			{"automerch-recording-rules.yaml", rules.RecordingRules()},
			{"automerch-alerts.yaml", rules.AlertRules()},
		} {
			r := validate.Rules(rf.cr, KnownMetrics)
			res.Errors = append(res.Errors, r.Errors...)
			res.Warnings = append(res.Warnings, r.Warnings...)

			data, err := yaml.Marshal(rf.cr)
			if err != nil {
				return nil, res, fmt.Errorf("marshaling %s: %w", rf.name, err)
			}
			arts = append(arts, artifact{
				path: filepath.Join("prometheus", rf.name),
				data: append([]byte(generatedHeader), data...),
			})
		}
	}

	return arts, res, nil
}
