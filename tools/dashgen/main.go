package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/trip-market/tools/dashgen/dashboards"
	"github.com/donaldgifford/trip-market/tools/dashgen/rules"
	"github.com/donaldgifford/trip-market/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by dashgen. DO NOT EDIT.\n"

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

// artifact is one generated file, relative to the output directory.
type artifact struct {
	path string
	data []byte
}

func run(cfg Config, validateOnly bool) error {
	files, err := build(cfg)
	if err != nil {
		return err
	}

	if validateOnly {
		fmt.Printf("validation passed (%d artifacts)\n", len(files))
		return nil
	}

	for _, f := range files {
		path := filepath.Join(cfg.OutputDir, f.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, f.data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", path)
	}
	return nil
}

// build generates and validates every enabled artifact.
func build(cfg Config) ([]artifact, error) {
	var files []artifact

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return nil, fmt.Errorf("building dashboard: %w", err)
		}
		if res := validate.Dashboard(dash, KnownMetrics); !res.Ok() {
			return nil, fmt.Errorf("dashboard: %s", strings.Join(res.Errors, "; "))
		}
		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding dashboard: %w", err)
		}
		files = append(files, artifact{
			path: filepath.Join("grafana", "data", dashboards.OverviewUID+".json"),
			data: append(data, '\n'),
		})
	}

	if cfg.RulesEnabled {
		for _, cr := range []rules.PrometheusRule{rules.RecordingRules(), rules.AlertRules()} {
			if res := validate.Rules(cr, KnownMetrics); !res.Ok() {
				return nil, fmt.Errorf("%s: %s", cr.Metadata.Name, strings.Join(res.Errors, "; "))
			}
			data, err := yaml.Marshal(cr)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", cr.Metadata.Name, err)
			}
			files = append(files, artifact{
				path: filepath.Join("prometheus", cr.Metadata.Name+".yaml"),
				data: append([]byte(generatedHeader), data...),
			})
		}
	}

	return files, nil
}
