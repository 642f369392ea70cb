package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/trip-market/tools/dashgen/dashboards"
	"github.com/donaldgifford/trip-market/tools/dashgen/rules"
	"github.com/donaldgifford/trip-market/tools/dashgen/validate"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	builder := dashboards.BuildOverview()
	dash, err := builder.Build()
	require.NoError(t, err)

	// Verify dashboard metadata.
	require.NotNil(t, dash.Uid)
	assert.Equal(t, "tripmarket-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Trip Market Overview", *dash.Title)

	// Verify template variable.
	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	// Verify we have 5 rows.
	assert.Len(t, dash.Panels, 5)

	// Count total inner panels.
	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 16, totalPanels)

	// Validate PromQL and metrics.
	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "tripmarket-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "tripmarket-recording", group.Name)

	expectedRecords := []string{
		"tripmarket:http_requests:rate5m",
		"tripmarket:http_errors:rate5m",
		"tripmarket:api_requests:rate5m",
		"tripmarket:listing_fetches:rate5m",
		"tripmarket:listing_fetch_errors:rate5m",
		"tripmarket:listing_stale:rate5m",
	}
	assert.Equal(t, expectedRecords, cr.Records())
	for _, rec := range expectedRecords {
		assert.True(t, KnownMetrics[rec], "%s missing from KnownMetrics", rec)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)

	// Verify YAML marshaling works.
	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")

	file, err := yaml.Marshal(cr.File())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(file), "groups:"))
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "tripmarket-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "tripmarket-alerts", group.Name)
	require.Len(t, group.Rules, 6)

	expectedAlerts := []string{
		"TripmockDown",
		"TripmockNotReady",
		"TripmockHighErrorRate",
		"ListingFetchErrors",
		"SaveToggleFailures",
		"RateRefreshFailing",
	}
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Expr)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.OutputDir = dir
	require.NoError(t, run(cfg, false))

	for _, name := range []string{
		filepath.Join("grafana", "data", "tripmarket-overview.json"),
		filepath.Join("prometheus", "tripmarket-recording-rules.yaml"),
		filepath.Join("prometheus", "tripmarket-alerts.yaml"),
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		if strings.HasSuffix(name, ".yaml") {
			assert.True(t, strings.HasPrefix(string(data), generatedHeader), name)
		} else {
			assert.Contains(t, string(data), `"uid": "tripmarket-overview"`)
		}
	}
}

func TestRun_ValidateOnly(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	cfg := Config{OutputDir: dir, RulesEnabled: true}
	require.NoError(t, run(cfg, true))

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "validate mode writes nothing")
}
