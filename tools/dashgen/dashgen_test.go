package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/automerch/tools/dashgen/dashboards"
	"github.com/donaldgifford/automerch/tools/dashgen/rules"
	"github.com/donaldgifford/automerch/tools/dashgen/validate"
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

	dash, err := dashboards.BuildOverview().Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "automerch-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Automerch Overview", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	assert.Len(t, dash.Panels, 5)

	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 19, totalPanels)

	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "automerch-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "automerch-recording", group.Name)

	expectedRecords := []string{
		"automerch:http_requests:rate5m",
		"automerch:http_errors:rate5m",
		"automerch:provider_attempts:rate5m",
		"automerch:provider_retries:rate5m",
		"automerch:job_runs:rate5m",
	}
	require.Len(t, group.Rules, len(expectedRecords))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.True(t, KnownMetrics[rule.Record], "%s missing from KnownMetrics", rule.Record)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)

	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "automerch-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]

	expectedAlerts := []string{
		"AutomerchDown",
		"AutomerchReadinessDown",
		"AutomerchHighErrorRate",
		"AutomerchProviderErrors",
		"AutomerchRateLimited",
		"AutomerchEtsyQuotaHigh",
		"AutomerchJobFailures",
		"AutomerchTokenRefreshFailing",
		"AutomerchNotificationFailures",
		"AutomerchPanics",
	}
	require.Len(t, group.Rules, len(expectedAlerts))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
}

func TestValidateExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expr     string
		wantErr  string
		wantWarn bool
	}{
		{name: "known metric", expr: `sum(rate(automerch_http_requests_total[5m]))`},
		{name: "unknown metric", expr: `rate(automerch_orders_total[5m])`, wantErr: "unknown metric"},
		{name: "syntax error", expr: `sum(rate(automerch_http_requests_total[5m])`, wantErr: "parsing"},
		{name: "no selector", expr: `time()`, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := validate.Expr(tt.expr, KnownMetrics)
			if tt.wantErr != "" {
				require.Len(t, res.Errors, 1)
				assert.Contains(t, res.Errors[0], tt.wantErr)
			} else {
				assert.True(t, res.Ok(), "errors: %v", res.Errors)
			}
			assert.Equal(t, tt.wantWarn, len(res.Warnings) > 0)
		})
	}
}

func TestValidateRules_RuleWithoutName(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{Spec: rules.PrometheusRuleSpec{Groups: []rules.RuleGroup{
		{Name: "broken", Rules: []rules.Rule{{Expr: `up`}}},
	}}}
	res := validate.Rules(cr, KnownMetrics)
	require.False(t, res.Ok())
	assert.Contains(t, res.Errors[0], "neither record nor alert")
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.OutputDir = dir
	require.NoError(t, run(cfg, false))

	dash, err := os.ReadFile(filepath.Join(dir, "grafana", "data", "automerch-overview.json"))
	require.NoError(t, err)
	assert.Contains(t, string(dash), `"uid": "automerch-overview"`)

	for _, name := range []string{"automerch-recording-rules.yaml", "automerch-alerts.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, "prometheus", name))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), generatedHeader), "%s missing header", name)

		var cr rules.PrometheusRule
		require.NoError(t, yaml.Unmarshal(data, &cr))
		assert.Equal(t, "PrometheusRule", cr.Kind)
	}
}

func TestRun_ValidateOnlyWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.OutputDir = dir
	require.NoError(t, run(cfg, true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
