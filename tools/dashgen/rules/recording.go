package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "automerch-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "automerch-recording",
					Rules: []Rule{
						{
							Record: "automerch:http_requests:rate5m",
							Expr:   `sum(rate(automerch_http_requests_total[5m]))`,
						},
						{
							Record: "automerch:http_errors:rate5m",
							Expr:   `sum(rate(automerch_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "automerch:provider_attempts:rate5m",
							Expr:   `sum(rate(automerch_provider_attempts_total[5m])) by (provider, outcome)`,
						},
						{
							Record: "automerch:provider_retries:rate5m",
							Expr:   `sum(rate(automerch_provider_retries_total[5m])) by (provider, reason)`,
						},
						{
							Record: "automerch:job_runs:rate5m",
							Expr:   `sum(rate(automerch_job_runs_total[5m])) by (job, status)`,
						},
					},
				},
			},
		},
	}
}
