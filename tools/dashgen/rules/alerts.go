package rules

import (
	"fmt"
)

// etsyQuotaWarn is 80% of the Etsy daily quota.
const etsyQuotaWarn = 8000

// AlertRules returns a PrometheusRule CR containing alert rules for
// automerch operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "automerch-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "automerch-alerts",
					Rules: []Rule{
						{
							Alert: "AutomerchDown",
							Expr:  `absent(up{job="automerch"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "automerch is down",
								"description": "The automerch job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "AutomerchReadinessDown",
							Expr:  `automerch_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "automerch readiness check is failing",
								"description": "The database readiness probe has been failing for more than 2 minutes.",
							},
						},
						{
							Alert: "AutomerchHighErrorRate",
							Expr:  `automerch:http_errors:rate5m / automerch:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on automerch",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "AutomerchProviderErrors",
							Expr:  `sum(automerch:provider_attempts:rate5m{outcome=~"server_error|network_error"}) by (provider) > 0.1`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Provider API errors are elevated",
								"description": "Etsy or Printful calls are failing with server or network errors for more than 10 minutes.",
							},
						},
						{
							Alert: "AutomerchRateLimited",
							Expr:  `sum(automerch:provider_retries:rate5m{reason="rate_limited"}) by (provider) > 0`,
							For:   "15m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Provider is rate limiting automerch",
								"description": "HTTP 429 responses have been retried continuously for 15 minutes.",
							},
						},
						{
							Alert: "AutomerchEtsyQuotaHigh",
							Expr:  fmt.Sprintf(`sum(automerch_rate_limit_daily_usage{provider="etsy"}) > %d`, etsyQuotaWarn),
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Etsy API daily usage is above 80% of the quota",
								"description": "Etsy calls in the last 24h have exceeded 8000 (limit is 10000).",
							},
						},
						{
							Alert: "AutomerchJobFailures",
							Expr:  `increase(automerch_job_runs_total{status="error"}[1h]) > 2`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Background job is failing",
								"description": "A scheduled job has failed more than twice in the last hour.",
							},
						},
						{
							Alert: "AutomerchTokenRefreshFailing",
							Expr:  `increase(automerch_token_refreshes_total{result="failed"}[30m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Etsy token refresh failed",
								"description": "A shop token could not be refreshed. The shop may need to be reconnected.",
							},
						},
						{
							Alert: "AutomerchNotificationFailures",
							Expr:  `increase(automerch_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more job failure notifications (Discord webhooks) have failed to send.",
							},
						},
						{
							Alert: "AutomerchPanics",
							Expr:  `increase(automerch_http_panics_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "HTTP handler panic recovered",
								"description": "A request handler panicked. Check the logs for the stack.",
							},
						},
					},
				},
			},
		},
	}
}
