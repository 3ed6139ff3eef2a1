package health

import "item-appraiser/internal/metrics"

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
	Severity       Status
}

// Rule evaluates a metrics snapshot.
type Rule func(snapshot map[string]int64) RuleResult

// ---------- RULES ----------

// An unhealthy model endpoint means analyze and chat are failing.
func UpstreamUnhealthyRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.UpstreamUnhealthy)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Model API is unhealthy",
			Recommendation: "Check the API key, quota and upstream status page",
			Severity:       StatusCritical,
		}
	}
	return RuleResult{}
}

// Timeouts suggest the deadline is too tight or the upstream is slow.
func UpstreamTimeoutRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.UpstreamTimeoutsTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Model API timeouts detected",
			Recommendation: "Consider raising UPSTREAM_TIMEOUT or reducing image size",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Retries indicate transient upstream instability.
func UpstreamRetryRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.UpstreamRetriesTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Model API retries detected",
			Recommendation: "Watch for rate limiting or upstream server errors",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// Rejected shares mean the store hit its entry limit.
func ShareCapacityRule(snapshot map[string]int64) RuleResult {
	if snapshot[string(metrics.ShareRejectedTotal)] > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         "Share store rejected entries at capacity",
			Recommendation: "Raise SHARE_MAX_ENTRIES or shorten SHARE_TTL",
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}
