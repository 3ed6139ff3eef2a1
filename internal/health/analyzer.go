package health

import (
	"strings"

	"item-appraiser/internal/logs"
	"item-appraiser/internal/metrics"
)

// upstreamFailureLog prefixes the WARN llm.Client writes once per request
// that failed for good. Retry lines start with "upstream retry" and may
// embed this text inside the error, so only the prefix counts.
const upstreamFailureLog = "upstream request failed"

// repeatedFailureThreshold is how many failed requests in the recent log
// window degrade health.
const repeatedFailureThreshold = 3

// Analyzer converts metrics + logs into a health report.
type Analyzer struct {
	metrics *metrics.Registry
	logger  *logs.Logger
	rules   []Rule
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(
	reg *metrics.Registry,
	logger *logs.Logger,
) *Analyzer {
	return &Analyzer{
		metrics: reg,
		logger:  logger,
		rules: []Rule{
			UpstreamUnhealthyRule,
			UpstreamTimeoutRule,
			UpstreamRetryRule,
			ShareCapacityRule,
		},
	}
}

// Analyze evaluates metrics and logs and returns a health report.
func (a *Analyzer) Analyze() Report {
	snapshot := a.metrics.Snapshot()

	var (
		signals         = []string{}
		recommendations = []string{}
		status          = StatusOK
	)

	/* ---------- METRICS-BASED RULES ---------- */

	for _, rule := range a.rules {
		result := rule(snapshot)
		if !result.Triggered {
			continue
		}

		signals = append(signals, result.Signal)
		recommendations = append(recommendations, result.Recommendation)

		// Escalate status
		if result.Severity == StatusCritical {
			status = StatusCritical
		} else if result.Severity == StatusDegraded && status == StatusOK {
			status = StatusDegraded
		}
	}

	/* ---------- LOG-BASED SIGNALS ---------- */

	logEntries := a.logger.GetLast(100)

	upstreamFailures := 0
	panicCount := 0

	for _, entry := range logEntries {
		if entry.Level == logs.WARN &&
			strings.HasPrefix(entry.Message, upstreamFailureLog) {
			upstreamFailures++
		}

		if entry.Level == logs.ERROR &&
			strings.Contains(entry.Message, "panic") {
			panicCount++
		}
	}

	if upstreamFailures >= repeatedFailureThreshold {
		signals = append(signals,
			"Repeated model API failures detected in logs",
		)
		recommendations = append(recommendations,
			"Investigate network connectivity or upstream availability",
		)
		if status == StatusOK {
			status = StatusDegraded
		}
	}

	if panicCount > 0 {
		signals = append(signals,
			"Application panics detected in logs",
		)
		recommendations = append(recommendations,
			"Inspect stack traces and stabilize error handling",
		)
		status = StatusCritical
	}

	/* ---------- SUMMARY ---------- */

	summary := "Service is healthy"
	if status != StatusOK {
		summary = "Service health issues detected"
	}

	return Report{
		OverallStatus:   status,
		Summary:         summary,
		Signals:         signals,
		Recommendations: recommendations,
	}
}
