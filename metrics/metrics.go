package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "op_robot"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	// Registry holds the op-robot collectors. It is separate from the default
	// registry so the textfile export contains only run metrics.
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	errorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	runsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_total",
		Help:      "Count of test runs",
	}, []string{
		"suite",
		"browser",
		"result",
	})

	runExitCode = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_exit_code",
		Help:      "Exit code of the last test run",
	}, []string{
		"run_id",
		"suite",
		"browser",
	})

	runDuration = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of the last test run",
	}, []string{
		"run_id",
		"suite",
		"browser",
	})

	runTimestamp = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_timestamp_seconds",
		Help:      "Unix time at which the last test run started",
	}, []string{
		"run_id",
		"suite",
		"browser",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordRun records the outcome of a finished runner process
func RecordRun(runID, suite, browser string, exitCode int, started time.Time, duration time.Duration) {
	if suite == "" {
		suite = "all"
	}
	result := "pass"
	if exitCode != 0 {
		result = "fail"
	}
	if Debug {
		log.Debug("metric inc",
			"m", "runs_total",
			"run_id", runID,
			"suite", suite,
			"browser", browser,
			"result", result)
	}
	runsTotal.WithLabelValues(suite, browser, result).Inc()
	runExitCode.WithLabelValues(runID, suite, browser).Set(float64(exitCode))
	runDuration.WithLabelValues(runID, suite, browser).Set(duration.Seconds())
	runTimestamp.WithLabelValues(runID, suite, browser).Set(float64(started.Unix()))
}

// WriteTextfile writes every collected metric to path in the Prometheus
// text format, for pickup by a node_exporter textfile collector
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
