package vault

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohankour/ValoraVault/errors"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valora",
		Subsystem: "vault",
		Name:      "operations_total",
		Help:      "Completed ledger invocations by operation and result code.",
	}, []string{"operation", "code"})

	depositedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "valora",
		Subsystem: "vault",
		Name:      "deposited_total",
		Help:      "Net value credited to accounts.",
	})

	feesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "valora",
		Subsystem: "vault",
		Name:      "fees_total",
		Help:      "Value routed to the administrator as deposit fees.",
	})

	withdrawnTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valora",
		Subsystem: "vault",
		Name:      "withdrawn_total",
		Help:      "Value paid out by the ledger, by operation.",
	}, []string{"operation"})
)

// recordOperation counts a completed invocation. Successful invocations are
// reported with code 0.
func recordOperation(op string, err error) {
	code := strconv.FormatUint(uint64(errors.Code(err)), 10)
	operationsTotal.WithLabelValues(op, code).Inc()
}
