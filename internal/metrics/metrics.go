// Package metrics exposes prometheus collectors for the reconciliation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsRegistered counts successful payment registrations.
	PaymentsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cobranzas",
		Name:      "payments_registered_total",
		Help:      "Number of payments successfully posted to the ledger.",
	})

	// PaymentConflicts counts optimistic-concurrency aborts on sales.
	PaymentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cobranzas",
		Name:      "payment_conflicts_total",
		Help:      "Number of payment registrations aborted by a concurrent writer.",
	})

	// AmountCollected accumulates gross amounts collected.
	AmountCollected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cobranzas",
		Name:      "amount_collected_total",
		Help:      "Gross amount collected across all payments.",
	})

	// ChequeTransitions counts cheque state changes by target state.
	ChequeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cobranzas",
		Name:      "cheque_transitions_total",
		Help:      "Cheque lifecycle transitions by destination state.",
	}, []string{"to"})

	// JobsCompleted counts finished background jobs, failures included.
	JobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cobranzas",
		Name:      "background_jobs_completed_total",
		Help:      "Background jobs that finished, whether they succeeded or not.",
	})

	// JobsFailed counts background jobs that returned an error or panicked.
	JobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cobranzas",
		Name:      "background_jobs_failed_total",
		Help:      "Background jobs that returned an error or panicked.",
	})
)
