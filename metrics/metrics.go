// Package metrics holds the Prometheus instruments of the vote catalog.
// All instruments register with the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RegistrationFailures counts dropped registrations.
	// Labels: "reason" is the sentinel error text.
	RegistrationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "votecatalog_registration_failures_total",
		Help: "Registrations dropped at add or commit time, by reason",
	}, []string{"reason"})

	// CommittedEntries tracks extension entries living in the host catalog.
	// Labels: "kind" is one of "category", "selection", "choice".
	CommittedEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "votecatalog_committed_entries",
		Help: "Extension entries committed into the host catalog",
	}, []string{"kind"})

	// DiscardedPairs counts extension pairs naming entries unknown locally.
	DiscardedPairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "votecatalog_wire_discarded_pairs_total",
		Help: "Extension block pairs discarded because the local catalog lacks the name",
	}, []string{"kind"})

	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "votecatalog_wire_decode_errors_total",
		Help: "Fatal decode errors by message kind",
	}, []string{"kind"})

	Adoptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "votecatalog_rule_state_adoptions_total",
		Help: "Authoritative rule states adopted and resolved",
	})
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
