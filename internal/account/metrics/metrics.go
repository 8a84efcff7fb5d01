package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "custodia/pkg/platform/audit"
)

// Metrics provides operational visibility for the account module, one
// counter per protocol event kind. The registry counters in the identity
// store remain the authoritative history; these exist for dashboards and
// alerting.
type Metrics struct {
	AccountsCreated     prometheus.Counter
	ClaimersAdded       prometheus.Counter
	ClaimersRemoved     prometheus.Counter
	CapabilitiesClaimed prometheus.Counter
	AuthorityRedeemed   prometheus.Counter
}

// New creates and registers all account module metrics.
func New() *Metrics {
	return &Metrics{
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "custodia_accounts_created_total",
			Help: "Total number of shared accounts created",
		}),
		ClaimersAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "custodia_claimers_added_total",
			Help: "Total number of allow-list additions",
		}),
		ClaimersRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "custodia_claimers_removed_total",
			Help: "Total number of allow-list removals",
		}),
		CapabilitiesClaimed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "custodia_capabilities_claimed_total",
			Help: "Total number of capabilities claimed",
		}),
		AuthorityRedeemed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "custodia_authority_redeemed_total",
			Help: "Total number of authority proofs redeemed",
		}),
	}
}

// Increment bumps the counter matching the event kind.
func (m *Metrics) Increment(kind audit.Kind) {
	switch kind {
	case audit.KindAccountCreated:
		m.AccountsCreated.Inc()
	case audit.KindClaimerAdded:
		m.ClaimersAdded.Inc()
	case audit.KindClaimerRemoved:
		m.ClaimersRemoved.Inc()
	case audit.KindClaimed:
		m.CapabilitiesClaimed.Inc()
	case audit.KindRedeemed:
		m.AuthorityRedeemed.Inc()
	}
}
