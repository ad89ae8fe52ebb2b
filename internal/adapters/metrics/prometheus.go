package metrics

import (
	"certinvite/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "certinvite"

// Ledger implements domain.LedgerMetrics with Prometheus counters.
type Ledger struct {
	created      prometheus.Counter
	revoked      prometheus.Counter
	loaded       *prometheus.CounterVec
	faults       prometheus.Counter
	certificates prometheus.Counter
}

// NewLedger registers the ledger counters on reg.
func NewLedger(reg prometheus.Registerer) (*Ledger, error) {
	m := &Ledger{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitations_created_total",
			Help:      "Invitations created.",
		}),
		revoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitations_revoked_total",
			Help:      "Invitations revoked.",
		}),
		loaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitations_loaded_total",
			Help:      "Invitation loads by derived status.",
		}, []string{"status"}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invitation_consistency_faults_total",
			Help:      "Invitations found with more certificates than their quantity allows.",
		}),
		certificates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_issued_total",
			Help:      "Certificates recorded against invitations.",
		}),
	}
	for _, c := range []prometheus.Collector{m.created, m.revoked, m.loaded, m.faults, m.certificates} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Ledger) InvitationCreated() { m.created.Inc() }

func (m *Ledger) InvitationRevoked() { m.revoked.Inc() }

func (m *Ledger) InvitationLoaded(status domain.InvitationStatus) {
	m.loaded.WithLabelValues(status.String()).Inc()
}

func (m *Ledger) ConsistencyFault() { m.faults.Inc() }

func (m *Ledger) CertificateIssued() { m.certificates.Inc() }
