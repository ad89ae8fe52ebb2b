package domain

// LedgerMetrics records invitation lifecycle events.
type LedgerMetrics interface {
	InvitationCreated()
	InvitationRevoked()
	InvitationLoaded(status InvitationStatus)
	ConsistencyFault()
	CertificateIssued()
}
