package enums

// AuditAction labels entries in the audit trail.
type AuditAction string

const (
	AuditActionRTOTriggered  AuditAction = "rto.triggered"
	AuditActionRTOTransition AuditAction = "rto.transition"
	AuditActionRTOCancelled  AuditAction = "rto.cancelled"
	AuditActionRTORestocked  AuditAction = "rto.restocked"
	AuditActionWalletCharged AuditAction = "wallet.rto_charge"
)

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}
