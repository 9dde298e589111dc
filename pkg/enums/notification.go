package enums

// NotificationType labels platform notifications.
type NotificationType string

const (
	NotificationRTOInitiated            NotificationType = "rto_initiated"
	NotificationRTODeliveredToWarehouse NotificationType = "rto_delivered_to_warehouse"
	NotificationRTOQCCompleted          NotificationType = "rto_qc_completed"
	NotificationRTOCancelled            NotificationType = "rto_cancelled"
	NotificationRTOStale                NotificationType = "rto_stale"
)

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}
