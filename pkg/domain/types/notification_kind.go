package types

import "fmt"

// NotificationKind represents the subtype of an assignment notification
type NotificationKind string

const (
	NotificationKindCreated NotificationKind = "created"
	NotificationKindUpdated NotificationKind = "updated"
	NotificationKindDueSoon NotificationKind = "due_soon"
	NotificationKindOverdue NotificationKind = "overdue"
)

// IsValid checks if the notification kind is valid
func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationKindCreated,
		NotificationKindUpdated,
		NotificationKindDueSoon,
		NotificationKindOverdue:
		return true
	default:
		return false
	}
}

func (k NotificationKind) String() string {
	return string(k)
}

// ParseNotificationKind parses a string into a NotificationKind
func ParseNotificationKind(s string) (NotificationKind, error) {
	k := NotificationKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid notification kind: %s", s)
	}
	return k, nil
}
