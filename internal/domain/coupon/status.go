package coupon

// Status is the display state derived from a coupon at a given instant.
type Status string

const (
	StatusReady     Status = "READY"
	StatusIssuing   Status = "ISSUING"
	StatusExhausted Status = "EXHAUSTED"
	StatusExpired   Status = "EXPIRED"
	StatusDisabled  Status = "DISABLED"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no later instant can return the coupon to ISSUING.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusExhausted, StatusExpired, StatusDisabled:
		return true
	default:
		return false
	}
}
