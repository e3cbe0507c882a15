package order

// Status represents the lifecycle state of an order. Transition legality is
// validated by the backend; the client offers every status except the
// current one and relies on the server to reject illegal transitions.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusServed     Status = "SERVED"
	StatusPaid       Status = "PAID"
	StatusCancelled  Status = "CANCELLED"
)

// statuses holds every status in display order.
var statuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusReady,
	StatusServed,
	StatusPaid,
	StatusCancelled,
}

// statusColors is the fixed status → badge color table used by the dashboard.
var statusColors = map[Status]string{
	StatusPending:    "gold",
	StatusInProgress: "blue",
	StatusReady:      "green",
	StatusServed:     "cyan",
	StatusPaid:       "purple",
	StatusCancelled:  "red",
}

// Statuses returns every order status in display order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	_, ok := statusColors[s]
	return ok
}

// Terminal reports whether s is a final state with no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Color returns the badge color for s, or an empty string for unknown statuses.
func (s Status) Color() string {
	return statusColors[s]
}
