package domain

type Status string

const (
	StatusRequested    Status = "requested"
	StatusInvoiceSent  Status = "invoice_sent"
	StatusSamplePaid   Status = "sample_paid"
	StatusInProduction Status = "in_production"
	StatusShipped      Status = "shipped"
	StatusDelivered    Status = "delivered"
	StatusInReview     Status = "in_review"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
)

var allStatuses = []Status{
	StatusRequested,
	StatusInvoiceSent,
	StatusSamplePaid,
	StatusInProduction,
	StatusShipped,
	StatusDelivered,
	StatusInReview,
	StatusApproved,
	StatusRejected,
}

// edges lists the direct steps of the lifecycle graph. Any status reachable
// through a chain of edges is a legal target.
var edges = map[Status][]Status{
	StatusRequested:    {StatusInvoiceSent, StatusInReview},
	StatusInvoiceSent:  {StatusSamplePaid},
	StatusSamplePaid:   {StatusInProduction},
	StatusInProduction: {StatusShipped},
	StatusShipped:      {StatusDelivered},
	StatusInReview:     {StatusApproved, StatusRejected},
}

var reachable = buildReachability()

func buildReachability() map[Status]map[Status]bool {
	out := make(map[Status]map[Status]bool, len(allStatuses))
	for _, from := range allStatuses {
		seen := map[Status]bool{}
		stack := append([]Status(nil), edges[from]...)
		for len(stack) > 0 {
			next := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[next] {
				continue
			}
			seen[next] = true
			stack = append(stack, edges[next]...)
		}
		out[from] = seen
	}
	return out
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// CanTransition reports whether to is reachable from s. Forward skips are
// allowed, self and backward transitions are not.
func (s Status) CanTransition(to Status) bool {
	return reachable[s][to]
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return len(reachable[s]) == 0
}

func (s Status) String() string {
	return string(s)
}
