package domain

import "time"

// A Cluster is a non-empty group of delivery requests that are mutually close
// under the proximity rule and therefore share a delivery day. Members keep
// their input order; downstream stages treat the cluster as read-only.
type Cluster struct {
	Members []*DeliveryRequest
}

// EarliestDeadline returns the minimum deadline among members. This is the
// binding deadline for the whole cluster.
func (c *Cluster) EarliestDeadline() time.Time {
	earliest := c.Members[0].Deadline
	for _, m := range c.Members[1:] {
		if m.Deadline.Before(earliest) {
			earliest = m.Deadline
		}
	}
	return earliest
}

// Postcodes returns the member postcodes in member order.
func (c *Cluster) Postcodes() []string {
	out := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		out = append(out, m.Postcode)
	}
	return out
}
