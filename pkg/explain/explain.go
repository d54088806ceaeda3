// Package explain ranks illustrative risk drivers for a simulated member.
//
// The drivers are a fixed heuristic evaluated on the submitted profile. They are not
// feature attribution from the scoring model and must not be presented as such.
package explain

// Driver is one named, signed contribution to the illustrative risk explanation.
// A positive value raises risk, a negative value lowers it.
type Driver struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Note  string  `json:"note"`
}

// TopContext returns at most n leading drivers of an already ranked list.
func TopContext(drivers []Driver, n int) []Driver {
	if n < 0 {
		n = 0
	}
	if len(drivers) < n {
		n = len(drivers)
	}

	top := make([]Driver, n)
	copy(top, drivers[:n])
	return top
}
