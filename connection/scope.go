package connection

import (
	"strings"

	"github.com/DevelopBG/PTV-Assistant-for-travel/model"
)

// ForMode returns the subset of the Set belonging to one mode bundle,
// for the dispatcher's per-mode planners. Membership is decided
// by the global-id prefix every merged entity carries: a
// connection is in scope when its from_stop belongs to the mode, and
// a transfer when both endpoints do. Relative order is preserved, so
// the scoped slices stay departure-sorted.
func (s *Set) ForMode(modeTag string) *Set {
	prefix := modeTag + ":"

	scoped := &Set{
		TransfersByStop: map[string][]model.Transfer{},
	}
	for _, c := range s.Regular {
		if strings.HasPrefix(c.FromStopID, prefix) {
			scoped.Regular = append(scoped.Regular, c)
		}
	}
	for _, c := range s.Wrapped {
		if strings.HasPrefix(c.FromStopID, prefix) {
			scoped.Wrapped = append(scoped.Wrapped, c)
		}
	}
	for stop, trs := range s.TransfersByStop {
		if !strings.HasPrefix(stop, prefix) {
			continue
		}
		for _, tr := range trs {
			if strings.HasPrefix(tr.ToStopID, prefix) {
				scoped.TransfersByStop[stop] = append(scoped.TransfersByStop[stop], tr)
			}
		}
	}
	return scoped
}
