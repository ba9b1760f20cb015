// Package query defines the lookup surface shared by the direct store and the
// message-passing requester, plus the helpers every implementation relies on.
package query

import (
	"context"
	"errors"

	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
)

// DrugResultLimit bounds QueryDrug results.
const DrugResultLimit = 50

var ErrNotEnoughDrugs = errors.New("at least two distinct drugs are required")

// Provider answers drug and interaction lookups. Implementations must be
// interchangeable: callers never learn which one served a request.
type Provider interface {
	// QueryDrug returns drug names containing name (case-insensitive) when like
	// is set, otherwise the exact match if one exists. At most DrugResultLimit
	// names are returned.
	QueryDrug(ctx context.Context, name string, like bool) ([]string, error)

	// QueryInteraction returns a collection with exactly one bucket keyed by
	// interaction.PairKey(drug1, drug2). With filtered set, records of class
	// Unknown or Negligible are left out.
	QueryInteraction(ctx context.Context, drug1, drug2 string, filtered bool) (interaction.Collection, error)
}

// FilterSignificant drops records a filtered query must not return.
func FilterSignificant(records []interaction.Record) []interaction.Record {
	out := records[:0:0]
	for _, r := range records {
		if r.SeverityClass.Significant() {
			out = append(out, r)
		}
	}
	return out
}

// LimitDrugs truncates names to DrugResultLimit.
func LimitDrugs(names []string) []string {
	if len(names) > DrugResultLimit {
		return names[:DrugResultLimit]
	}
	return names
}
