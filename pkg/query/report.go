package query

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
)

const defaultReportConcurrency = 4

// Pair is one unordered drug pair of a report, in selection order.
type Pair struct {
	Drug1 string
	Drug2 string
}

// Pairs enumerates every unordered pair of the distinct names in drugs.
// Blank names are ignored and duplicates keep their first position.
func Pairs(drugs []string) []Pair {
	seen := make(map[string]struct{}, len(drugs))
	var distinct []string
	for _, d := range drugs {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		distinct = append(distinct, d)
	}

	var pairs []Pair
	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			pairs = append(pairs, Pair{Drug1: distinct[i], Drug2: distinct[j]})
		}
	}
	return pairs
}

// ReportOptions tunes BuildReport.
type ReportOptions struct {
	Filtered    bool
	Concurrency int
}

// BuildReport queries every pair of drugs and merges the answers into one
// collection. Pairs without known interactions stay in the result as empty
// buckets.
func BuildReport(ctx context.Context, provider Provider, drugs []string, opts ReportOptions) (interaction.Collection, error) {
	pairs := Pairs(drugs)
	if len(pairs) == 0 {
		return interaction.Collection{}, ErrNotEnoughDrugs
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultReportConcurrency
	}

	results := make([]interaction.Collection, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			col, err := provider.QueryInteraction(gctx, p.Drug1, p.Drug2, opts.Filtered)
			if err != nil {
				return fmt.Errorf("querying %s/%s: %w", p.Drug1, p.Drug2, err)
			}
			results[i] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return interaction.Collection{}, err
	}

	report := interaction.NewCollection()
	for _, col := range results {
		report.Merge(col)
	}
	return report, nil
}
