// Package fixture serves interaction lookups from a YAML catalog held in
// memory. It backs local development and tests when no database is around.
package fixture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
	"github.com/synaptica-ai/twosides-bridge/pkg/query"
)

type Catalog struct {
	Records []interaction.Record `yaml:"records" json:"records"`
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Records) == 0 {
		return Catalog{}, fmt.Errorf("interaction catalog empty")
	}
	return cat, nil
}

// Provider implements query.Provider over a Catalog. It never mutates the
// catalog, so concurrent use is safe.
type Provider struct {
	records []interaction.Record
	drugs   []string
}

func NewProvider(cat Catalog) *Provider {
	seen := make(map[string]struct{})
	var drugs []string
	// Drug search covers the first drug column only, like the table lookup.
	for _, r := range cat.Records {
		name := r.Drug1ConceptName
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		drugs = append(drugs, name)
	}
	sort.Strings(drugs)
	return &Provider{records: cat.Records, drugs: drugs}
}

func (p *Provider) QueryDrug(ctx context.Context, name string, like bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := []string{}
	needle := strings.ToLower(name)
	for _, drug := range p.drugs {
		if like && strings.Contains(strings.ToLower(drug), needle) {
			results = append(results, drug)
		}
		if !like && drug == name {
			return []string{drug}, nil
		}
	}
	return query.LimitDrugs(results), nil
}

func (p *Provider) QueryInteraction(ctx context.Context, drug1, drug2 string, filtered bool) (interaction.Collection, error) {
	if err := ctx.Err(); err != nil {
		return interaction.Collection{}, err
	}
	var matched []interaction.Record
	for _, r := range p.records {
		forward := r.Drug1ConceptName == drug1 && r.Drug2ConceptName == drug2
		reverse := r.Drug1ConceptName == drug2 && r.Drug2ConceptName == drug1
		if forward || reverse {
			matched = append(matched, r)
		}
	}
	if filtered {
		matched = query.FilterSignificant(matched)
	}
	return interaction.NewPairCollection(interaction.PairKey(drug1, drug2), matched...), nil
}

var _ query.Provider = (*Provider)(nil)
