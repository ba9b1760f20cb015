package fixture

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
)

func TestQueryDrugLike(t *testing.T) {
	p := NewProvider(DefaultCatalog())

	names, err := p.QueryDrug(context.Background(), "aspirin", true)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(names), 50)
	require.NotEmpty(t, names)
	for _, n := range names {
		assert.Contains(t, strings.ToLower(n), "aspirin")
	}

	names, err = p.QueryDrug(context.Background(), "TEMAZ", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Temazepam"}, names)
}

func TestQueryDrugSearchesFirstDrugOnly(t *testing.T) {
	p := NewProvider(DefaultCatalog())

	names, err := p.QueryDrug(context.Background(), "silden", true)
	require.NoError(t, err)
	assert.Empty(t, names)

	names, err = p.QueryDrug(context.Background(), "Ibuprofen", false)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestQueryDrugExact(t *testing.T) {
	p := NewProvider(DefaultCatalog())

	names, err := p.QueryDrug(context.Background(), "Temazepam", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Temazepam"}, names)

	names, err = p.QueryDrug(context.Background(), "temazepam", false)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestQueryDrugIsCapped(t *testing.T) {
	var cat Catalog
	for i := 0; i < 80; i++ {
		cat.Records = append(cat.Records, interaction.Record{
			Drug1ConceptName: "Drug " + strings.Repeat("x", i+1),
			Drug2ConceptName: "Other",
			ConditionName:    "Nausea",
		})
	}
	names, err := NewProvider(cat).QueryDrug(context.Background(), "drug", true)
	require.NoError(t, err)
	assert.Len(t, names, 50)
}

func TestQueryInteractionFiltered(t *testing.T) {
	p := NewProvider(DefaultCatalog())

	all, err := p.QueryInteraction(context.Background(), "Aspirin", "Ibuprofen", false)
	require.NoError(t, err)
	filtered, err := p.QueryInteraction(context.Background(), "Aspirin", "Ibuprofen", true)
	require.NoError(t, err)

	require.Equal(t, 1, filtered.Len())
	bucket, ok := filtered.Bucket(interaction.PairKey("Aspirin", "Ibuprofen"))
	require.True(t, ok)
	require.NotEmpty(t, bucket)
	for _, r := range bucket {
		assert.True(t, r.SeverityClass.Significant(), r.ConditionName)
	}
	assert.Equal(t, all.RecordCount()-2, filtered.RecordCount())
}

func TestQueryInteractionKeepsCallOrder(t *testing.T) {
	p := NewProvider(DefaultCatalog())

	col, err := p.QueryInteraction(context.Background(), "Ibuprofen", "Aspirin", false)
	require.NoError(t, err)
	assert.Equal(t, []interaction.Key{"Ibuprofen%Aspirin"}, col.Keys())
	assert.Equal(t, 12, col.RecordCount())
}

func TestQueryInteractionSafePair(t *testing.T) {
	p := NewProvider(DefaultCatalog())

	col, err := p.QueryInteraction(context.Background(), "Aspirin", "Temazepam", true)
	require.NoError(t, err)
	assert.Equal(t, []interaction.Key{"Aspirin%Temazepam"}, col.SafePairs())
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `records:
  - drug1RxnormId: 10355
    drug1ConceptName: Temazepam
    drug2RxnormId: 136411
    drug2ConceptName: sildenafil
    conditionMeddraId: 10016256
    conditionName: Fatigue
    a: 19
    b: 137
    c: 54
    d: 1506
    prr: 3.51852
    prrError: 0.253177
    meanReportingFrequency: 0.121795
    severity: 1.69264
    severityClass: Medium
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cat.Records, 1)
	assert.Equal(t, interaction.SeverityMedium, cat.Records[0].SeverityClass)
	assert.Equal(t, 1506, cat.Records[0].D)
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("records: []\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
