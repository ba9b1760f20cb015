package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
)

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%aspirin%", LikePattern("aspirin"))
	assert.Equal(t, `%50\%\_off%`, LikePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, LikePattern(`a\b`))
}

func TestRowToRecord(t *testing.T) {
	row := TwosidesRow{
		Drug1RxnormID: 10355, Drug1ConceptName: "Temazepam",
		Drug2RxnormID: 136411, Drug2ConceptName: "sildenafil",
		ConditionMeddraID: 10003549, ConditionName: "Asthenia",
		A: 11, B: 145, C: 27, D: 1533,
		PRR: 4.07407, PRRError: 0.347699, MeanReportingFrequency: 0.0705128,
		Severity: 0.826215, SeverityClass: "Minor",
	}
	r := row.Record()
	assert.Equal(t, interaction.SeverityMinor, r.SeverityClass)
	assert.Equal(t, "Temazepam%sildenafil%Asthenia", interaction.RecordKey(r))
	assert.Equal(t, 1533, r.D)

	row.SeverityClass = "n/a"
	assert.Equal(t, interaction.SeverityUnknown, row.Record().SeverityClass)
}

func TestNewRepositoryDefaultsTable(t *testing.T) {
	assert.Equal(t, DefaultTable, NewRepository(nil, "").table)
	assert.Equal(t, "public.twosides", NewRepository(nil, "public.twosides").table)
}
