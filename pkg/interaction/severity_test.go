package interaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverityClass(t *testing.T) {
	cases := map[string]SeverityClass{
		"Negligible": SeverityNegligible,
		"minor":      SeverityMinor,
		" Medium ":   SeverityMedium,
		"SEVERE":     SeveritySevere,
		"Critical":   SeverityCritical,
		"Unknown":    SeverityUnknown,
		"":           SeverityUnknown,
		"Moderate":   SeverityUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseSeverityClass(in), in)
	}
}

func TestSeverityOrderingAndSignificance(t *testing.T) {
	assert.True(t, SeverityNegligible < SeverityMinor)
	assert.True(t, SeveritySevere < SeverityCritical)
	assert.False(t, SeverityUnknown.Significant())
	assert.False(t, SeverityNegligible.Significant())
	assert.True(t, SeverityMinor.Significant())
}

func TestSeverityClassJSONFallsBackToUnknown(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"severityClass":"Catastrophic"}`), &r))
	assert.Equal(t, SeverityUnknown, r.SeverityClass)

	raw, err := json.Marshal(SeverityCritical)
	require.NoError(t, err)
	assert.Equal(t, `"Critical"`, string(raw))
}
