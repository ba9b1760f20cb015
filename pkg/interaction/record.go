package interaction

import (
	"fmt"
	"strings"
)

// Record is one drug pair / condition observation from the TWOSIDES data set.
// Records are plain values: two records are equal iff every field is equal.
type Record struct {
	Drug1RxnormID     int    `json:"drug1RxnormId" yaml:"drug1RxnormId"`
	Drug1ConceptName  string `json:"drug1ConceptName" yaml:"drug1ConceptName"`
	Drug2RxnormID     int    `json:"drug2RxnormId" yaml:"drug2RxnormId"`
	Drug2ConceptName  string `json:"drug2ConceptName" yaml:"drug2ConceptName"`
	ConditionMeddraID int    `json:"conditionMeddraId" yaml:"conditionMeddraId"`
	ConditionName     string `json:"conditionName" yaml:"conditionName"`

	// Contingency counts: a reports the pair with the condition, b the pair
	// without it, c other matched drugs with it, d other matched drugs without.
	A int `json:"a" yaml:"a"`
	B int `json:"b" yaml:"b"`
	C int `json:"c" yaml:"c"`
	D int `json:"d" yaml:"d"`

	PRR                    float64       `json:"prr" yaml:"prr"`
	PRRError               float64       `json:"prrError" yaml:"prrError"`
	MeanReportingFrequency float64       `json:"meanReportingFrequency" yaml:"meanReportingFrequency"`
	Severity               float64       `json:"severity" yaml:"severity"`
	SeverityClass          SeverityClass `json:"severityClass" yaml:"severityClass"`
}

// Key is the bucket key of a drug pair. It keeps the argument order of the
// query that produced it.
type Key string

const keySeparator = "%"

// PairKey derives the bucket key for drug1 and drug2, in that order.
func PairKey(drug1, drug2 string) Key {
	return Key(joinKey(drug1, drug2))
}

// Drugs splits the key back into display names.
func (k Key) Drugs() []string {
	parts := strings.Split(string(k), keySeparator)
	for i := range parts {
		parts[i] = strings.ReplaceAll(parts[i], "_", " ")
	}
	return parts
}

// RecordKey identifies a record inside its pair bucket.
func RecordKey(r Record) string {
	return joinKey(r.Drug1ConceptName, r.Drug2ConceptName, r.ConditionName)
}

func joinKey(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = strings.ReplaceAll(p, " ", "_")
	}
	return strings.Join(escaped, keySeparator)
}

func (r Record) String() string {
	return fmt.Sprintf("%s + %s -> %s (prr=%.4g, severity=%.4g %s)",
		r.Drug1ConceptName, r.Drug2ConceptName, r.ConditionName, r.PRR, r.Severity, r.SeverityClass)
}
