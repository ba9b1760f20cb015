package store

import "github.com/synaptica-ai/twosides-bridge/pkg/interaction"

// TwosidesRow maps one row of the TWOSIDES interaction table.
type TwosidesRow struct {
	Drug1RxnormID          int     `gorm:"column:drug_1_rxnorm_id"`
	Drug1ConceptName       string  `gorm:"column:drug_1_concept_name"`
	Drug2RxnormID          int     `gorm:"column:drug_2_rxnorm_id"`
	Drug2ConceptName       string  `gorm:"column:drug_2_concept_name"`
	ConditionMeddraID      int     `gorm:"column:condition_meddra_id"`
	ConditionName          string  `gorm:"column:condition_name"`
	A                      int     `gorm:"column:a"`
	B                      int     `gorm:"column:b"`
	C                      int     `gorm:"column:c"`
	D                      int     `gorm:"column:d"`
	PRR                    float64 `gorm:"column:prr"`
	PRRError               float64 `gorm:"column:prr_error"`
	MeanReportingFrequency float64 `gorm:"column:mean_reporting_frequency"`
	Severity               float64 `gorm:"column:severity"`
	SeverityClass          string  `gorm:"column:severity_class"`
}

func (TwosidesRow) TableName() string {
	return DefaultTable
}

func (r TwosidesRow) Record() interaction.Record {
	return interaction.Record{
		Drug1RxnormID:          r.Drug1RxnormID,
		Drug1ConceptName:       r.Drug1ConceptName,
		Drug2RxnormID:          r.Drug2RxnormID,
		Drug2ConceptName:       r.Drug2ConceptName,
		ConditionMeddraID:      r.ConditionMeddraID,
		ConditionName:          r.ConditionName,
		A:                      r.A,
		B:                      r.B,
		C:                      r.C,
		D:                      r.D,
		PRR:                    r.PRR,
		PRRError:               r.PRRError,
		MeanReportingFrequency: r.MeanReportingFrequency,
		Severity:               r.Severity,
		SeverityClass:          interaction.ParseSeverityClass(r.SeverityClass),
	}
}
