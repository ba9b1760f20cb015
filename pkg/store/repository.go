// Package store answers lookups directly from the relational TWOSIDES table.
package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
	"github.com/synaptica-ai/twosides-bridge/pkg/interaction"
	"github.com/synaptica-ai/twosides-bridge/pkg/query"
)

const DefaultTable = "effect_nsides.twosides"

var insignificantClasses = []string{"Unknown", "Negligible"}

type Repository struct {
	db    *gorm.DB
	table string
}

func NewRepository(db *gorm.DB, table string) *Repository {
	if table == "" {
		table = DefaultTable
	}
	return &Repository{db: db, table: table}
}

func (r *Repository) QueryDrug(ctx context.Context, name string, like bool) ([]string, error) {
	names := []string{}
	tx := r.db.WithContext(ctx).
		Table(r.table).
		Distinct("drug_1_concept_name")
	if like {
		tx = tx.Where("drug_1_concept_name ILIKE ? ESCAPE '\\'", LikePattern(name)).
			Order("drug_1_concept_name").
			Limit(query.DrugResultLimit)
	} else {
		tx = tx.Where("drug_1_concept_name = ?", name).Limit(1)
	}
	if err := tx.Pluck("drug_1_concept_name", &names).Error; err != nil {
		return nil, fmt.Errorf("querying drug %q: %w", name, err)
	}
	return names, nil
}

func (r *Repository) QueryInteraction(ctx context.Context, drug1, drug2 string, filtered bool) (interaction.Collection, error) {
	var rows []TwosidesRow
	tx := r.db.WithContext(ctx).
		Table(r.table).
		Where("(drug_1_concept_name = ? AND drug_2_concept_name = ?) OR (drug_1_concept_name = ? AND drug_2_concept_name = ?)",
			drug1, drug2, drug2, drug1)
	if filtered {
		tx = tx.Where("severity_class NOT IN ?", insignificantClasses)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return interaction.Collection{}, fmt.Errorf("querying interactions %s/%s: %w", drug1, drug2, err)
	}

	records := make([]interaction.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	if filtered {
		records = query.FilterSignificant(records)
	}

	logger.Log.WithFields(map[string]interface{}{
		"drug1":    drug1,
		"drug2":    drug2,
		"filtered": filtered,
		"records":  len(records),
	}).Debug("interaction query served from store")

	return interaction.NewPairCollection(interaction.PairKey(drug1, drug2), records...), nil
}

// LikePattern wraps fragment for a substring LIKE match, escaping the
// wildcard characters it contains.
func LikePattern(fragment string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(fragment) + "%"
}

var _ query.Provider = (*Repository)(nil)

// Ping checks that the database answers.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
