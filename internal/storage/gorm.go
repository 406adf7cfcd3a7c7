package storage

import (
	"context"
	"errors"
	"time"

	"github.com/justsurfingit/talent-portal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKV stores session values in the session_values table.
type GormKV struct {
	DB *gorm.DB
}

func NewGormKV(db *gorm.DB) *GormKV {
	return &GormKV{DB: db}
}

func (g *GormKV) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var row models.SessionValue
	err := g.DB.WithContext(ctx).
		Where("session_id = ? AND key = ?", sessionID, key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (g *GormKV) SetMany(ctx context.Context, sessionID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]models.SessionValue, 0, len(values))
	for k, v := range values {
		rows = append(rows, models.SessionValue{SessionID: sessionID, Key: k, Value: v, UpdatedAt: now})
	}
	return g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

func (g *GormKV) Delete(ctx context.Context, sessionID string, keys ...string) error {
	return g.DB.WithContext(ctx).
		Where("session_id = ? AND key IN ?", sessionID, keys).
		Delete(&models.SessionValue{}).Error
}

// Prune drops sessions untouched since cutoff. It returns the number of rows removed.
func (g *GormKV) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res := g.DB.WithContext(ctx).
		Where("session_id IN (?)",
			g.DB.Model(&models.SessionValue{}).
				Select("session_id").
				Group("session_id").
				Having("MAX(updated_at) < ?", cutoff)).
		Delete(&models.SessionValue{})
	return res.RowsAffected, res.Error
}
