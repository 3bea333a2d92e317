package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository is the sqlite-backed key-value store dashboard screens
// read the saved session from. It satisfies registration.SessionStore.
type SessionRepository struct {
	db *gorm.DB
}

type sessionEntryModel struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (sessionEntryModel) TableName() string { return "sessions" }

func NewSessionRepository(db *gorm.DB) (*SessionRepository, error) {
	if err := db.AutoMigrate(&sessionEntryModel{}); err != nil {
		return nil, err
	}
	return &SessionRepository{db: db}, nil
}

func (r *SessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry sessionEntryModel
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *SessionRepository) Set(ctx context.Context, key, value string) error {
	entry := sessionEntryModel{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&sessionEntryModel{}).Error
}
