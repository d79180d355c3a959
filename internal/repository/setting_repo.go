package repository

import (
	"context"

	"gorm.io/gorm"

	"aligate/internal/models"
)

// SettingRepository handles the single-row gateway configuration table.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// DB returns the underlying gorm.DB instance.
func (r *SettingRepository) DB() *gorm.DB {
	return r.db
}

// GetGatewaySettings returns the singleton gateway settings row.
func (r *SettingRepository) GetGatewaySettings(ctx context.Context) (*models.GatewaySetting, error) {
	var setting models.GatewaySetting
	if err := r.db.WithContext(ctx).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpdateGatewaySettings updates fields on the singleton settings row.
func (r *SettingRepository) UpdateGatewaySettings(ctx context.Context, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.GatewaySetting{}).
		Where("1=1").
		Updates(updates).Error
}
