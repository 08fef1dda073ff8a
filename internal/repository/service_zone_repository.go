package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/quickcart-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServiceZoneRepository 配送区域数据访问接口
type ServiceZoneRepository interface {
	GetByPincode(pincode string) (*models.ServiceZone, error)
	Upsert(zone *models.ServiceZone) error
	List() ([]models.ServiceZone, error)
	WithContext(ctx context.Context) ServiceZoneRepository
}

// GormServiceZoneRepository GORM 实现
type GormServiceZoneRepository struct {
	db *gorm.DB
}

// NewServiceZoneRepository 创建配送区域仓库
func NewServiceZoneRepository(db *gorm.DB) *GormServiceZoneRepository {
	return &GormServiceZoneRepository{db: db}
}

// WithContext 绑定请求上下文
func (r *GormServiceZoneRepository) WithContext(ctx context.Context) ServiceZoneRepository {
	if ctx == nil {
		return r
	}
	return &GormServiceZoneRepository{db: r.db.WithContext(ctx)}
}

// GetByPincode 根据邮编获取配送区域
func (r *GormServiceZoneRepository) GetByPincode(pincode string) (*models.ServiceZone, error) {
	pincode = strings.TrimSpace(pincode)
	if pincode == "" {
		return nil, nil
	}
	var zone models.ServiceZone
	if err := r.db.Where("pincode = ?", pincode).First(&zone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

// Upsert 新增或覆盖配送区域
func (r *GormServiceZoneRepository) Upsert(zone *models.ServiceZone) error {
	if zone == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pincode"}},
		DoUpdates: clause.AssignmentColumns([]string{"city", "serviceable", "delivery_time", "updated_at"}),
	}).Create(zone).Error
}

// List 全部配送区域
func (r *GormServiceZoneRepository) List() ([]models.ServiceZone, error) {
	var zones []models.ServiceZone
	if err := r.db.Order("pincode ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}
