package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quickcart-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSnapshotRepository 购物车快照数据访问接口
type CartSnapshotRepository interface {
	Get(ctx context.Context, key string) (*models.CartSnapshot, error)
	Put(ctx context.Context, snapshot *models.CartSnapshot) (bool, error)
	SaveCart(ctx context.Context, key string, state *models.CartState) error
	LoadCart(ctx context.Context, key string) (*models.CartState, error)
	RemoveCart(ctx context.Context, key string, revision uint64) error
}

// GormCartSnapshotRepository GORM 实现
type GormCartSnapshotRepository struct {
	db *gorm.DB
}

// NewCartSnapshotRepository 创建购物车快照仓库
func NewCartSnapshotRepository(db *gorm.DB) *GormCartSnapshotRepository {
	return &GormCartSnapshotRepository{db: db}
}

// Get 读取快照，不存在返回 nil
func (r *GormCartSnapshotRepository) Get(ctx context.Context, key string) (*models.CartSnapshot, error) {
	var snapshot models.CartSnapshot
	if err := r.db.WithContext(ctx).Where("cart_key = ?", key).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// Put 按版本写入快照，旧版本写入被忽略，返回是否生效
func (r *GormCartSnapshotRepository) Put(ctx context.Context, snapshot *models.CartSnapshot) (bool, error) {
	if snapshot == nil || snapshot.Key == "" {
		return false, nil
	}
	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = time.Now()
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"revision", "payload", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "cart_snapshots.revision < excluded.revision"},
		}},
	}).Create(snapshot)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SaveCart 序列化并写入完整购物车状态
func (r *GormCartSnapshotRepository) SaveCart(ctx context.Context, key string, state *models.CartState) error {
	if state == nil {
		return nil
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart state: %w", err)
	}
	_, err = r.Put(ctx, &models.CartSnapshot{
		Key:      key,
		Revision: state.Revision,
		Payload:  string(payload),
	})
	return err
}

// LoadCart 读取购物车状态，不存在返回 nil
//
// 已清空的购物车返回只带版本号的空状态，重启后的写入从该版本之后继续。
func (r *GormCartSnapshotRepository) LoadCart(ctx context.Context, key string) (*models.CartState, error) {
	snapshot, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}
	if snapshot.Removed() {
		return &models.CartState{Revision: snapshot.Revision, Items: []models.CartItem{}}, nil
	}
	var state models.CartState
	if err := json.Unmarshal([]byte(snapshot.Payload), &state); err != nil {
		return nil, fmt.Errorf("unmarshal cart state: %w", err)
	}
	if state.Revision < snapshot.Revision {
		state.Revision = snapshot.Revision
	}
	return &state, nil
}

// RemoveCart 写入清空标记（保留版本号，防止迟到的旧快照复活）
func (r *GormCartSnapshotRepository) RemoveCart(ctx context.Context, key string, revision uint64) error {
	_, err := r.Put(ctx, &models.CartSnapshot{Key: key, Revision: revision})
	return err
}
