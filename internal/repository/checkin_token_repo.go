package repository

import (
	"context"

	"gorm.io/gorm"

	"shiftpass/backend/internal/model"
)

// CheckInTokenRepository 签到 Token 用量台账数据访问接口
type CheckInTokenRepository interface {
	Create(ctx context.Context, token *model.CheckInToken) error
	GetByID(ctx context.Context, id string) (*model.CheckInToken, error)
	// ConsumeUse 原子消费一次用量：检查与自增在同一条带守卫的 UPDATE 中完成，
	// 单次/有限模式下并发验证不可能超出 max_uses。
	// 返回 false 表示预算已耗尽或 Token 非活跃（由调用方回查区分原因）
	ConsumeUse(ctx context.Context, id string) (bool, error)
	// MarkExpired 将自然过期的活跃 Token 落为终态（惰性，验证路径触发）
	MarkExpired(ctx context.Context, id string) error
	Revoke(ctx context.Context, id string, revokedBy string) error
	ListByLocation(ctx context.Context, locationID string) ([]model.CheckInToken, error)
}

type checkInTokenRepo struct {
	db *gorm.DB
}

// NewCheckInTokenRepo 创建 CheckInTokenRepository 实例
func NewCheckInTokenRepo(db *gorm.DB) CheckInTokenRepository {
	return &checkInTokenRepo{db: db}
}

func (r *checkInTokenRepo) Create(ctx context.Context, token *model.CheckInToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *checkInTokenRepo) GetByID(ctx context.Context, id string) (*model.CheckInToken, error) {
	var token model.CheckInToken
	err := r.db.WithContext(ctx).
		Where("token_id = ?", id).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *checkInTokenRepo) ConsumeUse(ctx context.Context, id string) (bool, error) {
	// WHERE current_uses < max_uses 守卫保证：两个并发验证同一张单次 Token
	// 时只有一条 UPDATE 生效。耗尽时顺带落终态（single_use → consumed，
	// bounded → usage_exceeded）
	res := r.db.WithContext(ctx).Exec(`
		UPDATE check_in_tokens
		SET current_uses = current_uses + 1,
		    status = CASE
		        WHEN usage_mode = 'single_use' AND current_uses + 1 >= max_uses THEN 'consumed'
		        WHEN usage_mode = 'bounded'    AND current_uses + 1 >= max_uses THEN 'usage_exceeded'
		        ELSE status
		    END,
		    updated_at = NOW()
		WHERE token_id = ?
		  AND status IN ('active')
		  AND (usage_mode = 'unlimited' OR current_uses < max_uses)`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *checkInTokenRepo) MarkExpired(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.CheckInToken{}).
		Where("token_id = ? AND status = ?", id, model.TokenStatusActive).
		Update("status", model.TokenStatusExpired).Error
}

func (r *checkInTokenRepo) Revoke(ctx context.Context, id string, revokedBy string) error {
	res := r.db.WithContext(ctx).
		Model(&model.CheckInToken{}).
		Where("token_id = ? AND status = ?", id, model.TokenStatusActive).
		Updates(map[string]interface{}{
			"status":     model.TokenStatusRevoked,
			"updated_by": revokedBy,
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *checkInTokenRepo) ListByLocation(ctx context.Context, locationID string) ([]model.CheckInToken, error) {
	var tokens []model.CheckInToken
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("issued_at DESC").
		Find(&tokens).Error
	return tokens, err
}
