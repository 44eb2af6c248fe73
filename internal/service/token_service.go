package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftpass/backend/config"
	"shiftpass/backend/internal/dto"
	"shiftpass/backend/internal/model"
	"shiftpass/backend/internal/repository"
	"shiftpass/backend/pkg/token"
)

// ── 签到 Token 模块业务错误 ──
//
// Verify 的失败按固定顺序判定，每种失败都是独立终态：
// 签名/结构 → 类型 → 过期 → 用量。失败路径一律不消费用量，
// 持有过期或耗尽 Token 的调用方需要在带外重新获取

var (
	ErrTokenSignatureInvalid = errors.New("token 签名或结构无效")
	ErrTokenTypeMismatch     = errors.New("token 类型不匹配")
	ErrTokenExpired          = errors.New("token 已过期")
	ErrTokenUsageExceeded    = errors.New("token 使用次数已达上限")
	ErrTokenRevoked          = errors.New("token 已被撤销")
	ErrTokenNotFound         = errors.New("token 不存在")
	ErrTokenMaxUsesRequired  = errors.New("bounded 模式必须指定 max_uses")
)

// TokenService 签到 Token 业务接口
// 发放与验证共享同一份用量台账；验证成功原子消费一次用量
type TokenService interface {
	Issue(ctx context.Context, locationID string, req *dto.IssueTokenRequest, callerID string) (*dto.IssueTokenResponse, error)
	// Verify 校验 Token 并消费一次用量，成功返回绑定的地点 ID
	Verify(ctx context.Context, tokenString string) (string, error)
	Revoke(ctx context.Context, tokenID string, callerID string) error
	ListByLocation(ctx context.Context, locationID string) ([]dto.TokenResponse, error)
}

type tokenService struct {
	cfg    *config.CheckInConfig
	repo   *repository.Repository
	codec  *token.Codec
	logger *zap.Logger
}

// NewTokenService 创建 TokenService 实例
func NewTokenService(cfg *config.CheckInConfig, repo *repository.Repository, codec *token.Codec, logger *zap.Logger) TokenService {
	return &tokenService{cfg: cfg, repo: repo, codec: codec, logger: logger}
}

// ────────────────────── Issue ──────────────────────

func (s *tokenService) Issue(ctx context.Context, locationID string, req *dto.IssueTokenRequest, callerID string) (*dto.IssueTokenResponse, error) {
	if _, err := s.repo.Location.GetByID(ctx, locationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询地点失败", zap.String("location_id", locationID), zap.Error(err))
		return nil, err
	}

	maxUses := 0
	switch req.UsageMode {
	case model.TokenModeSingleUse:
		maxUses = 1
	case model.TokenModeBounded:
		if req.MaxUses == nil {
			return nil, ErrTokenMaxUsesRequired
		}
		maxUses = *req.MaxUses
	case model.TokenModeUnlimited:
		// 无预算，max_uses 不参与判定
	}

	ttl := s.cfg.TokenDefaultTTL
	if req.TTLSeconds != nil {
		ttl = time.Duration(*req.TTLSeconds) * time.Second
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	// 过期时刻在签发时固化，只能撤销不能延期
	ledger := &model.CheckInToken{
		TokenID:    uuid.New().String(),
		LocationID: locationID,
		UsageMode:  req.UsageMode,
		MaxUses:    maxUses,
		Status:     model.TokenStatusActive,
		IssuedAt:   now,
		ExpiresAt:  expiresAt,
	}
	ledger.CreatedBy = &callerID

	if err := s.repo.CheckInToken.Create(ctx, ledger); err != nil {
		s.logger.Error("创建 Token 台账失败", zap.Error(err))
		return nil, err
	}

	tokenString, err := s.codec.Sign(locationID, ledger.TokenID, now, expiresAt)
	if err != nil {
		s.logger.Error("签发 Token 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("签到 Token 已发放",
		zap.String("token_id", ledger.TokenID),
		zap.String("location_id", locationID),
		zap.String("usage_mode", req.UsageMode),
	)

	return &dto.IssueTokenResponse{
		TokenID:   ledger.TokenID,
		Token:     tokenString,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}, nil
}

// ────────────────────── Verify ──────────────────────

func (s *tokenService) Verify(ctx context.Context, tokenString string) (string, error) {
	// 1. 签名/结构
	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		return "", ErrTokenSignatureInvalid
	}

	// 2. 类型
	if claims.Type != token.PayloadType {
		return "", ErrTokenTypeMismatch
	}

	// 3. 过期（编解码器不校验 exp，在此按当前时间判定）
	if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		// 惰性落终态，失败不影响判定结果
		if claims.ID != "" {
			if markErr := s.repo.CheckInToken.MarkExpired(ctx, claims.ID); markErr != nil {
				s.logger.Warn("标记 Token 过期失败", zap.String("token_id", claims.ID), zap.Error(markErr))
			}
		}
		return "", ErrTokenExpired
	}

	// 4. 用量台账
	ledger, err := s.repo.CheckInToken.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 签名合法但台账缺失，按伪造处理
			return "", ErrTokenSignatureInvalid
		}
		s.logger.Error("查询 Token 台账失败", zap.String("token_id", claims.ID), zap.Error(err))
		return "", err
	}

	switch ledger.Status {
	case model.TokenStatusRevoked:
		return "", ErrTokenRevoked
	case model.TokenStatusExpired:
		return "", ErrTokenExpired
	case model.TokenStatusConsumed, model.TokenStatusUsageExceeded:
		return "", ErrTokenUsageExceeded
	}

	if ledger.Exhausted() {
		return "", ErrTokenUsageExceeded
	}

	// 5. 原子消费：检查与自增在同一条守卫 UPDATE 中，
	//    两个并发验证同一张单次 Token 时只有一个成功
	consumed, err := s.repo.CheckInToken.ConsumeUse(ctx, ledger.TokenID)
	if err != nil {
		s.logger.Error("消费 Token 用量失败", zap.String("token_id", ledger.TokenID), zap.Error(err))
		return "", err
	}
	if !consumed {
		return "", ErrTokenUsageExceeded
	}

	return ledger.LocationID, nil
}

// ────────────────────── Revoke ──────────────────────

func (s *tokenService) Revoke(ctx context.Context, tokenID string, callerID string) error {
	if err := s.repo.CheckInToken.Revoke(ctx, tokenID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		s.logger.Error("撤销 Token 失败", zap.String("token_id", tokenID), zap.Error(err))
		return err
	}

	s.logger.Info("签到 Token 已撤销", zap.String("token_id", tokenID), zap.String("revoked_by", callerID))
	return nil
}

// ────────────────────── ListByLocation ──────────────────────

func (s *tokenService) ListByLocation(ctx context.Context, locationID string) ([]dto.TokenResponse, error) {
	tokens, err := s.repo.CheckInToken.ListByLocation(ctx, locationID)
	if err != nil {
		s.logger.Error("查询 Token 列表失败", zap.String("location_id", locationID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TokenResponse, 0, len(tokens))
	for i := range tokens {
		t := &tokens[i]
		result = append(result, dto.TokenResponse{
			TokenID:     t.TokenID,
			LocationID:  t.LocationID,
			UsageMode:   t.UsageMode,
			MaxUses:     t.MaxUses,
			CurrentUses: t.CurrentUses,
			Status:      t.Status,
			IssuedAt:    t.IssuedAt.Format(time.RFC3339),
			ExpiresAt:   t.ExpiresAt.Format(time.RFC3339),
		})
	}
	return result, nil
}
