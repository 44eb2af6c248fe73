package token

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// 签到 Token 编解码器
//
// Token 是一段可嵌入二维码的 HS256 JWT，绑定单个地点：
//   {typ: "LOCATION_CHECKIN", location_id, jti: 用量台账ID, iat, exp}
// 解码时不做 exp 校验（WithoutClaimsValidation），由上层按
// 签名 → 类型 → 过期 → 用量 的固定顺序判定，保证每种失败都是
// 独立的终态错误

// PayloadType 签到 Token 的固定类型标识
const PayloadType = "LOCATION_CHECKIN"

var (
	ErrMalformed = errors.New("token 结构或签名无效")
)

// Claims 签到 Token 声明
type Claims struct {
	Type       string `json:"typ"`
	LocationID string `json:"location_id"`
	jwtv5.RegisteredClaims
}

// Codec 签到 Token 编解码器
type Codec struct {
	secret []byte
}

// NewCodec 创建编解码器，secret 为服务端持有的签名密钥
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign 签发绑定地点的 Token 字符串
// ledgerID 为用量台账记录 ID（写入 jti），expiresAt 固化在 exp 声明中
func (c *Codec) Sign(locationID, ledgerID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		Type:       PayloadType,
		LocationID: locationID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        ledgerID,
			IssuedAt:  jwtv5.NewNumericDate(issuedAt),
			ExpiresAt: jwtv5.NewNumericDate(expiresAt),
			Issuer:    "shiftpass",
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode 校验签名与结构并返回声明
// 不校验 exp：过期判定属于上层验证序列的第 3 步
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrMalformed
		}
		return c.secret, nil
	}, jwtv5.WithoutClaimsValidation())

	if err != nil {
		return nil, ErrMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}

	return claims, nil
}
