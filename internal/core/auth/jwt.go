package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UID   uint   `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"` // "user" or "admin"
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// Pair 登录签发的一对令牌
type Pair struct {
	Access  string
	Refresh string
}

type JWTer struct {
	Secret     []byte
	Issuer     string
	TTL        time.Duration // access
	RefreshTTL time.Duration
	// 记录尚未使用的 refresh jti；为空时 refresh 不可轮换
	Store RefreshStore
}

func (j *JWTer) sign(uid uint, email, role, typ string, ttl time.Duration) (string, string, error) {
	now := time.Now()
	jti := uuid.NewString()
	claims := Claims{
		UID:   uid,
		Email: email,
		Role:  role,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatUint(uint64(uid), 10),
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
	return s, jti, err
}

// Issue 只签 access token
func (j *JWTer) Issue(uid uint, email, role string) (string, error) {
	s, _, err := j.sign(uid, email, role, TypeAccess, j.TTL)
	return s, err
}

// IssuePair 签 access + refresh，refresh 的 jti 写入 Store
func (j *JWTer) IssuePair(ctx context.Context, uid uint, email, role string) (Pair, error) {
	access, err := j.Issue(uid, email, role)
	if err != nil {
		return Pair{}, fmt.Errorf("sign access: %w", err)
	}
	refresh, jti, err := j.sign(uid, email, role, TypeRefresh, j.RefreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("sign refresh: %w", err)
	}
	if j.Store != nil {
		if err := j.Store.Save(ctx, jti, uid, j.RefreshTTL); err != nil {
			return Pair{}, fmt.Errorf("store refresh: %w", err)
		}
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Rotate 消费一个 refresh token 并签发新的一对；重复使用会失败
func (j *JWTer) Rotate(ctx context.Context, refresh string) (Pair, error) {
	c, err := j.Parse(refresh)
	if err != nil {
		return Pair{}, err
	}
	if c.Type != TypeRefresh || j.Store == nil {
		return Pair{}, ErrInvalidToken
	}
	if err := j.Store.Consume(ctx, c.ID, c.UID); err != nil {
		return Pair{}, err
	}
	return j.IssuePair(ctx, c.UID, c.Email, c.Role)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, ErrInvalidToken
}
