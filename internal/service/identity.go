package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"realestate3d/internal/core/auth"
	"realestate3d/internal/core/storage"
	"realestate3d/internal/domain"
	"realestate3d/internal/repo"
	"realestate3d/pkg/utils"
)

// Upload 客户端上传的文件
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type SignupInput struct {
	Email         string
	Password      string
	ContactNumber string
	ProfilePic    *Upload
}

type LoginResult struct {
	User    AccountView
	Access  string
	Refresh string
}

// Identity 账号与资料
type Identity struct {
	users  UserStore
	tokens TokenIssuer
	assets storage.AssetStore
	res    resolver
	log    *zap.Logger
}

func NewIdentity(users UserStore, tokens TokenIssuer, assets storage.AssetStore, log *zap.Logger) *Identity {
	return &Identity{users: users, tokens: tokens, assets: assets, res: resolver{assets: assets}, log: log}
}

func (s *Identity) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.users.ExistsByEmail(ctx, email)
}

// CreateAccount 建用户 + 资料（同一事务）；头像先落存储，事务失败时删除
func (s *Identity) CreateAccount(ctx context.Context, origin string, in SignupInput) (AccountView, error) {
	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return AccountView{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return AccountView{}, errEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return AccountView{}, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Username: in.Email, Email: in.Email, PasswordHash: hash, IsActive: true}
	p := &domain.UserProfile{}
	if c := strings.TrimSpace(in.ContactNumber); c != "" {
		p.ContactNumber = &c
	}

	if in.ProfilePic != nil {
		key, err := s.assets.Save(ctx, storage.DirProfilePics, in.ProfilePic.Filename, in.ProfilePic.Body, in.ProfilePic.Size, in.ProfilePic.ContentType)
		if err != nil {
			return AccountView{}, fmt.Errorf("store profile picture: %w", err)
		}
		p.ProfilePic = &key
	}

	if err := s.users.CreateWithProfile(ctx, u, p); err != nil {
		if p.ProfilePic != nil {
			if derr := s.assets.Delete(ctx, *p.ProfilePic); derr != nil {
				s.log.Warn("orphaned profile picture", zap.String("key", *p.ProfilePic), zap.Error(derr))
			}
		}
		if repo.IsDupKey(err) {
			return AccountView{}, errEmailTaken
		}
		return AccountView{}, fmt.Errorf("create account: %w", err)
	}
	s.log.Info("account created", zap.Uint("user_id", u.ID))
	return s.res.account(ctx, origin, *u, p)
}

// Authenticate 校验密码，补建资料，签发 access/refresh
func (s *Identity) Authenticate(ctx context.Context, origin, email, password string) (LoginResult, error) {
	u, err := lookupUser(ctx, s.users, email)
	if err != nil {
		return LoginResult{}, err
	}
	if !u.IsActive || !utils.CheckPassword(password, u.PasswordHash) {
		return LoginResult{}, errBadCredentials
	}

	p, err := s.users.EnsureProfile(ctx, u.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("ensure profile: %w", err)
	}
	pair, err := s.tokens.IssuePair(ctx, u.ID, u.Email, u.Role())
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue tokens: %w", err)
	}
	view, err := s.res.account(ctx, origin, *u, p)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: view, Access: pair.Access, Refresh: pair.Refresh}, nil
}

func (s *Identity) Refresh(ctx context.Context, refresh string) (string, string, error) {
	pair, err := s.tokens.Rotate(ctx, refresh)
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrRefreshUsed) {
		return "", "", &Error{Kind: ErrInvalidCredentials, Msg: "Token is invalid or expired"}
	}
	if err != nil {
		return "", "", fmt.Errorf("rotate refresh: %w", err)
	}
	return pair.Access, pair.Refresh, nil
}

// EnsureStaff 确保后台账号存在且有 staff 权限；已存在时会重置密码
func (s *Identity) EnsureStaff(ctx context.Context, email, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find staff: %w", err)
	}
	if u == nil {
		u = &domain.User{Username: email, Email: email, PasswordHash: hash, IsActive: true, IsStaff: true}
		if err := s.users.CreateWithProfile(ctx, u, &domain.UserProfile{}); err != nil {
			return fmt.Errorf("create staff: %w", err)
		}
		return nil
	}
	u.PasswordHash, u.IsStaff, u.IsActive = hash, true, true
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}

type UserPage struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

func (s *Identity) ListUsers(ctx context.Context, offset, limit int, q string) (UserPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset = max(0, offset)
	users, total, err := s.users.List(ctx, offset, limit, strings.TrimSpace(q))
	if err != nil {
		return UserPage{}, fmt.Errorf("list users: %w", err)
	}
	return UserPage{Total: total, Items: users}, nil
}
