package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const defaultUserJWTExpireHours = 24

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	hours := s.cfg.UserJWT.ExpireHours
	if hours <= 0 {
		hours = defaultUserJWTExpireHours
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Register 用户注册，成功后直接签发登录态
func (s *UserAuthService) Register(input RegisterInput) (*models.User, string, time.Time, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, "", time.Time{}, newValidationError("name", "name is required")
	}
	if email == "" {
		return nil, "", time.Time{}, newValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", time.Time{}, newValidationError("email", "email is invalid")
	}
	if input.Password == "" {
		return nil, "", time.Time{}, newValidationError("password", "password is required")
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		return nil, "", time.Time{}, newValidationError("confirm_password", "passwords do not match")
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	count, err := s.userRepo.CountByEmailExcept(email, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if count > 0 {
		return nil, "", time.Time{}, ErrEmailExists
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	logger.Infow("user_registered", "user_id", user.ID)
	return user, token, expiresAt, nil
}

// Login 用户登录，封禁用户拒绝登录
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if user.IsBanned {
		return nil, "", time.Time{}, ErrUserBanned
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, token, expiresAt, nil
}

// GetProfile 获取当前用户资料
func (s *UserAuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ResolveAuthState 读取鉴权快照，缓存未命中时回源数据库
func (s *UserAuthService) ResolveAuthState(userID uint) (*cache.UserAuthState, error) {
	ctx := context.Background()
	state, hit, err := cache.GetUserAuthState(ctx, userID)
	if err != nil {
		logger.Warnw("user_auth_state_cache_read_failed", "user_id", userID, "error", err)
	}
	if hit && state != nil {
		return state, nil
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	state = cache.BuildUserAuthState(user)
	_ = cache.SetUserAuthState(ctx, state)
	return state, nil
}
