package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/avolkov/warehouse/internal/domain"
	"github.com/avolkov/warehouse/internal/hash"
	"github.com/avolkov/warehouse/internal/models"
	"github.com/avolkov/warehouse/internal/repo"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Identity is what the auth gate hands to every service call: the resolved
// caller, never ambient session state.
type Identity struct {
	UserID     uint
	Role       string
	SellerName string
}

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

func (a *AuthService) Register(ctx context.Context, sellerName, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}
	if strings.TrimSpace(sellerName) == "" {
		sellerName = username
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		SellerName:   strings.TrimSpace(sellerName),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Role:         models.RoleSeller,
	}
	if err := a.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username already taken", domain.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (a *AuthService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	user, err := a.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return "", "", nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	access, err := a.signAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}
	refresh, err := a.issueRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	return access, refresh, user, nil
}

func (a *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}
	return a.Repo.RevokeRefreshToken(ctx, rawRefresh)
}

// ParseAccess validates an access token and extracts the caller identity.
func (a *AuthService) ParseAccess(raw string) (*Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return identityFromClaims(token.Claims)
}

// Rotate validates a refresh token against the store and issues a fresh
// access/refresh pair, revoking the old refresh token.
func (a *AuthService) Rotate(ctx context.Context, rawRefresh string) (string, string, *Identity, error) {
	token, err := jwt.Parse(rawRefresh, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.RefreshSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", nil, fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", nil, fmt.Errorf("%w: cannot parse claims", domain.ErrUnauthorized)
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return "", "", nil, fmt.Errorf("%w: not a refresh token", domain.ErrUnauthorized)
	}

	stored, err := a.Repo.GetRefreshToken(ctx, rawRefresh)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, fmt.Errorf("%w: refresh token not found", domain.ErrUnauthorized)
		}
		return "", "", nil, err
	}
	if stored.Revoked {
		return "", "", nil, fmt.Errorf("%w: refresh token revoked", domain.ErrUnauthorized)
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return "", "", nil, fmt.Errorf("%w: refresh token expired", domain.ErrUnauthorized)
	}

	identity, err := identityFromClaims(claims)
	if err != nil {
		return "", "", nil, err
	}

	user := &models.User{
		ID:         identity.UserID,
		Role:       identity.Role,
		SellerName: identity.SellerName,
	}
	newAccess, err := a.signAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}
	newRefresh, err := a.issueRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	if err := a.Repo.RevokeRefreshToken(ctx, rawRefresh); err != nil {
		return "", "", nil, err
	}
	return newAccess, newRefresh, identity, nil
}

func (a *AuthService) signAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":         user.ID,
		"role":        user.Role,
		"seller_name": user.SellerName,
		"exp":         time.Now().Add(AccessTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.JWTSecret)
}

func (a *AuthService) issueRefreshToken(ctx context.Context, user *models.User) (string, error) {
	exp := time.Now().Add(RefreshTokenTTL)
	claims := jwt.MapClaims{
		"sub":         user.ID,
		"role":        user.Role,
		"seller_name": user.SellerName,
		"exp":         exp.Unix(),
		"typ":         "refresh",
		"jti":         randomID(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := t.SignedString(a.RefreshSecret)
	if err != nil {
		return "", err
	}

	stored := &models.RefreshToken{
		Token:     raw,
		UserID:    user.ID,
		ExpiresAt: exp.Unix(),
	}
	if err := a.Repo.SaveRefreshToken(ctx, stored); err != nil {
		return "", err
	}
	return raw, nil
}

func identityFromClaims(claims jwt.Claims) (*Identity, error) {
	mc, ok := claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse claims", domain.ErrUnauthorized)
	}
	sub, ok := mc["sub"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrUnauthorized)
	}
	role, ok := mc["role"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing role", domain.ErrUnauthorized)
	}
	sellerName, _ := mc["seller_name"].(string)
	return &Identity{UserID: uint(sub), Role: role, SellerName: sellerName}, nil
}

func randomID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
