package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
	"renthub-backend/internal/security"
)

type authService struct {
	userRepo   repository.UserRepository
	walletRepo repository.WalletRepository
	tokens     security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, walletRepo repository.WalletRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		tokens:     tokens,
	}
}

func (s *authService) Signup(ctx context.Context, name, email, phone, password string, role domain.UserRole) (*domain.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, "", "", apperrors.Validation("name and email are required")
	}
	if len(password) < 8 {
		return nil, "", "", apperrors.Validation("password must be at least 8 characters")
	}
	if role == "" {
		role = domain.UserRoleMember
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", "", apperrors.Validation("email is already registered")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", "", apperrors.Internal("failed to check existing account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", apperrors.Internal("failed to hash password", err)
	}

	user := &domain.User{
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", apperrors.Internal("failed to create account", err)
	}

	// Every account gets a wallet immediately so payments never race
	// wallet creation.
	if err := s.walletRepo.CreateForUser(ctx, user.ID); err != nil {
		return nil, "", "", apperrors.Internal("failed to create wallet", err)
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	logger.Info("user signed up", "user_id", user.ID)
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", "", apperrors.Authentication("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", apperrors.Authentication("invalid email or password")
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", apperrors.Authentication("invalid refresh token")
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", apperrors.Authentication("not a refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", apperrors.Authentication("account no longer exists")
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", apperrors.Internal("failed to issue access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", apperrors.Internal("failed to issue refresh token", err)
	}
	return access, refresh, nil
}
