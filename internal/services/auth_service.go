package services

import (
	"context"
	"errors"
	"time"

	"workhub_backend/internal/auth"
	"workhub_backend/internal/email"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
	tokens    *auth.TokenManager
	mailer    email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	tokens *auth.TokenManager,
	mailer email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		mailer:    mailer,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequest(apperrors.DomainAuth, err.Error())
	}
	// Админов через публичную регистрацию не создаем
	role := models.UserRole(req.Role)
	if role == models.UserRoleAdmin {
		return nil, apperrors.NewBadRequest(apperrors.DomainAuth, "invalid role")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainAuth, "failed to hash password", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         role,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.NewBadRequest(apperrors.DomainAuth, "email is already registered")
		}
		return nil, apperrors.NewInternal(apperrors.DomainAuth, "failed to create user", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendTemplate(user.Email, email.TemplateWelcome, email.TemplateData{"Name": user.Name}); err != nil {
			logger.CtxWarn(ctx, "failed to send welcome email", "error", err.Error())
		}
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "role", string(user.Role))
	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorized(apperrors.DomainAuth, "invalid credentials")
		}
		return nil, apperrors.NewInternal(apperrors.DomainAuth, "failed to look up user", err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorized(apperrors.DomainAuth, "invalid credentials")
	}
	if user.Status == models.UserStatusBanned || user.Status == models.UserStatusSuspended {
		return nil, apperrors.NewForbidden(apperrors.DomainAuth, "account is not active")
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.tokenRepo.FindByToken(refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.NewUnauthorized(apperrors.DomainAuth, "invalid refresh token")
		}
		return nil, apperrors.NewInternal(apperrors.DomainAuth, "failed to look up refresh token", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokenRepo.DeleteByToken(refreshToken)
		return nil, apperrors.NewUnauthorized(apperrors.DomainAuth, "refresh token expired")
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorized(apperrors.DomainAuth, "invalid refresh token")
	}

	// Ротация: старый refresh токен гасится, выпускается новый
	if err := s.tokenRepo.DeleteByToken(refreshToken); err != nil {
		logger.CtxWarn(ctx, "failed to rotate refresh token", "error", err.Error())
	}
	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenRepo.DeleteByToken(refreshToken); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			// Уже разлогинен — не ошибка
			return nil
		}
		return apperrors.NewInternal(apperrors.DomainAuth, "failed to delete refresh token", err)
	}
	return nil
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	access, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainAuth, "failed to issue access token", err)
	}

	refresh, expiresAt := s.tokens.IssueRefreshToken()
	if err := s.tokenRepo.Save(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainAuth, "failed to save refresh token", err)
	}

	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         dto.FromUser(user),
	}, nil
}
