package services

import (
	"context"
	"errors"
	"fmt"

	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

type UserService interface {
	Get(ctx context.Context, id uint) (*dto.UserResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) Get(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainUser, fmt.Sprintf("no user found with id %d", id))
		}
		return nil, apperrors.NewInternal(apperrors.DomainUser, "failed to fetch user", err)
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainUser, fmt.Sprintf("no user found with id %d", id))
		}
		return nil, apperrors.NewInternal(apperrors.DomainUser, "failed to fetch user", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainUser, "failed to update user", err)
	}

	resp := dto.FromUser(user)
	return &resp, nil
}
