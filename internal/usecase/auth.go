package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type AuthUseCase struct {
	Users  entity.UserRepositoryInterface
	Hasher PasswordHasher
	Tokens TokenIssuer
}

func NewAuthUseCase(users entity.UserRepositoryInterface, hasher PasswordHasher, tokens TokenIssuer) *AuthUseCase {
	return &AuthUseCase{Users: users, Hasher: hasher, Tokens: tokens}
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	if err := validationFailed(ValidateRegisterInput(input)); err != nil {
		return nil, err
	}

	hash, err := uc.Hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := entity.NewUser(input.Name, input.Email, hash)
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	if err := validationFailed(ValidateLoginInput(input)); err != nil {
		return nil, err
	}

	user, err := uc.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !uc.Hasher.Check(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return uc.issue(user)
}

func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	return user, nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*AuthOutput, error) {
	token, err := uc.Tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthOutput{Token: token, User: user}, nil
}
