package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	appAuth "github.com/tutorhub/selection/internal/app/auth"
	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/repositories"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
	"github.com/tutorhub/selection/internal/pkg/auth"
	"github.com/tutorhub/selection/internal/pkg/validation"
)

// AuthService handles registration and credential checks
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authServiceImpl struct {
	store      repositories.Store
	authz      *appAuth.AuthorizationService
	jwtService *auth.JWTService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(store repositories.Store, authz *appAuth.AuthorizationService, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		store:      store,
		authz:      authz,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

// validatePassword checks if password meets requirements
func validatePassword(password string) error {
	if len(password) < validation.PasswordMinLength {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed,
			fmt.Sprintf("password must be at least %d characters long", validation.PasswordMinLength))
	}

	hasLetter, hasDigit := false, false
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.NewCustomError(errors.Join(apperrors.ErrValidationFailed, apperrors.ErrInvalidPassword),
			"password must contain at least one letter and one digit")
	}
	return nil
}

// Register creates a candidate, lecturer or configured admin account
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := validation.Struct(req); err != nil {
		return nil, validationFailure(err)
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if s.authz.RoleFor(req.Email) == "" {
		return nil, apperrors.NewCustomError(errors.Join(apperrors.ErrValidationFailed, apperrors.ErrInvalidEmail),
			"email must belong to a student or staff domain")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Username:      req.Username,
		Email:         req.Email,
		Password:      hash,
		DateOfJoining: s.now().UTC(),
	}

	user.ID, err = s.store.CreateUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEmailTaken):
			return nil, apperrors.Conflict(apperrors.ErrEmailAlreadyExists)
		case errors.Is(err, repositories.ErrUsernameTaken):
			return nil, apperrors.NewConflictError("username already in use")
		}
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(s.authz.RoleFor(user.Email))).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("request body is required")
	}
	if err := validation.Struct(req); err != nil {
		return nil, validationFailure(err)
	}

	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Str("email", user.Email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, apperrors.ErrAccountDisabled
	}

	role := s.authz.RoleFor(user.Email)
	if role == "" {
		return nil, apperrors.NewForbiddenError("account has no role")
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user, role)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: user,
		Role: role,
	}, nil
}
