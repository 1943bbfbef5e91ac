// internal/services/auth_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/repository"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

type AuthService struct {
	stores     *repository.Stores
	logger     *logrus.Logger
	tokenTTL   int
	sessionTTL time.Duration
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=64"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required"`
}

type AuthResponse struct {
	Username    string          `json:"username"`
	Role        models.UserRole `json:"role"`
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
}

func NewAuthService(stores *repository.Stores, logger *logrus.Logger, tokenTTLHours int) *AuthService {
	if tokenTTLHours <= 0 {
		tokenTTLHours = 8
	}
	return &AuthService{
		stores:     stores,
		logger:     logger,
		tokenTTL:   tokenTTLHours,
		sessionTTL: time.Duration(tokenTTLHours) * time.Hour,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	switch req.Role {
	case models.UserRoleReadOnly, models.UserRoleReadWrite, models.UserRoleAdmin:
	default:
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown role %q", req.Role))
	}

	existing, err := s.stores.Users.GetByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, &apperrors.ConflictError{
			Reason: fmt.Sprintf("username %q is already taken", req.Username),
		}
	}

	user := &models.User{
		Username: req.Username,
		Role:     req.Role,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.stores.Users.Insert(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("username", user.Username).Info("user registered")
	return user, nil
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.stores.Users.GetByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NewValidationError("credentials", "invalid username or password")
	}
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.NewValidationError("credentials", "invalid username or password")
	}

	session := &models.Session{
		SessionID:     uuid.New().String(),
		Username:      user.Username,
		Authenticated: true,
		Role:          user.Role,
		ValidUntil:    time.Now().Add(s.sessionTTL),
	}
	if err := s.stores.Users.InsertSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := utils.GenerateJWT(user.Username, string(user.Role), session.SessionID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{
		Username:    user.Username,
		Role:        user.Role,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.tokenTTL * 3600,
	}, nil
}

// ValidateSession resolves a session id back to its record, rejecting
// expired ones.
func (s *AuthService) ValidateSession(sessionID string) (*models.Session, error) {
	session, err := s.stores.Users.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if session == nil {
		return nil, apperrors.NewNotFoundError("session", sessionID)
	}
	if time.Now().After(session.ValidUntil) {
		_ = s.stores.Users.DeleteSession(sessionID)
		return nil, apperrors.NewNotFoundError("session", sessionID)
	}
	return session, nil
}

func (s *AuthService) Logout(sessionID string) error {
	if err := s.stores.Users.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *AuthService) ChangePassword(username, oldPassword, newPassword string) error {
	user, err := s.stores.Users.GetByUsername(username)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return apperrors.NewNotFoundError("user", username)
	}
	if err := user.CheckPassword(oldPassword); err != nil {
		return apperrors.NewValidationError("old_password", "does not match")
	}
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("new_password", "must be at least 8 characters")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.stores.Users.UpdatePassword(username, user.PasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *AuthService) DeleteUser(username string) error {
	user, err := s.stores.Users.GetByUsername(username)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return apperrors.NewNotFoundError("user", username)
	}
	if err := s.stores.Users.Delete(username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
