package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"github.com/ktosdespidoras/roblox/internal/core/utils"
	"go.uber.org/zap"
)

// SessionService registers and logs in users against the remote user table
// and keeps the session slot of the local cache.
type SessionService struct {
	remote   port.RemoteStore
	sessions port.SessionCache
	tokens   port.TokenService
	logger   *zap.Logger
}

func NewSessionService(remote port.RemoteStore, sessions port.SessionCache,
	tokens port.TokenService, logger *zap.Logger) (*SessionService, error) {
	return &SessionService{
		remote:   remote,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}, nil
}

func (s *SessionService) RegisterUser(ctx context.Context, username string, password string) (string, error) {
	username = strings.TrimSpace(username)
	if err := checkCredentials(username, password); err != nil {
		return "", err
	}

	exUser, err := s.remote.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		s.logger.Error("Get user", zap.Error(err))
		return "", domain.ErrInternal
	}
	if exUser != nil {
		return "", domain.ErrConflictingData
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		s.logger.Error("Hash password", zap.Error(err))
		return "", domain.ErrInternal
	}

	user, err := s.remote.CreateUser(ctx, &domain.User{Username: username, Password: hashed})
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return "", domain.ErrConflictingData
		}
		s.logger.Error("Create user", zap.Error(err))
		return "", domain.ErrInternal
	}

	return s.open(ctx, user)
}

func (s *SessionService) LoginUser(ctx context.Context, username string, password string) (string, error) {
	username = strings.TrimSpace(username)
	if err := checkCredentials(username, password); err != nil {
		return "", err
	}

	user, err := s.remote.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		s.logger.Error("Get user", zap.Error(err))
		return "", domain.ErrInternal
	}

	err = utils.ComparePassword(password, user.Password)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.open(ctx, user)
}

func (s *SessionService) LogoutUser(ctx context.Context, username string) error {
	err := s.sessions.ClearSession(ctx, username)
	if err != nil {
		s.logger.Error("Clear session", zap.Error(err))
		return domain.ErrInternal
	}
	return nil
}

// IsLoggedIn reports whether the session slot still holds a login for
// username. Tokens of logged-out users are refused by this check.
func (s *SessionService) IsLoggedIn(ctx context.Context, username string) bool {
	session, err := s.sessions.LoadSession(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrDataNotFound) {
			s.logger.Error("Load session", zap.Error(err))
		}
		return false
	}
	return session.IsLoggedIn
}

func (s *SessionService) open(ctx context.Context, user *domain.User) (string, error) {
	err := s.sessions.SaveSession(ctx, &domain.Session{Username: user.Username, IsLoggedIn: true})
	if err != nil {
		s.logger.Error("Save session", zap.Error(err))
		return "", domain.ErrInternal
	}

	token, err := s.tokens.CreateToken(user)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return "", domain.ErrTokenCreation
	}

	return token, nil
}

func checkCredentials(username, password string) error {
	if username == "" {
		return &domain.ValidationError{Field: "username"}
	}
	if password == "" {
		return &domain.ValidationError{Field: "password"}
	}
	return nil
}
