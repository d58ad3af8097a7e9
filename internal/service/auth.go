package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Grzafnan/nest-server/internal/apperror"
	"github.com/Grzafnan/nest-server/internal/hash"
	"github.com/Grzafnan/nest-server/internal/logging"
	"github.com/Grzafnan/nest-server/internal/models"
	"github.com/Grzafnan/nest-server/internal/mykafka"
	"github.com/Grzafnan/nest-server/internal/tokens"
)

// UserStore is the lookup collaborator the auth flows need. *repo.UserRepo
// satisfies it; tests plug in their own.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthService struct {
	Users UserStore

	JWTSecret        []byte
	JWTRefreshSecret []byte
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	Producer *mykafka.Producer
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	RefreshExp   time.Time
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 404, "reason", "user_not_found")
			return nil, apperror.NotFound("User not found!")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.Password, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid_password")
		return nil, apperror.Unauthorized("Invalid password")
	}

	accessToken, err := tokens.CreateAccessToken(user, s.JWTSecret, s.AccessTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(s.RefreshTTL)
	refreshToken, err := tokens.CreateRefreshToken(user, s.JWTRefreshSecret, s.RefreshTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return nil, err
	}

	s.publish(ctx, user, "user_logged_in")
	l.Info("login_successful", "user_id", user.ID)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token bound to
// the current user record. Malformed, expired and subject-less tokens all
// collapse into the same 403 so callers learn nothing about which check
// failed. The refresh token itself is never rotated.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if rawToken == "" {
		l.Warn("refresh_failed", "status", 403, "reason", "missing_token")
		return "", apperror.Forbidden("Invalid Refresh Token!")
	}

	claims, err := tokens.RefreshClaimsFromToken(rawToken, s.JWTRefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 403, "reason", "invalid_token")
		return "", apperror.Forbidden("Invalid Refresh Token!")
	}

	sub := claims.UserID
	if sub == "" {
		sub = claims.Subject
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		l.Warn("refresh_failed", "status", 403, "reason", "invalid_subject")
		return "", apperror.Forbidden("Invalid Refresh Token!")
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 404, "reason", "user_gone")
			return "", apperror.NotFound("User doesn't exist!")
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return "", err
	}

	accessToken, err := tokens.CreateAccessToken(user, s.JWTSecret, s.AccessTTL)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot create token", "error", err)
		return "", err
	}

	l.Info("refresh_successful", "user_id", user.ID)
	return accessToken, nil
}

func (s *AuthService) publish(ctx context.Context, u *models.User, eventType string) {
	if s.Producer == nil {
		return
	}
	event := map[string]interface{}{
		"type":   eventType,
		"userId": u.ID,
		"email":  u.Email,
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(u.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "error", err)
	}
}
