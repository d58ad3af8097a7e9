package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Grzafnan/nest-server/internal/apperror"
	"github.com/Grzafnan/nest-server/internal/hash"
	"github.com/Grzafnan/nest-server/internal/logging"
	"github.com/Grzafnan/nest-server/internal/models"
	"github.com/Grzafnan/nest-server/internal/mykafka"
	"github.com/Grzafnan/nest-server/internal/repo"
)

type UserService struct {
	Repo     *repo.UserRepo
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UpdateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type ListMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, hash.ErrEmptyPassword) {
			return nil, apperror.BadRequest("Password is required and must be a string!")
		}
		l.Error("create_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	if _, err := s.Repo.FindByEmail(ctx, in.Email); err == nil {
		l.Warn("create_failed", "status", 409, "reason", "email_taken")
		return nil, apperror.New(http.StatusConflict, "User with this email already exists!")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("create_failed", "status", 500, "error", err)
		return nil, err
	}

	role := strings.ToUpper(in.Role)
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: pwHash,
		Role:     role,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		l.Error("create_failed", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, user)
	s.publish(ctx, user, "user_created")
	l.Info("create_successful", "user_id", user.ID)
	return user, nil
}

func (s *UserService) FindAll(ctx context.Context, p repo.ListParams) ([]models.PublicUser, ListMeta, error) {
	users, total, err := s.Repo.List(ctx, p)
	if err != nil {
		return nil, ListMeta{}, err
	}

	out := make([]models.PublicUser, len(users))
	for i := range users {
		out[i] = users[i].Public()
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return out, ListMeta{Total: total, Page: page, Limit: limit}, nil
}

func (s *UserService) FindOne(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("User with id %s not found!", id))
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.update")

	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("User with id %s not found to update!", id))
		}
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Role != "" {
		user.Role = strings.ToUpper(in.Role)
	}
	if in.Password != "" {
		pwHash, err := hash.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = pwHash
	}

	if err := s.Repo.Update(ctx, user); err != nil {
		l.Error("update_failed", "status", 500, "error", err)
		return nil, err
	}

	s.index(ctx, user)
	l.Info("update_successful", "user_id", user.ID)
	return user, nil
}

func (s *UserService) Remove(ctx context.Context, id uuid.UUID) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.remove")

	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("User with id %s not found to delete!", id))
		}
		return nil, err
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		l.Error("remove_failed", "status", 500, "error", err)
		return nil, err
	}

	s.removeIndex(ctx, user)
	s.publish(ctx, user, "user_deleted")
	l.Info("remove_successful", "user_id", user.ID)
	return user, nil
}

// index mirrors the user into Elasticsearch for /users/search. Best effort:
// search lag must not fail the write path.
func (s *UserService) index(ctx context.Context, u *models.User) {
	if s.ES == nil {
		return
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(u.Public()); err != nil {
		logging.FromContext(ctx).Error("es_index_error", "error", err)
		return
	}
	res, err := s.ES.Index(
		s.ESIndex,
		&buf,
		s.ES.Index.WithDocumentID(u.ID.String()),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		logging.FromContext(ctx).Error("es_index_error", "error", err)
		return
	}
	res.Body.Close()
}

func (s *UserService) removeIndex(ctx context.Context, u *models.User) {
	if s.ES == nil {
		return
	}
	res, err := s.ES.Delete(
		s.ESIndex,
		u.ID.String(),
		s.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		logging.FromContext(ctx).Error("es_delete_error", "error", err)
		return
	}
	res.Body.Close()
}

func (s *UserService) publish(ctx context.Context, u *models.User, eventType string) {
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
