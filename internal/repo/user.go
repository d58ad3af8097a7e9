package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Grzafnan/nest-server/internal/models"
	"github.com/Grzafnan/nest-server/internal/util"
)

type UserRepo struct {
	DB *gorm.DB
}

// ListParams carries the query-string filters of GET /users.
type ListParams struct {
	SearchTerm string
	Name       string
	Email      string
	Role       string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// sortColumns whitelists the sortable fields, query param name to column.
var sortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) Update(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

func isValidRole(s string) bool {
	switch strings.ToUpper(s) {
	case models.RoleSuperAdmin, models.RoleAdmin, models.RoleModerator, models.RoleUser:
		return true
	}
	return false
}

func (r *UserRepo) List(ctx context.Context, p ListParams) ([]models.User, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.User{})

	if p.SearchTerm != "" {
		pattern := "%" + strings.ToLower(p.SearchTerm) + "%"
		cond := r.DB.Where("LOWER(name) LIKE ?", pattern).
			Or("LOWER(email) LIKE ?", pattern)
		if isValidRole(p.SearchTerm) {
			cond = cond.Or("role = ?", strings.ToUpper(p.SearchTerm))
		}
		q = q.Where(cond)
	}
	if p.Name != "" {
		q = q.Where("name = ?", p.Name)
	}
	if p.Email != "" {
		q = q.Where("email = ?", p.Email)
	}
	if p.Role != "" {
		q = q.Where("role = ?", strings.ToUpper(p.Role))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if col, ok := sortColumns[p.SortBy]; ok {
		dir := "ASC"
		if strings.EqualFold(p.SortOrder, "desc") {
			dir = "DESC"
		}
		order = col + " " + dir
	}

	offset, limit := util.Calculate(p.Page, p.Limit)

	var users []models.User
	if err := q.Order(order).Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
