package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mesafacil/reservation-api/internal/authz"
	"github.com/mesafacil/reservation-api/internal/models"
)

type RoleGormRepository struct {
	db *gorm.DB
}

func NewRoleGormRepository(db *gorm.DB) *RoleGormRepository {
	return &RoleGormRepository{db: db}
}

// FindActiveRoleByName devolve (nil, nil) quando não há Role dinâmico
// ativo com esse nome; o avaliador então cai no catálogo estático.
func (r *RoleGormRepository) FindActiveRoleByName(
	ctx context.Context,
	name string,
) (*models.Role, error) {

	var role models.Role
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&role).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &role, nil
}

// Compile-time check
var _ authz.RoleSource = (*RoleGormRepository)(nil)
