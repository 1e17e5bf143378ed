package repository

import (
	"context"

	"tallerpro/internal/model"
	"tallerpro/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TallerRepository interface {
	// IDsPorRed has the scope.TalleresDeRed signature.
	IDsPorRed(ctx context.Context, redID uuid.UUID) ([]uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Taller, error)
	List(ctx context.Context, sc scope.Scope) ([]model.Taller, error)
}

type tallerRepo struct{ db *gorm.DB }

func NewTallerRepository(db *gorm.DB) TallerRepository { return &tallerRepo{db: db} }

func (r *tallerRepo) IDsPorRed(ctx context.Context, redID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Taller{}).
		Where("red_id = ? AND activo = true", redID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *tallerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Taller, error) {
	var t model.Taller
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tallerRepo) List(ctx context.Context, sc scope.Scope) ([]model.Taller, error) {
	var talleres []model.Taller
	q := sc.Aplicar(r.db.WithContext(ctx).Model(&model.Taller{}), "id")
	err := q.Where("activo = true").Order("nombre").Find(&talleres).Error
	return talleres, err
}
