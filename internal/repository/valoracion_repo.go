package repository

import (
	"context"
	"strings"

	"tallerpro/internal/model"
	"tallerpro/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ValoracionQuery is the already-validated list filter.
type ValoracionQuery struct {
	Estado    string // canonical state or ""
	Matricula string // substring, case-insensitive
	Offset    int
	Limit     int
}

type ValoracionRepository interface {
	Create(ctx context.Context, v *model.Valoracion) error
	FindByID(ctx context.Context, sc scope.Scope, id uuid.UUID) (*model.Valoracion, error)
	List(ctx context.Context, sc scope.Scope, q ValoracionQuery) ([]model.Valoracion, int64, error)
	ListAll(ctx context.Context, sc scope.Scope) ([]model.Valoracion, error)
	Update(ctx context.Context, v *model.Valoracion) error
	// UpdateWorkflow writes only the columns workflow.Apply may change.
	UpdateWorkflow(ctx context.Context, v *model.Valoracion) error
}

type valoracionRepo struct{ db *gorm.DB }

func NewValoracionRepository(db *gorm.DB) ValoracionRepository { return &valoracionRepo{db: db} }

func (r *valoracionRepo) Create(ctx context.Context, v *model.Valoracion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (r *valoracionRepo) FindByID(ctx context.Context, sc scope.Scope, id uuid.UUID) (*model.Valoracion, error) {
	var v model.Valoracion
	q := sc.Aplicar(r.db.WithContext(ctx).Preload("Taller"), "taller_id")
	err := q.First(&v, "id = ?", id).Error
	return &v, err
}

func (r *valoracionRepo) List(ctx context.Context, sc scope.Scope, f ValoracionQuery) ([]model.Valoracion, int64, error) {
	var vs []model.Valoracion
	var total int64

	q := sc.Aplicar(r.db.WithContext(ctx).Model(&model.Valoracion{}), "taller_id")
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	if m := strings.TrimSpace(f.Matricula); m != "" {
		q = q.Where("matricula ILIKE ?", "%"+m+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Taller").
		Order("updated_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&vs).Error
	return vs, total, err
}

func (r *valoracionRepo) ListAll(ctx context.Context, sc scope.Scope) ([]model.Valoracion, error) {
	var vs []model.Valoracion
	q := sc.Aplicar(r.db.WithContext(ctx).Model(&model.Valoracion{}), "taller_id")
	err := q.Preload("Taller").Order("updated_at DESC").Find(&vs).Error
	return vs, err
}

func (r *valoracionRepo) Update(ctx context.Context, v *model.Valoracion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error
}

func (r *valoracionRepo) UpdateWorkflow(ctx context.Context, v *model.Valoracion) error {
	res := r.db.WithContext(ctx).Model(v).
		Select("estado", "valorador_id", "siniestro_total", "finalizada_at", "updated_at").
		Updates(v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
