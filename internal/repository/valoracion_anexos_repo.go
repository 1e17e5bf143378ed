package repository

import (
	"context"
	"errors"

	"tallerpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Comments, photos and the report hang off a valuation. Callers load the
// valuation through its scope first; these repositories do not re-check it.

type ComentarioRepository interface {
	Create(ctx context.Context, c *model.ComentarioValoracion) error
	ListByValoracion(ctx context.Context, valoracionID uuid.UUID) ([]model.ComentarioValoracion, error)
}

type comentarioRepo struct{ db *gorm.DB }

func NewComentarioRepository(db *gorm.DB) ComentarioRepository { return &comentarioRepo{db: db} }

func (r *comentarioRepo) Create(ctx context.Context, c *model.ComentarioValoracion) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *comentarioRepo) ListByValoracion(ctx context.Context, valoracionID uuid.UUID) ([]model.ComentarioValoracion, error) {
	var cs []model.ComentarioValoracion
	err := r.db.WithContext(ctx).
		Where("valoracion_id = ?", valoracionID).
		Order("created_at").
		Find(&cs).Error
	return cs, err
}

type FotoRepository interface {
	Create(ctx context.Context, f *model.FotoValoracion) error
	ListByValoracion(ctx context.Context, valoracionID uuid.UUID) ([]model.FotoValoracion, error)
	FindByID(ctx context.Context, valoracionID, id uuid.UUID) (*model.FotoValoracion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type fotoRepo struct{ db *gorm.DB }

func NewFotoRepository(db *gorm.DB) FotoRepository { return &fotoRepo{db: db} }

func (r *fotoRepo) Create(ctx context.Context, f *model.FotoValoracion) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fotoRepo) ListByValoracion(ctx context.Context, valoracionID uuid.UUID) ([]model.FotoValoracion, error) {
	var fs []model.FotoValoracion
	err := r.db.WithContext(ctx).
		Where("valoracion_id = ?", valoracionID).
		Order("created_at").
		Find(&fs).Error
	return fs, err
}

func (r *fotoRepo) FindByID(ctx context.Context, valoracionID, id uuid.UUID) (*model.FotoValoracion, error) {
	var f model.FotoValoracion
	err := r.db.WithContext(ctx).
		Where("valoracion_id = ?", valoracionID).
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *fotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FotoValoracion{}, "id = ?", id).Error
}

type InformeRepository interface {
	// FindByValoracion returns (nil, nil) when the valuation has no report yet.
	FindByValoracion(ctx context.Context, valoracionID uuid.UUID) (*model.InformeValoracion, error)
	Upsert(ctx context.Context, i *model.InformeValoracion) error
}

type informeRepo struct{ db *gorm.DB }

func NewInformeRepository(db *gorm.DB) InformeRepository { return &informeRepo{db: db} }

func (r *informeRepo) FindByValoracion(ctx context.Context, valoracionID uuid.UUID) (*model.InformeValoracion, error) {
	var i model.InformeValoracion
	err := r.db.WithContext(ctx).First(&i, "valoracion_id = ?", valoracionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *informeRepo) Upsert(ctx context.Context, i *model.InformeValoracion) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "valoracion_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"cuerpo_html", "danos", "observaciones", "updated_at"}),
	}).Create(i).Error
}
