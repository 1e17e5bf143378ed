package repository

import (
	"context"
	"time"

	"tallerpro/internal/model"
	"tallerpro/internal/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FacturaQuery struct {
	ClienteID *uuid.UUID
	Pagada    *bool
	Desde     *time.Time
	Hasta     *time.Time // exclusive
	Offset    int
	Limit     int
}

// FacturaRepository writes header and lines in separate statements; the
// service deletes the header when the lines cannot be written.
type FacturaRepository interface {
	Create(ctx context.Context, f *model.Factura) error
	FindByID(ctx context.Context, sc scope.Scope, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, sc scope.Scope, q FacturaQuery) ([]model.Factura, int64, error)
	Update(ctx context.Context, f *model.Factura) error
	ReplaceLineas(ctx context.Context, facturaID uuid.UUID, ls []model.LineaFactura) error
	SetPagada(ctx context.Context, sc scope.Scope, id uuid.UUID, pagada bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	// UltimoNumero returns the highest Numero of the workshop starting with
	// prefijo, or "" when there is none.
	UltimoNumero(ctx context.Context, tallerID uuid.UUID, prefijo string) (string, error)
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) Create(ctx context.Context, f *model.Factura) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error
}

func porPosicion(db *gorm.DB) *gorm.DB { return db.Order("posicion") }

func (r *facturaRepo) FindByID(ctx context.Context, sc scope.Scope, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	q := sc.Aplicar(r.db.WithContext(ctx), "taller_id")
	err := q.Preload("Cliente").Preload("Lineas", porPosicion).
		First(&f, "id = ?", id).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, sc scope.Scope, f FacturaQuery) ([]model.Factura, int64, error) {
	var fs []model.Factura
	var total int64

	q := sc.Aplicar(r.db.WithContext(ctx).Model(&model.Factura{}), "taller_id")
	if f.ClienteID != nil {
		q = q.Where("cliente_id = ?", *f.ClienteID)
	}
	if f.Pagada != nil {
		q = q.Where("pagada = ?", *f.Pagada)
	}
	if f.Desde != nil {
		q = q.Where("fecha_emision >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha_emision < ?", *f.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Cliente").Preload("Lineas", porPosicion).
		Order("fecha_emision DESC, numero DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&fs).Error
	return fs, total, err
}

func (r *facturaRepo) Update(ctx context.Context, f *model.Factura) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(f).Error
}

func (r *facturaRepo) ReplaceLineas(ctx context.Context, facturaID uuid.UUID, ls []model.LineaFactura) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("factura_id = ?", facturaID).Delete(&model.LineaFactura{}).Error; err != nil {
		return err
	}
	if len(ls) == 0 {
		return nil
	}
	for i := range ls {
		ls[i].FacturaID = facturaID
	}
	return db.Create(&ls).Error
}

func (r *facturaRepo) SetPagada(ctx context.Context, sc scope.Scope, id uuid.UUID, pagada bool) error {
	q := sc.Aplicar(r.db.WithContext(ctx).Model(&model.Factura{}), "taller_id")
	res := q.Where("id = ?", id).Update("pagada", pagada)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *facturaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("factura_id = ?", id).Delete(&model.LineaFactura{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Factura{}, "id = ?", id).Error
}

func (r *facturaRepo) UltimoNumero(ctx context.Context, tallerID uuid.UUID, prefijo string) (string, error) {
	var numeros []string
	err := r.db.WithContext(ctx).Model(&model.Factura{}).
		Where("taller_id = ? AND numero LIKE ?", tallerID, prefijo+"%").
		Order("numero DESC").Limit(1).
		Pluck("numero", &numeros).Error
	if err != nil || len(numeros) == 0 {
		return "", err
	}
	return numeros[0], nil
}
