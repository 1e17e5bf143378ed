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

type ClienteQuery struct {
	Buscar           string
	IncluirInactivos bool
}

// ClienteRepository writes the client row and its vehicles in separate
// statements; the service compensates when the second one fails.
type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, sc scope.Scope, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, sc scope.Scope, q ClienteQuery) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	ReplaceVehiculos(ctx context.Context, clienteID uuid.UUID, vs []model.VehiculoCliente) error
	SetActivo(ctx context.Context, sc scope.Scope, id uuid.UUID, activo bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, sc scope.Scope, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	q := sc.Aplicar(r.db.WithContext(ctx), "taller_id")
	err := q.Preload("Vehiculos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, sc scope.Scope, f ClienteQuery) ([]model.Cliente, error) {
	var cs []model.Cliente
	q := sc.Aplicar(r.db.WithContext(ctx).Model(&model.Cliente{}), "taller_id")
	if !f.IncluirInactivos {
		q = q.Where("activo = true")
	}
	if b := strings.TrimSpace(f.Buscar); b != "" {
		like := "%" + b + "%"
		q = q.Where("(nombre ILIKE ? OR empresa ILIKE ? OR nif ILIKE ?)", like, like, like)
	}
	err := q.Preload("Vehiculos").Order("nombre").Find(&cs).Error
	return cs, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

// ReplaceVehiculos deletes the current list and inserts vs.
func (r *clienteRepo) ReplaceVehiculos(ctx context.Context, clienteID uuid.UUID, vs []model.VehiculoCliente) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cliente_id = ?", clienteID).Delete(&model.VehiculoCliente{}).Error; err != nil {
		return err
	}
	if len(vs) == 0 {
		return nil
	}
	for i := range vs {
		vs[i].ClienteID = clienteID
	}
	return db.Create(&vs).Error
}

func (r *clienteRepo) SetActivo(ctx context.Context, sc scope.Scope, id uuid.UUID, activo bool) error {
	q := sc.Aplicar(r.db.WithContext(ctx).Model(&model.Cliente{}), "taller_id")
	res := q.Where("id = ?", id).Update("activo", activo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete is a hard delete used only to undo a half-written create.
func (r *clienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cliente_id = ?", id).Delete(&model.VehiculoCliente{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Cliente{}, "id = ?", id).Error
}
