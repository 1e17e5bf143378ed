package infra

import (
	"fmt"

	"tallerpro/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection, creates / updates all tables and then
// applies the idempotent SQL patches AutoMigrate cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema. Integration tests call it directly on
// the container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Red{},
		&model.Taller{},
		&model.Usuario{},
		&model.Cliente{},
		&model.VehiculoCliente{},
		&model.Valoracion{},
		&model.ComentarioValoracion{},
		&model.FotoValoracion{},
		&model.InformeValoracion{},
		&model.Factura{},
		&model.LineaFactura{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that GORM tags cannot describe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// kanban and list reads filter by workshop and state together
		`CREATE INDEX IF NOT EXISTS idx_valoraciones_taller_estado
		    ON valoraciones (taller_id, estado)`,
		`CREATE INDEX IF NOT EXISTS idx_comentarios_valoracion_fecha
		    ON comentarios_valoracion (valoracion_id, created_at)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
