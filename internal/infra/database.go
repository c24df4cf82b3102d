package infra

import (
	"fmt"

	"github.com/jmcstoltze/aplicacion-pos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection, migrates the schema and applies the
// SQL the migrator cannot express (gen_random_uuid needs pgcrypto).
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

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates all tables. Also used by integration tests
// against a disposable database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Comercio{},
		&model.Sucursal{},
		&model.Bodega{},
		&model.Usuario{},
		&model.Cliente{},
		&model.Empresa{},
		&model.Caja{},
		&model.Producto{},
		&model.StockBodega{},
		&model.MovimientoStock{},
		&model.Venta{},
		&model.ItemVenta{},
		&model.Folio{},
		&model.DocumentoTributario{},
		&model.ItemDocumento{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	// Partial index for the SII retry cron query.
	return db.Exec(`
		DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_documentos_pendientes_sii') THEN
		    CREATE INDEX idx_documentos_pendientes_sii
		        ON documentos_tributarios (next_retry_at)
		        WHERE estado_sii = 'pendiente';
		  END IF;
		END $$`).Error
}
