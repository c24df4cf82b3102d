package repository

import (
	"gorm.io/gorm"
)

// FolioRepository hands out correlative folios per document type.
type FolioRepository interface {
	// SiguienteTx atomically increments and returns the next folio for the
	// given document type, creating the counter on first use.
	SiguienteTx(tx *gorm.DB, tipoDocumento string) (int, error)
}

type folioRepo struct{ db *gorm.DB }

func NewFolioRepository(db *gorm.DB) FolioRepository { return &folioRepo{db: db} }

func (r *folioRepo) SiguienteTx(tx *gorm.DB, tipoDocumento string) (int, error) {
	var ultimo int
	err := tx.Raw(`
		INSERT INTO folios (tipo_documento, ultimo) VALUES (?, 1)
		ON CONFLICT (tipo_documento) DO UPDATE SET ultimo = folios.ultimo + 1
		RETURNING ultimo`, tipoDocumento).Scan(&ultimo).Error
	return ultimo, err
}
