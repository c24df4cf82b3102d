package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentoRepository interface {
	CreateTx(tx *gorm.DB, d *model.DocumentoTributario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DocumentoTributario, error)
	FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.DocumentoTributario, error)
	// ExistsByVentaIDTx runs inside the issuance transaction, after the venta
	// row lock, so the 1:1 venta-documento rule holds under concurrency.
	ExistsByVentaIDTx(tx *gorm.DB, ventaID uuid.UUID) (bool, error)
	Anular(ctx context.Context, id uuid.UUID, motivo string) error
	Update(ctx context.Context, d *model.DocumentoTributario) error
	ListPendientesSII(ctx context.Context, limit int) ([]model.DocumentoTributario, error)
	DB() *gorm.DB
}

type documentoRepo struct{ db *gorm.DB }

func NewDocumentoRepository(db *gorm.DB) DocumentoRepository { return &documentoRepo{db: db} }

func (r *documentoRepo) DB() *gorm.DB { return r.db }

func (r *documentoRepo) CreateTx(tx *gorm.DB, d *model.DocumentoTributario) error {
	return tx.Create(d).Error
}

func (r *documentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DocumentoTributario, error) {
	var d model.DocumentoTributario
	err := r.db.WithContext(ctx).Preload("Items").First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("documento tributario", id.String())
	}
	return &d, err
}

func (r *documentoRepo) FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.DocumentoTributario, error) {
	var d model.DocumentoTributario
	err := r.db.WithContext(ctx).Preload("Items").First(&d, "venta_id = ?", ventaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("documento tributario de la venta", ventaID.String())
	}
	return &d, err
}

func (r *documentoRepo) ExistsByVentaIDTx(tx *gorm.DB, ventaID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.DocumentoTributario{}).
		Where("venta_id = ?", ventaID).Count(&count).Error
	return count > 0, err
}

func (r *documentoRepo) Anular(ctx context.Context, id uuid.UUID, motivo string) error {
	return r.db.WithContext(ctx).Model(&model.DocumentoTributario{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"estado": false, "motivo_anulacion": motivo}).Error
}

func (r *documentoRepo) Update(ctx context.Context, d *model.DocumentoTributario) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *documentoRepo) ListPendientesSII(ctx context.Context, limit int) ([]model.DocumentoTributario, error) {
	var docs []model.DocumentoTributario
	err := r.db.WithContext(ctx).Preload("Items").
		Where("estado_sii = ? AND estado = true AND (next_retry_at IS NULL OR next_retry_at <= ?)",
			model.EstadoSIIPendiente, time.Now()).
		Order("fecha_emision ASC").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}
