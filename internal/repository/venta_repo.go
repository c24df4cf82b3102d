package repository

import (
	"context"
	"errors"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindForUpdateTx locks the venta row for the duration of the enclosing
	// transaction. Used by document issuance to serialize against concurrent
	// emissions for the same venta.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	Anular(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	ExistsPorCaja(ctx context.Context, cajaID uuid.UUID) (bool, error)
	ExistsPorProducto(ctx context.Context, productoID uuid.UUID) (bool, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").Preload("Cliente").Preload("Empresa").
		First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("venta", id.String())
	}
	return &v, err
}

func (r *ventaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Raw("SELECT * FROM ventas WHERE id = ? FOR UPDATE", id).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == uuid.Nil {
		return nil, domain.NotFound("venta", id.String())
	}
	if err := tx.Preload("Producto").Where("venta_id = ?", id).Find(&v.Items).Error; err != nil {
		return nil, err
	}
	if v.ClienteID != nil {
		var c model.Cliente
		if err := tx.First(&c, "id = ?", *v.ClienteID).Error; err == nil {
			v.Cliente = &c
		}
	}
	return &v, nil
}

func (r *ventaRepo) Anular(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("id = ?", id).Update("estado", false).Error
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	switch filter.Estado {
	case "anulada":
		q = q.Where("estado = false")
	case "all":
		// no filter
	default:
		q = q.Where("estado = true")
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha_venta) = ?", filter.Fecha)
	} else {
		q = q.Where("DATE(fecha_venta) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Producto").
		Order("fecha_venta DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) ExistsPorCaja(ctx context.Context, cajaID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("caja_id = ?", cajaID).Count(&count).Error
	return count > 0, err
}

func (r *ventaRepo) ExistsPorProducto(ctx context.Context, productoID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ItemVenta{}).
		Where("producto_id = ?", productoID).Count(&count).Error
	return count > 0, err
}
