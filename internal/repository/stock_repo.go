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

// StockRepository is the persistence boundary of the inventory ledger.
// AplicarDeltaTx is the only write path for quantities: a single conditional
// UPDATE, so two concurrent commits can never jointly overdraw a row.
type StockRepository interface {
	// AplicarDeltaTx applies a signed delta to the (producto, bodega) entry,
	// creating it on first positive adjustment. Returns the new quantity, or
	// a domain.NegativeStockError without mutating anything.
	AplicarDeltaTx(tx *gorm.DB, productoID, bodegaID uuid.UUID, delta int) (int, error)
	StockEnBodega(ctx context.Context, productoID, bodegaID uuid.UUID) (int, error)
	TotalStock(ctx context.Context, productoID uuid.UUID) (int, error)
	ExistsPorBodega(ctx context.Context, bodegaID uuid.UUID) (bool, error)
	ExistsPorProducto(ctx context.Context, productoID uuid.UUID) (bool, error)

	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error
	ListMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) ([]model.MovimientoStock, int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) AplicarDeltaTx(tx *gorm.DB, productoID, bodegaID uuid.UUID, delta int) (int, error) {
	res := tx.Model(&model.StockBodega{}).
		Where("producto_id = ? AND bodega_id = ? AND cantidad + ? >= 0", productoID, bodegaID, delta).
		Update("cantidad", gorm.Expr("cantidad + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the entry does not exist yet or the delta would underflow.
		var existing model.StockBodega
		err := tx.Where("producto_id = ? AND bodega_id = ?", productoID, bodegaID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if delta < 0 {
				return 0, &domain.NegativeStockError{
					ProductoID: productoID, BodegaID: bodegaID,
					Disponible: 0, Solicitado: -delta,
				}
			}
			entry := model.StockBodega{ProductoID: productoID, BodegaID: bodegaID, Cantidad: delta}
			if err := tx.Create(&entry).Error; err != nil {
				return 0, err
			}
			return delta, nil
		}
		if err != nil {
			return 0, err
		}
		return 0, &domain.NegativeStockError{
			ProductoID: productoID, BodegaID: bodegaID,
			Disponible: existing.Cantidad, Solicitado: -delta,
		}
	}

	var entry model.StockBodega
	if err := tx.Where("producto_id = ? AND bodega_id = ?", productoID, bodegaID).First(&entry).Error; err != nil {
		return 0, err
	}
	return entry.Cantidad, nil
}

func (r *stockRepo) StockEnBodega(ctx context.Context, productoID, bodegaID uuid.UUID) (int, error) {
	var entry model.StockBodega
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND bodega_id = ?", productoID, bodegaID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No entry means zero stock, not an error.
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return entry.Cantidad, nil
}

func (r *stockRepo) TotalStock(ctx context.Context, productoID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.StockBodega{}).
		Where("producto_id = ?", productoID).
		Select("COALESCE(SUM(cantidad), 0)").
		Scan(&total).Error
	return total, err
}

func (r *stockRepo) ExistsPorBodega(ctx context.Context, bodegaID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockBodega{}).
		Where("bodega_id = ? AND cantidad > 0", bodegaID).
		Count(&count).Error
	return count > 0, err
}

func (r *stockRepo) ExistsPorProducto(ctx context.Context, productoID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StockBodega{}).
		Where("producto_id = ? AND cantidad > 0", productoID).
		Count(&count).Error
	return count > 0, err
}

func (r *stockRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *stockRepo) ListMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).Preload("Producto")
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.BodegaID != "" {
		q = q.Where("bodega_id = ?", filter.BodegaID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var movimientos []model.MovimientoStock
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}
