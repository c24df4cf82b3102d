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

type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error)
	// ExistsUnique reports whether another product already uses any of the
	// four identity fields (sku, codigo_barra, nombre, abreviado). excludeID
	// skips the product being updated.
	ExistsUnique(ctx context.Context, campo, valor string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("producto", id.String())
	}
	return &p, err
}

func (r *productoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error) {
	var productos []model.Producto
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productos).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		out[productos[i].ID] = &productos[i]
	}
	return out, nil
}

func (r *productoRepo) ExistsUnique(ctx context.Context, campo, valor string, excludeID *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Producto{}).Where(campo+" = ?", valor)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Producto{}, "id = ?", id).Error
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Producto{})

	if filter.SKU != "" {
		q = q.Where("sku = ?", filter.SKU)
	}
	if filter.CodigoBarra != "" {
		q = q.Where("codigo_barra = ?", filter.CodigoBarra)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre_producto ILIKE ?", "%"+filter.Nombre+"%")
	}
	switch filter.Estado {
	case "false":
		q = q.Where("estado = false")
	case "all":
	default:
		q = q.Where("estado = true")
	}
	if filter.Disponible {
		q = q.Where("id IN (SELECT producto_id FROM stock_bodegas WHERE cantidad > 0)")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productos []model.Producto
	err := q.Order("nombre_producto ASC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&productos).Error
	return productos, total, err
}
