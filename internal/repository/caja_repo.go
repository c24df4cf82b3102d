package repository

import (
	"context"
	"errors"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	Update(ctx context.Context, c *model.Caja) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Caja, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("caja", id.String())
	}
	return &c, err
}

func (r *cajaRepo) Update(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *cajaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Caja{}, "id = ?", id).Error
}

func (r *cajaRepo) ListPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ?", sucursalID).
		Order("numero_caja ASC").
		Find(&cajas).Error
	return cajas, err
}
