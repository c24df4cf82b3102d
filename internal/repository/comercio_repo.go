package repository

import (
	"context"
	"errors"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComercioRepository interface {
	FindComercioByID(ctx context.Context, id uuid.UUID) (*model.Comercio, error)

	CreateSucursal(ctx context.Context, s *model.Sucursal) error
	FindSucursalByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	ListSucursales(ctx context.Context) ([]model.Sucursal, error)
	DeleteSucursal(ctx context.Context, id uuid.UUID) error

	CreateBodega(ctx context.Context, b *model.Bodega) error
	FindBodegaByID(ctx context.Context, id uuid.UUID) (*model.Bodega, error)
	// FindBodegaPrincipal resolves the bodega sales draw from: the sucursal's
	// principal bodega, falling back to the global one.
	FindBodegaPrincipal(ctx context.Context, sucursalID *uuid.UUID) (*model.Bodega, error)
	ListBodegas(ctx context.Context) ([]model.Bodega, error)
	DeleteBodega(ctx context.Context, id uuid.UUID) error
}

type comercioRepo struct{ db *gorm.DB }

func NewComercioRepository(db *gorm.DB) ComercioRepository { return &comercioRepo{db: db} }

func (r *comercioRepo) FindComercioByID(ctx context.Context, id uuid.UUID) (*model.Comercio, error) {
	var c model.Comercio
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("comercio", id.String())
	}
	return &c, err
}

func (r *comercioRepo) CreateSucursal(ctx context.Context, s *model.Sucursal) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *comercioRepo) FindSucursalByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("sucursal", id.String())
	}
	return &s, err
}

func (r *comercioRepo) ListSucursales(ctx context.Context) ([]model.Sucursal, error) {
	var sucursales []model.Sucursal
	err := r.db.WithContext(ctx).Order("nombre_sucursal ASC").Find(&sucursales).Error
	return sucursales, err
}

func (r *comercioRepo) DeleteSucursal(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Sucursal{}, "id = ?", id).Error
}

func (r *comercioRepo) CreateBodega(ctx context.Context, b *model.Bodega) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *comercioRepo) FindBodegaByID(ctx context.Context, id uuid.UUID) (*model.Bodega, error) {
	var b model.Bodega
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("bodega", id.String())
	}
	return &b, err
}

func (r *comercioRepo) FindBodegaPrincipal(ctx context.Context, sucursalID *uuid.UUID) (*model.Bodega, error) {
	var b model.Bodega
	if sucursalID != nil {
		err := r.db.WithContext(ctx).
			Where("sucursal_id = ? AND es_principal = true", *sucursalID).
			First(&b).Error
		if err == nil {
			return &b, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	err := r.db.WithContext(ctx).
		Where("es_principal = true AND sucursal_id IS NULL").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("bodega principal", "")
	}
	return &b, err
}

func (r *comercioRepo) ListBodegas(ctx context.Context) ([]model.Bodega, error) {
	var bodegas []model.Bodega
	err := r.db.WithContext(ctx).Order("nombre_bodega ASC").Find(&bodegas).Error
	return bodegas, err
}

func (r *comercioRepo) DeleteBodega(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Bodega{}, "id = ?", id).Error
}
