package repository

import (
	"context"
	"errors"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByRUT(ctx context.Context, rut string) (*model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	List(ctx context.Context, page, limit int) ([]model.Cliente, int64, error)

	CreateEmpresa(ctx context.Context, e *model.Empresa) error
	FindEmpresaByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error)
	FindEmpresaByRUT(ctx context.Context, rut string) (*model.Empresa, error)
	UpdateEmpresa(ctx context.Context, e *model.Empresa) error
	ListEmpresas(ctx context.Context, page, limit int) ([]model.Empresa, int64, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("cliente", id.String())
	}
	return &c, err
}

func (r *clienteRepo) FindByRUT(ctx context.Context, rut string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "rut = ?", rut).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) List(ctx context.Context, page, limit int) ([]model.Cliente, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("estado = true")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var clientes []model.Cliente
	err := q.Order("ap_paterno ASC, nombres ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) CreateEmpresa(ctx context.Context, e *model.Empresa) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *clienteRepo) FindEmpresaByID(ctx context.Context, id uuid.UUID) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("empresa", id.String())
	}
	return &e, err
}

func (r *clienteRepo) UpdateEmpresa(ctx context.Context, e *model.Empresa) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *clienteRepo) ListEmpresas(ctx context.Context, page, limit int) ([]model.Empresa, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Empresa{}).Where("estado = true")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var empresas []model.Empresa
	err := q.Order("razon_social ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&empresas).Error
	return empresas, total, err
}

func (r *clienteRepo) FindEmpresaByRUT(ctx context.Context, rut string) (*model.Empresa, error) {
	var e model.Empresa
	err := r.db.WithContext(ctx).First(&e, "rut_empresa = ?", rut).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
