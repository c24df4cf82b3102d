package service

import (
	"context"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
)

type ProductoService struct {
	productos repository.ProductoRepository
	stock     repository.StockRepository
	ventas    repository.VentaRepository
}

func NewProductoService(productos repository.ProductoRepository, stock repository.StockRepository, ventas repository.VentaRepository) *ProductoService {
	return &ProductoService{productos: productos, stock: stock, ventas: ventas}
}

// camposUnicos maps each identity field to its column. All four must be
// unique across the catalog.
var camposUnicos = []struct {
	columna string
	etiqueta string
}{
	{"sku", "SKU"},
	{"codigo_barra", "código de barra"},
	{"nombre_producto", "nombre"},
	{"nombre_abreviado", "nombre abreviado"},
}

func (s *ProductoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	valores := map[string]string{
		"sku":              req.SKU,
		"codigo_barra":     req.CodigoBarra,
		"nombre_producto":  req.NombreProducto,
		"nombre_abreviado": req.NombreAbreviado,
	}
	for _, campo := range camposUnicos {
		existe, err := s.productos.ExistsUnique(ctx, campo.columna, valores[campo.columna], nil)
		if err != nil {
			return nil, err
		}
		if existe {
			return nil, domain.Validation("ya existe un producto con el mismo %s", campo.etiqueta)
		}
	}

	p := &model.Producto{
		SKU:             req.SKU,
		CodigoBarra:     req.CodigoBarra,
		NombreProducto:  req.NombreProducto,
		NombreAbreviado: req.NombreAbreviado,
		Descripcion:     req.Descripcion,
		PrecioVenta:     req.PrecioVenta,
		Estado:          true,
	}
	if err := s.productos.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, p)
}

func (s *ProductoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, campo := range []struct{ columna, valor, etiqueta string }{
		{"nombre_producto", req.NombreProducto, "nombre"},
		{"nombre_abreviado", req.NombreAbreviado, "nombre abreviado"},
	} {
		existe, err := s.productos.ExistsUnique(ctx, campo.columna, campo.valor, &id)
		if err != nil {
			return nil, err
		}
		if existe {
			return nil, domain.Validation("ya existe un producto con el mismo %s", campo.etiqueta)
		}
	}

	p.NombreProducto = req.NombreProducto
	p.NombreAbreviado = req.NombreAbreviado
	p.Descripcion = req.Descripcion
	p.PrecioVenta = req.PrecioVenta
	if err := s.productos.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, p)
}

func (s *ProductoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, p)
}

func (s *ProductoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 20
	}
	productos, total, err := s.productos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		resp, err := s.toResponse(ctx, &productos[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return &dto.ProductoListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Eliminar removes a product from the catalog. Products referenced by sales
// or holding stock are protected; deactivate them instead.
func (s *ProductoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productos.FindByID(ctx, id); err != nil {
		return err
	}
	vendido, err := s.ventas.ExistsPorProducto(ctx, id)
	if err != nil {
		return err
	}
	if vendido {
		return &domain.ProtectedRelationError{Entidad: "el producto", Dependiente: "items de venta"}
	}
	conStock, err := s.stock.ExistsPorProducto(ctx, id)
	if err != nil {
		return err
	}
	if conStock {
		return &domain.ProtectedRelationError{Entidad: "el producto", Dependiente: "registros de stock"}
	}
	return s.productos.Delete(ctx, id)
}

// Desactivar takes a product off sale without touching history.
func (s *ProductoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.cambiarEstado(ctx, id, false)
}

// Reactivar puts a deactivated product back on sale.
func (s *ProductoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.cambiarEstado(ctx, id, true)
}

func (s *ProductoService) cambiarEstado(ctx context.Context, id uuid.UUID, estado bool) error {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	p.Estado = estado
	return s.productos.Update(ctx, p)
}

func (s *ProductoService) toResponse(ctx context.Context, p *model.Producto) (*dto.ProductoResponse, error) {
	total, err := s.stock.TotalStock(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductoResponse{
		ID:              p.ID.String(),
		SKU:             p.SKU,
		CodigoBarra:     p.CodigoBarra,
		NombreProducto:  p.NombreProducto,
		NombreAbreviado: p.NombreAbreviado,
		Descripcion:     p.Descripcion,
		PrecioVenta:     p.PrecioVenta,
		Estado:          p.Estado,
		StockTotal:      total,
		Disponible:      p.Estado && total > 0,
	}, nil
}
