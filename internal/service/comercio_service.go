package service

import (
	"context"
	"errors"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
)

type ComercioService struct {
	comercios repository.ComercioRepository
	stock     repository.StockRepository
	cajas     repository.CajaRepository
}

func NewComercioService(comercios repository.ComercioRepository, stock repository.StockRepository, cajas repository.CajaRepository) *ComercioService {
	return &ComercioService{comercios: comercios, stock: stock, cajas: cajas}
}

func (s *ComercioService) CrearSucursal(ctx context.Context, req dto.CrearSucursalRequest) (*dto.SucursalResponse, error) {
	comercioID, err := uuid.Parse(req.ComercioID)
	if err != nil {
		return nil, domain.Validation("comercio_id inválido")
	}
	if _, err := s.comercios.FindComercioByID(ctx, comercioID); err != nil {
		return nil, err
	}

	suc := &model.Sucursal{
		NombreSucursal: req.NombreSucursal,
		Email:          req.Email,
		Telefono:       req.Telefono,
		EsCasaMatriz:   req.EsCasaMatriz,
		Estado:         true,
		ComercioID:     comercioID,
	}
	if err := s.comercios.CreateSucursal(ctx, suc); err != nil {
		return nil, err
	}
	return toSucursalResponse(suc), nil
}

func (s *ComercioService) ListarSucursales(ctx context.Context) ([]dto.SucursalResponse, error) {
	sucursales, err := s.comercios.ListSucursales(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SucursalResponse, 0, len(sucursales))
	for i := range sucursales {
		out = append(out, *toSucursalResponse(&sucursales[i]))
	}
	return out, nil
}

// EliminarSucursal removes a sucursal that has no cajas hanging off it.
func (s *ComercioService) EliminarSucursal(ctx context.Context, id uuid.UUID) error {
	if _, err := s.comercios.FindSucursalByID(ctx, id); err != nil {
		return err
	}
	cajas, err := s.cajas.ListPorSucursal(ctx, id)
	if err != nil {
		return err
	}
	if len(cajas) > 0 {
		return &domain.ProtectedRelationError{Entidad: "la sucursal", Dependiente: "cajas"}
	}
	return s.comercios.DeleteSucursal(ctx, id)
}

func (s *ComercioService) CrearBodega(ctx context.Context, req dto.CrearBodegaRequest) (*dto.BodegaResponse, error) {
	sucursalID, err := parseOptionalUUID(req.SucursalID, "sucursal_id")
	if err != nil {
		return nil, err
	}
	if sucursalID != nil {
		if _, err := s.comercios.FindSucursalByID(ctx, *sucursalID); err != nil {
			return nil, err
		}
	}
	if req.EsPrincipal {
		// One principal per sucursal (or one global principal).
		existente, err := s.comercios.FindBodegaPrincipal(ctx, sucursalID)
		var nf *domain.NotFoundError
		if err != nil && !errors.As(err, &nf) {
			return nil, err
		}
		if existente != nil && igualSucursal(existente.SucursalID, sucursalID) {
			return nil, domain.Validation("ya existe una bodega principal para esa sucursal")
		}
	}

	b := &model.Bodega{
		NombreBodega: req.NombreBodega,
		EsPrincipal:  req.EsPrincipal,
		SucursalID:   sucursalID,
	}
	if err := s.comercios.CreateBodega(ctx, b); err != nil {
		return nil, err
	}
	return toBodegaResponse(b), nil
}

func (s *ComercioService) ListarBodegas(ctx context.Context) ([]dto.BodegaResponse, error) {
	bodegas, err := s.comercios.ListBodegas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BodegaResponse, 0, len(bodegas))
	for i := range bodegas {
		out = append(out, *toBodegaResponse(&bodegas[i]))
	}
	return out, nil
}

// EliminarBodega removes an empty bodega. Any remaining stock protects it.
func (s *ComercioService) EliminarBodega(ctx context.Context, id uuid.UUID) error {
	if _, err := s.comercios.FindBodegaByID(ctx, id); err != nil {
		return err
	}
	conStock, err := s.stock.ExistsPorBodega(ctx, id)
	if err != nil {
		return err
	}
	if conStock {
		return &domain.ProtectedRelationError{Entidad: "la bodega", Dependiente: "registros de stock"}
	}
	return s.comercios.DeleteBodega(ctx, id)
}

func igualSucursal(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func toSucursalResponse(s *model.Sucursal) *dto.SucursalResponse {
	return &dto.SucursalResponse{
		ID:             s.ID.String(),
		NombreSucursal: s.NombreSucursal,
		Email:          s.Email,
		Telefono:       s.Telefono,
		EsCasaMatriz:   s.EsCasaMatriz,
		EstaAsignada:   s.EstaAsignada,
		Estado:         s.Estado,
		ComercioID:     s.ComercioID.String(),
	}
}

func toBodegaResponse(b *model.Bodega) *dto.BodegaResponse {
	return &dto.BodegaResponse{
		ID:           b.ID.String(),
		NombreBodega: b.NombreBodega,
		EsPrincipal:  b.EsPrincipal,
		SucursalID:   uuidPtrString(b.SucursalID),
	}
}
