package service

import (
	"context"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
)

type CajaService struct {
	cajas     repository.CajaRepository
	usuarios  repository.UsuarioRepository
	comercios repository.ComercioRepository
	ventas    repository.VentaRepository
}

func NewCajaService(cajas repository.CajaRepository, usuarios repository.UsuarioRepository, comercios repository.ComercioRepository, ventas repository.VentaRepository) *CajaService {
	return &CajaService{cajas: cajas, usuarios: usuarios, comercios: comercios, ventas: ventas}
}

func (s *CajaService) Crear(ctx context.Context, req dto.CrearCajaRequest) (*dto.CajaResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, domain.Validation("sucursal_id inválido")
	}
	if _, err := s.comercios.FindSucursalByID(ctx, sucursalID); err != nil {
		return nil, err
	}

	c := &model.Caja{
		NumeroCaja: req.NumeroCaja,
		NombreCaja: req.NombreCaja,
		SucursalID: sucursalID,
	}
	if err := s.cajas.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCajaResponse(c), nil
}

// Asignar binds an operator to the caja and opens it for sales.
func (s *CajaService) Asignar(ctx context.Context, cajaID uuid.UUID, req dto.AsignarCajaRequest) (*dto.CajaResponse, error) {
	c, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	if c.EstaAsignada {
		return nil, domain.Validation("la caja %s ya está asignada", c.NumeroCaja)
	}
	usuarioID, err := uuid.Parse(req.UsuarioID)
	if err != nil {
		return nil, domain.Validation("usuario_id inválido")
	}
	u, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if !u.Estado {
		return nil, domain.Validation("el usuario %s está inactivo", u.Username)
	}

	c.UsuarioID = &usuarioID
	c.EstaAsignada = true
	c.Estado = true
	if err := s.cajas.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCajaResponse(c), nil
}

// Liberar detaches the operator and closes the caja.
func (s *CajaService) Liberar(ctx context.Context, cajaID uuid.UUID) (*dto.CajaResponse, error) {
	c, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	c.UsuarioID = nil
	c.EstaAsignada = false
	c.Estado = false
	if err := s.cajas.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCajaResponse(c), nil
}

// Activar reopens an assigned caja for sales.
func (s *CajaService) Activar(ctx context.Context, cajaID uuid.UUID) (*dto.CajaResponse, error) {
	c, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	if !c.EstaAsignada {
		return nil, domain.Validation("la caja %s no tiene usuario asignado", c.NumeroCaja)
	}
	c.Estado = true
	if err := s.cajas.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCajaResponse(c), nil
}

// Desactivar closes the caja to new sales without unassigning the operator.
func (s *CajaService) Desactivar(ctx context.Context, cajaID uuid.UUID) (*dto.CajaResponse, error) {
	c, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	c.Estado = false
	if err := s.cajas.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCajaResponse(c), nil
}

// Eliminar removes a caja with no sales history.
func (s *CajaService) Eliminar(ctx context.Context, cajaID uuid.UUID) error {
	if _, err := s.cajas.FindByID(ctx, cajaID); err != nil {
		return err
	}
	conVentas, err := s.ventas.ExistsPorCaja(ctx, cajaID)
	if err != nil {
		return err
	}
	if conVentas {
		return &domain.ProtectedRelationError{Entidad: "la caja", Dependiente: "ventas"}
	}
	return s.cajas.Delete(ctx, cajaID)
}

func (s *CajaService) ListarPorSucursal(ctx context.Context, sucursalID uuid.UUID) ([]dto.CajaResponse, error) {
	cajas, err := s.cajas.ListPorSucursal(ctx, sucursalID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CajaResponse, 0, len(cajas))
	for i := range cajas {
		out = append(out, *toCajaResponse(&cajas[i]))
	}
	return out, nil
}

func toCajaResponse(c *model.Caja) *dto.CajaResponse {
	return &dto.CajaResponse{
		ID:           c.ID.String(),
		NumeroCaja:   c.NumeroCaja,
		NombreCaja:   c.NombreCaja,
		Estado:       c.Estado,
		EstaAsignada: c.EstaAsignada,
		UsuarioID:    uuidPtrString(c.UsuarioID),
		SucursalID:   c.SucursalID.String(),
	}
}
