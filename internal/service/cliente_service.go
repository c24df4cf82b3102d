package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
)

type ClienteService struct {
	clientes repository.ClienteRepository
}

func NewClienteService(clientes repository.ClienteRepository) *ClienteService {
	return &ClienteService{clientes: clientes}
}

func (s *ClienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	rut, err := normalizarRUT(req.RUT)
	if err != nil {
		return nil, err
	}
	existente, err := s.clientes.FindByRUT(ctx, rut)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, domain.Validation("ya existe un cliente con RUT %s", rut)
	}

	c := &model.Cliente{
		RUT:       rut,
		Nombres:   req.Nombres,
		ApPaterno: req.ApPaterno,
		ApMaterno: req.ApMaterno,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Estado:    true,
	}
	if err := s.clientes.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClienteResponse(c), nil
}

func (s *ClienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Nombres = req.Nombres
	c.ApPaterno = req.ApPaterno
	c.ApMaterno = req.ApMaterno
	c.Telefono = req.Telefono
	c.Email = req.Email
	c.Direccion = req.Direccion
	if err := s.clientes.Update(ctx, c); err != nil {
		return nil, err
	}
	return toClienteResponse(c), nil
}

func (s *ClienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClienteResponse(c), nil
}

func (s *ClienteService) BuscarPorRUT(ctx context.Context, rut string) (*dto.ClienteResponse, error) {
	normalizado, err := normalizarRUT(rut)
	if err != nil {
		return nil, err
	}
	c, err := s.clientes.FindByRUT(ctx, normalizado)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("cliente", normalizado)
	}
	return toClienteResponse(c), nil
}

func (s *ClienteService) Listar(ctx context.Context, page, limit int) ([]dto.ClienteResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	clientes, total, err := s.clientes.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, *toClienteResponse(&clientes[i]))
	}
	return out, total, nil
}

func (s *ClienteService) CrearEmpresa(ctx context.Context, req dto.CrearEmpresaRequest) (*dto.EmpresaResponse, error) {
	rut, err := normalizarRUT(req.RUTEmpresa)
	if err != nil {
		return nil, err
	}
	existente, err := s.clientes.FindEmpresaByRUT(ctx, rut)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, domain.Validation("ya existe una empresa con RUT %s", rut)
	}

	representanteID, err := parseOptionalUUID(req.RepresentanteID, "representante_id")
	if err != nil {
		return nil, err
	}
	if representanteID != nil {
		if _, err := s.clientes.FindByID(ctx, *representanteID); err != nil {
			return nil, err
		}
	}

	e := &model.Empresa{
		RUTEmpresa:      rut,
		NombreEmpresa:   req.NombreEmpresa,
		RazonSocial:     req.RazonSocial,
		Giro:            req.Giro,
		Direccion:       req.Direccion,
		Telefono:        req.Telefono,
		Email:           req.Email,
		RepresentanteID: representanteID,
		Estado:          true,
	}
	if err := s.clientes.CreateEmpresa(ctx, e); err != nil {
		return nil, err
	}
	return toEmpresaResponse(e), nil
}

func (s *ClienteService) ObtenerEmpresa(ctx context.Context, id uuid.UUID) (*dto.EmpresaResponse, error) {
	e, err := s.clientes.FindEmpresaByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmpresaResponse(e), nil
}

// Desactivar hides the cliente from listings; sales history keeps pointing
// at it.
func (s *ClienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	c.Estado = false
	return s.clientes.Update(ctx, c)
}

func (s *ClienteService) ActualizarEmpresa(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpresaRequest) (*dto.EmpresaResponse, error) {
	e, err := s.clientes.FindEmpresaByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.NombreEmpresa = req.NombreEmpresa
	e.RazonSocial = req.RazonSocial
	e.Giro = req.Giro
	e.Direccion = req.Direccion
	e.Telefono = req.Telefono
	e.Email = req.Email
	if err := s.clientes.UpdateEmpresa(ctx, e); err != nil {
		return nil, err
	}
	return toEmpresaResponse(e), nil
}

func (s *ClienteService) DesactivarEmpresa(ctx context.Context, id uuid.UUID) error {
	e, err := s.clientes.FindEmpresaByID(ctx, id)
	if err != nil {
		return err
	}
	e.Estado = false
	return s.clientes.UpdateEmpresa(ctx, e)
}

func (s *ClienteService) ListarEmpresas(ctx context.Context, page, limit int) ([]dto.EmpresaResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	empresas, total, err := s.clientes.ListEmpresas(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.EmpresaResponse, 0, len(empresas))
	for i := range empresas {
		out = append(out, *toEmpresaResponse(&empresas[i]))
	}
	return out, total, nil
}

// normalizarRUT canonicalizes a Chilean RUT to NNNNNNNN-DV (no dots,
// uppercase K) and checks the módulo 11 verification digit.
func normalizarRUT(rut string) (string, error) {
	limpio := strings.ToUpper(strings.NewReplacer(".", "", " ", "", "-", "").Replace(rut))
	if len(limpio) < 2 {
		return "", domain.Validation("RUT inválido: %s", rut)
	}
	cuerpo := limpio[:len(limpio)-1]
	dv := limpio[len(limpio)-1:]

	num, err := strconv.Atoi(cuerpo)
	if err != nil || num <= 0 {
		return "", domain.Validation("RUT inválido: %s", rut)
	}

	suma := 0
	factor := 2
	for i := len(cuerpo) - 1; i >= 0; i-- {
		suma += int(cuerpo[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	resto := 11 - suma%11
	esperado := ""
	switch resto {
	case 11:
		esperado = "0"
	case 10:
		esperado = "K"
	default:
		esperado = strconv.Itoa(resto)
	}
	if dv != esperado {
		return "", domain.Validation("RUT inválido: dígito verificador incorrecto en %s", rut)
	}
	return cuerpo + "-" + dv, nil
}

func toClienteResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:        c.ID.String(),
		RUT:       c.RUT,
		Nombres:   c.Nombres,
		ApPaterno: c.ApPaterno,
		ApMaterno: c.ApMaterno,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		Estado:    c.Estado,
	}
}

func toEmpresaResponse(e *model.Empresa) *dto.EmpresaResponse {
	return &dto.EmpresaResponse{
		ID:              e.ID.String(),
		RUTEmpresa:      e.RUTEmpresa,
		NombreEmpresa:   e.NombreEmpresa,
		RazonSocial:     e.RazonSocial,
		Giro:            e.Giro,
		Direccion:       e.Direccion,
		Telefono:        e.Telefono,
		Email:           e.Email,
		RepresentanteID: uuidPtrString(e.RepresentanteID),
		Estado:          e.Estado,
	}
}
