package handler

import (
	"net/http"
	"strconv"

	"github.com/jmcstoltze/aplicacion-pos/internal/apierror"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientesHandler struct{ svc *service.ClienteService }

func NewClientesHandler(svc *service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear cliente
// @Description  Registra un cliente. El RUT se normaliza y se valida su dígito verificador.
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearClienteRequest true "Datos del cliente"
// @Success      201  {object} dto.ClienteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BuscarPorRUT godoc
// @Summary      Buscar cliente por RUT
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        rut query string true "RUT con o sin puntos"
// @Success      200 {object} dto.ClienteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/clientes/buscar [get]
func (h *ClientesHandler) BuscarPorRUT(c *gin.Context) {
	rut := c.Query("rut")
	if rut == "" {
		c.JSON(http.StatusBadRequest, apierror.New("RUT requerido"))
		return
	}
	resp, err := h.svc.BuscarPorRUT(c.Request.Context(), rut)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	data, total, err := h.svc.Listar(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}

// CrearEmpresa godoc
// @Summary      Crear empresa
// @Description  Registra una empresa para emisión de facturas, con representante legal opcional.
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearEmpresaRequest true "Datos de la empresa"
// @Success      201  {object} dto.EmpresaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/empresas [post]
func (h *ClientesHandler) CrearEmpresa(c *gin.Context) {
	var req dto.CrearEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearEmpresa(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) ObtenerEmpresa(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObtenerEmpresa(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientesHandler) ActualizarEmpresa(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ActualizarEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEmpresa(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) DesactivarEmpresa(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.DesactivarEmpresa(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientesHandler) ListarEmpresas(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	data, total, err := h.svc.ListarEmpresas(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}
