package handler

import (
	"net/http"

	"github.com/jmcstoltze/aplicacion-pos/internal/apierror"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajasHandler struct{ svc *service.CajaService }

func NewCajasHandler(svc *service.CajaService) *CajasHandler { return &CajasHandler{svc: svc} }

func (h *CajasHandler) Crear(c *gin.Context) {
	var req dto.CrearCajaRequest
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

// Asignar godoc
// @Summary      Asignar caja a un usuario
// @Description  Vincula un operador a la caja y la deja operativa para ventas.
// @Tags         cajas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID de la caja"
// @Param        body body dto.AsignarCajaRequest true "Usuario a asignar"
// @Success      200  {object} dto.CajaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cajas/{id}/asignar [post]
func (h *CajasHandler) Asignar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AsignarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Asignar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajasHandler) Liberar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Liberar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajasHandler) Activar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Activar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajasHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Desactivar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CajasHandler) ListarPorSucursal(c *gin.Context) {
	sucursalID, err := uuid.Parse(c.Query("sucursal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sucursal_id inválido"))
		return
	}
	resp, err := h.svc.ListarPorSucursal(c.Request.Context(), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
