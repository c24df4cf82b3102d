package handler

import (
	"net/http"

	"github.com/jmcstoltze/aplicacion-pos/internal/apierror"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComercioHandler struct{ svc *service.ComercioService }

func NewComercioHandler(svc *service.ComercioService) *ComercioHandler {
	return &ComercioHandler{svc: svc}
}

func (h *ComercioHandler) CrearSucursal(c *gin.Context) {
	var req dto.CrearSucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearSucursal(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ComercioHandler) ListarSucursales(c *gin.Context) {
	resp, err := h.svc.ListarSucursales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComercioHandler) EliminarSucursal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.EliminarSucursal(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CrearBodega godoc
// @Summary      Crear bodega
// @Description  Crea una bodega, opcionalmente adscrita a una sucursal. Solo una bodega principal por sucursal.
// @Tags         comercio
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearBodegaRequest true "Datos de la bodega"
// @Success      201  {object} dto.BodegaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/bodegas [post]
func (h *ComercioHandler) CrearBodega(c *gin.Context) {
	var req dto.CrearBodegaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearBodega(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ComercioHandler) ListarBodegas(c *gin.Context) {
	resp, err := h.svc.ListarBodegas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarBodega godoc
// @Summary      Eliminar bodega
// @Description  Elimina una bodega sin stock; con existencias responde 409.
// @Tags         comercio
// @Security     BearerAuth
// @Param        id path string true "UUID de la bodega"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/bodegas/{id} [delete]
func (h *ComercioHandler) EliminarBodega(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.EliminarBodega(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
