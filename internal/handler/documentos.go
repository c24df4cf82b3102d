package handler

import (
	"net/http"

	"github.com/jmcstoltze/aplicacion-pos/internal/apierror"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocumentosHandler struct {
	svc          *service.DocumentoService
	conciliacion *service.ConciliacionService
}

func NewDocumentosHandler(svc *service.DocumentoService, conciliacion *service.ConciliacionService) *DocumentosHandler {
	return &DocumentosHandler{svc: svc, conciliacion: conciliacion}
}

// Emitir godoc
// @Summary      Emitir documento tributario
// @Description  Emite el DTE de una venta: asigna folio correlativo, copia los ítems y despacha el envío al SII en segundo plano. Una venta admite un solo documento.
// @Tags         documentos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EmitirDocumentoRequest true "Datos de emisión"
// @Success      201  {object} dto.DocumentoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/documentos [post]
func (h *DocumentosHandler) Emitir(c *gin.Context) {
	var req dto.EmitirDocumentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Emitir(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Anular godoc
// @Summary      Anular documento tributario
// @Description  Marca el documento como anulado conservando folio, totales e ítems. El motivo es obligatorio.
// @Tags         documentos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                     true "UUID del documento"
// @Param        body body dto.AnularDocumentoRequest true "Motivo de anulación"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/documentos/{id} [delete]
func (h *DocumentosHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AnularDocumentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Anular(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Obtener godoc
// @Summary      Obtener documento por ID
// @Tags         documentos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del documento"
// @Success      200 {object} dto.DocumentoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/documentos/{id} [get]
func (h *DocumentosHandler) Obtener(c *gin.Context) {
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

// ObtenerPorVenta godoc
// @Summary      Obtener el documento de una venta
// @Tags         documentos
// @Produce      json
// @Security     BearerAuth
// @Param        venta_id path string true "UUID de la venta"
// @Success      200 {object} dto.DocumentoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{venta_id}/documento [get]
func (h *DocumentosHandler) ObtenerPorVenta(c *gin.Context) {
	ventaID, err := uuid.Parse(c.Param("venta_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObtenerPorVenta(c.Request.Context(), ventaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Conciliar godoc
// @Summary      Conciliar documento contra su venta
// @Description  Recalcula los totales desde la venta origen y reporta cada discrepancia. Solo lectura: no repara nada.
// @Tags         documentos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del documento"
// @Success      200 {object} dto.ConciliacionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/documentos/{id}/conciliacion [get]
func (h *DocumentosHandler) Conciliar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.conciliacion.Verificar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
