package handler

import (
	"net/http"

	"github.com/jmcstoltze/aplicacion-pos/internal/apierror"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc *service.InventarioService }

func NewInventarioHandler(svc *service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Ajustar godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica un delta con signo a un producto en una bodega y registra el movimiento. Rechaza ajustes que dejarían stock negativo.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AjusteStockRequest true "Ajuste"
// @Success      200  {object} dto.StockResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/inventario/ajustes [post]
func (h *InventarioHandler) Ajustar(c *gin.Context) {
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Ajustar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stock godoc
// @Summary      Stock de un producto en una bodega
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id path  string true  "UUID del producto"
// @Param        bodega_id   query string false "UUID de bodega; omitir para el total"
// @Success      200 {object} dto.StockResponse
// @Router       /v1/inventario/stock/{producto_id} [get]
func (h *InventarioHandler) Stock(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("producto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("producto_id inválido"))
		return
	}

	if raw := c.Query("bodega_id"); raw != "" {
		bodegaID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("bodega_id inválido"))
			return
		}
		cantidad, err := h.svc.StockEnBodega(c.Request.Context(), productoID, bodegaID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.StockResponse{
			ProductoID: productoID.String(),
			BodegaID:   raw,
			Cantidad:   cantidad,
		})
		return
	}

	total, err := h.svc.TotalStock(c.Request.Context(), productoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockResponse{ProductoID: productoID.String(), Cantidad: total})
}

// Movimientos godoc
// @Summary      Listar movimientos de stock
// @Description  Bitácora inmutable del inventario, filtrable por producto, bodega y tipo.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.MovimientoStockListResponse
// @Router       /v1/inventario/movimientos [get]
func (h *InventarioHandler) Movimientos(c *gin.Context) {
	var filter dto.MovimientoStockFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
