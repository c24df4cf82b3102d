package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`                 // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=activa"` // activa | anulada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	Descuento      decimal.Decimal `json:"descuento"       validate:"min=0"`
	TipoImpuesto   string          `json:"tipo_impuesto"   validate:"required,oneof=Afecto Exento"`
}

type RegistrarVentaRequest struct {
	CajaID    string             `json:"caja_id"    validate:"required,uuid"`
	ClienteID *string            `json:"cliente_id" validate:"omitempty,uuid"`
	EmpresaID *string            `json:"empresa_id" validate:"omitempty,uuid"`
	Items     []ItemVentaRequest `json:"items"      validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	TipoImpuesto   string          `json:"tipo_impuesto"`
	ValorImpuesto  decimal.Decimal `json:"valor_impuesto"`
	TotalItem      decimal.Decimal `json:"total_item"`
}

type VentaResponse struct {
	ID         string              `json:"id"`
	CajaID     string              `json:"caja_id"`
	UsuarioID  *string             `json:"usuario_id,omitempty"`
	ClienteID  *string             `json:"cliente_id,omitempty"`
	EmpresaID  *string             `json:"empresa_id,omitempty"`
	Items      []ItemVentaResponse `json:"items"`
	TotalNeto  decimal.Decimal     `json:"total_neto"`
	TotalIVA   decimal.Decimal     `json:"total_iva"`
	TotalDscto decimal.Decimal     `json:"total_dscto"`
	TotalVenta decimal.Decimal     `json:"total_venta"`
	Estado     bool                `json:"estado"`
	FechaVenta string              `json:"fecha_venta"`
}
