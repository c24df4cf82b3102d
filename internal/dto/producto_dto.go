package dto

import "github.com/shopspring/decimal"

// ProductoFilter is the closed set of filter predicates for GET /v1/productos.
// Only these fields are filterable — no dynamic attribute access.
type ProductoFilter struct {
	SKU         string `form:"sku"`
	CodigoBarra string `form:"codigo_barra"`
	Nombre      string `form:"nombre"`
	Estado      string `form:"estado"` // "" (activos) | "false" | "all"
	// Disponible limits the list to products with stock in some bodega.
	Disponible bool `form:"disponible"`
	Page       int  `form:"page,default=1"   validate:"min=1"`
	Limit      int  `form:"limit,default=20" validate:"min=1,max=200"`
}

type CrearProductoRequest struct {
	SKU             string           `json:"sku"              validate:"required"`
	CodigoBarra     string           `json:"codigo_barra"     validate:"required"`
	NombreProducto  string           `json:"nombre_producto"  validate:"required"`
	NombreAbreviado string           `json:"nombre_abreviado" validate:"required"`
	Descripcion     string           `json:"descripcion"      validate:"required"`
	PrecioVenta     *decimal.Decimal `json:"precio_venta"`
}

type ActualizarProductoRequest struct {
	NombreProducto  string           `json:"nombre_producto"  validate:"required"`
	NombreAbreviado string           `json:"nombre_abreviado" validate:"required"`
	Descripcion     string           `json:"descripcion"      validate:"required"`
	PrecioVenta     *decimal.Decimal `json:"precio_venta"`
}

type ProductoResponse struct {
	ID              string           `json:"id"`
	SKU             string           `json:"sku"`
	CodigoBarra     string           `json:"codigo_barra"`
	NombreProducto  string           `json:"nombre_producto"`
	NombreAbreviado string           `json:"nombre_abreviado"`
	Descripcion     string           `json:"descripcion"`
	PrecioVenta     *decimal.Decimal `json:"precio_venta,omitempty"`
	Estado          bool             `json:"estado"`
	StockTotal      int              `json:"stock_total"`
	Disponible      bool             `json:"disponible"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
