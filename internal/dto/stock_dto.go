package dto

// AjusteStockRequest is a manual inventory adjustment (entrada or salida).
type AjusteStockRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	BodegaID   string `json:"bodega_id"   validate:"required,uuid"`
	// Delta is signed: positive = entrada, negative = salida.
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required"`
}

type StockResponse struct {
	ProductoID string `json:"producto_id"`
	BodegaID   string `json:"bodega_id"`
	Cantidad   int    `json:"cantidad"`
}

type MovimientoStockResponse struct {
	ID            string `json:"id"`
	ProductoID    string `json:"producto_id"`
	BodegaID      string `json:"bodega_id"`
	Tipo          string `json:"tipo"`
	Cantidad      int    `json:"cantidad"`
	StockAnterior int    `json:"stock_anterior"`
	StockNuevo    int    `json:"stock_nuevo"`
	Motivo        string `json:"motivo"`
	CreatedAt     string `json:"created_at"`
}

type MovimientoStockListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

type MovimientoStockFilter struct {
	ProductoID string `form:"producto_id"`
	BodegaID   string `form:"bodega_id"`
	Tipo       string `form:"tipo"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}
