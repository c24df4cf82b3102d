package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type EmitirDocumentoRequest struct {
	VentaID       string `json:"venta_id"       validate:"required,uuid"`
	TipoDocumento string `json:"tipo_documento" validate:"required"`
	MedioPago     string `json:"medio_pago"     validate:"required,oneof=efectivo debito credito transferencia cheque"`
	// DocumentoReferenciaID is required for notas de crédito / débito and
	// must be absent for facturas and boletas.
	DocumentoReferenciaID *string `json:"documento_referencia_id" validate:"omitempty,uuid"`
}

type AnularDocumentoRequest struct {
	Motivo string `json:"motivo" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemDocumentoResponse struct {
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	TipoImpuesto   string          `json:"tipo_impuesto"`
	ValorImpuesto  decimal.Decimal `json:"valor_impuesto"`
	TotalItem      decimal.Decimal `json:"total_item"`
}

type DocumentoResponse struct {
	ID                    string                  `json:"id"`
	Folio                 int                     `json:"folio"`
	TipoDocumento         string                  `json:"tipo_documento"`
	VentaID               string                  `json:"venta_id"`
	DocumentoReferenciaID *string                 `json:"documento_referencia_id,omitempty"`
	TotalNeto             decimal.Decimal         `json:"total_neto"`
	TotalIVA              decimal.Decimal         `json:"total_iva"`
	TotalDocumento        decimal.Decimal         `json:"total_documento"`
	MedioPago             string                  `json:"medio_pago"`
	Estado                bool                    `json:"estado"`
	MotivoAnulacion       *string                 `json:"motivo_anulacion,omitempty"`
	TrackIDSII            *int64                  `json:"track_id_sii,omitempty"`
	EstadoSII             string                  `json:"estado_sii"`
	Items                 []ItemDocumentoResponse `json:"items"`
	FechaEmision          string                  `json:"fecha_emision"`
}

// Discrepancia is one reconciliation mismatch: the recomputed (esperado)
// value against the stored (actual) one.
type Discrepancia struct {
	Campo    string `json:"campo"`
	Esperado string `json:"esperado"`
	Actual   string `json:"actual"`
}

type ConciliacionResponse struct {
	DocumentoID   string         `json:"documento_id"`
	Consistente   bool           `json:"consistente"`
	Discrepancias []Discrepancia `json:"discrepancias"`
}
