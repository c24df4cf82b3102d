package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document types reported to the SII. The numeric DTE codes live in the
// SII client (infra), not here.
const (
	DocumentoFactura     = "Factura"
	DocumentoBoleta      = "Boleta"
	DocumentoNotaCredito = "Nota de Crédito"
	DocumentoNotaDebito  = "Nota de Débito"
)

// SII submission states for the async worker.
const (
	EstadoSIIPendiente = "pendiente"
	EstadoSIIAceptado  = "aceptado"
	EstadoSIIRechazado = "rechazado"
)

// DocumentoTributario is an electronic tax document (DTE) bound one-to-one
// to a venta. Immutable after emission except for the estado flag and
// motivo_anulacion. The (folio, tipo_documento) pair is unique; the venta
// relation is unique and deletion-protected.
type DocumentoTributario struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio         int             `gorm:"not null;uniqueIndex:idx_folio_tipo"`
	TipoDocumento string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_folio_tipo"`
	FechaEmision  time.Time       `gorm:"not null;autoCreateTime"`
	TotalNeto     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalIVA      decimal.Decimal `gorm:"type:decimal(10,2);not null;column:total_iva"`
	TotalDocumento decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MedioPago     string          `gorm:"not null"`
	Estado        bool            `gorm:"not null;default:true"` // true = emitido, false = anulado
	MotivoAnulacion *string
	VentaID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	// DocumentoReferenciaID points to the prior document a nota de
	// crédito / débito adjusts. Plain nullable self-FK.
	DocumentoReferenciaID *uuid.UUID `gorm:"type:uuid"`
	// TrackIDSII is assigned asynchronously once the SII accepts the DTE.
	TrackIDSII *int64  `gorm:"column:track_id_sii"`
	EstadoSII  string  `gorm:"column:estado_sii;type:varchar(20);not null;default:'pendiente'"`
	PDFPath    *string `gorm:"column:pdf_path"`
	// Retry bookkeeping for the SII submission worker.
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items               []ItemDocumento      `gorm:"foreignKey:DocumentoID"`
	Venta               *Venta               `gorm:"foreignKey:VentaID;constraint:OnDelete:RESTRICT"`
	DocumentoReferencia *DocumentoTributario `gorm:"foreignKey:DocumentoReferenciaID"`
}

func (DocumentoTributario) TableName() string { return "documentos_tributarios" }

// ItemDocumento duplicates the originating ItemVenta fields plus a snapshot
// descripcion, so historical documents stay stable even if the product or
// sale line later changes. ItemVentaID is an optional trace link.
type ItemDocumento struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemVentaID    *uuid.UUID      `gorm:"type:uuid"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TipoImpuesto   string          `gorm:"type:varchar(20);not null"`
	ValorImpuesto  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalItem      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time
}

func (ItemDocumento) TableName() string { return "items_documento" }

// Folio holds the last assigned folio per document type. Advanced with a
// single atomic upsert so concurrent emissions never share a folio.
type Folio struct {
	TipoDocumento string `gorm:"primaryKey;type:varchar(30)"`
	Ultimo        int    `gorm:"not null;default:0"`
}

func (Folio) TableName() string { return "folios" }
