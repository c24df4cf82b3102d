package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tax classification for a sale line.
const (
	ImpuestoAfecto = "Afecto"
	ImpuestoExento = "Exento"
)

// Venta is a committed register sale. Created once at checkout and never
// structurally mutated afterwards — only the estado flag changes on
// anulación. Totals always satisfy:
//
//	total_venta = total_neto + total_iva - total_dscto
//
// which the service enforces by construction, never from caller input.
type Venta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FechaVenta time.Time       `gorm:"not null;autoCreateTime"`
	TotalNeto  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalIVA   decimal.Decimal `gorm:"type:decimal(10,2);not null;column:total_iva"`
	TotalVenta decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalDscto decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Estado     bool            `gorm:"not null;default:true"` // true = activa, false = anulada
	CajaID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID  *uuid.UUID      `gorm:"type:uuid"`
	ClienteID  *uuid.UUID      `gorm:"type:uuid"`
	EmpresaID  *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items   []ItemVenta `gorm:"foreignKey:VentaID"`
	Caja    *Caja       `gorm:"foreignKey:CajaID;constraint:OnDelete:RESTRICT"`
	Usuario *Usuario    `gorm:"foreignKey:UsuarioID;constraint:OnDelete:SET NULL"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID;constraint:OnDelete:SET NULL"`
	Empresa *Empresa    `gorm:"foreignKey:EmpresaID;constraint:OnDelete:SET NULL"`
}

func (Venta) TableName() string { return "ventas" }

// ItemVenta is one line of a venta. Invariant:
//
//	total_item = cantidad*precio_unitario - descuento + valor_impuesto >= 0
type ItemVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TipoImpuesto   string          `gorm:"type:varchar(20);not null"` // Afecto | Exento
	ValorImpuesto  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TotalItem      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID;constraint:OnDelete:RESTRICT"`
}

func (ItemVenta) TableName() string { return "items_venta" }
