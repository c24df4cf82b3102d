package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto represents a sellable product in the catalog.
// Availability is not stored: it derives from the aggregate stock across
// bodegas (see InventarioService.TotalStock).
type Producto struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU             string    `gorm:"column:sku;uniqueIndex;not null"`
	CodigoBarra     string    `gorm:"uniqueIndex;not null"`
	NombreProducto  string    `gorm:"uniqueIndex;not null"`
	NombreAbreviado string    `gorm:"uniqueIndex;not null"`
	Descripcion     string    `gorm:"not null"`
	// PrecioVenta may be unset while the product is being registered;
	// a product without price cannot be sold.
	PrecioVenta *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Estado      bool             `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "productos" }
