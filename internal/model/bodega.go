package model

import (
	"time"

	"github.com/google/uuid"
)

// Bodega is a physical stock location, optionally attached to a sucursal.
// Each sucursal has at most one bodega principal — the one sales draw from.
type Bodega struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreBodega string    `gorm:"uniqueIndex;not null"`
	EsPrincipal  bool      `gorm:"not null;default:false"`
	SucursalID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
}

func (Bodega) TableName() string { return "bodegas" }

// StockBodega ties one producto to one bodega with a non-negative quantity.
// The (producto, bodega) pair is unique; adjustments that would drive
// cantidad below zero are rejected at the persistence boundary.
type StockBodega struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_bodega"`
	BodegaID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_bodega"`
	Cantidad   int       `gorm:"not null;default:0;check:cantidad >= 0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Bodega   *Bodega   `gorm:"foreignKey:BodegaID"`
}

func (StockBodega) TableName() string { return "stock_bodegas" }

// MovimientoStock is an immutable entry in the per-bodega stock ledger.
// Tipo: "venta" | "ajuste_manual" | "reposicion"
// Entries are never updated or deleted; corrections add inverse entries.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BodegaID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"type:varchar(20);not null"`
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta_id when tipo = "venta"
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }
