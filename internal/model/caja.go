package model

import (
	"time"

	"github.com/google/uuid"
)

// Caja is a register / point-of-sale terminal inside a sucursal.
// The sucursal relation is deletion-protected; the usuario relation is
// SET NULL (removing the operator never touches the caja).
type Caja struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroCaja   string    `gorm:"not null"` // e.g. "CAJ001"
	NombreCaja   string    `gorm:"not null"` // e.g. "Caja Principal"
	Estado       bool      `gorm:"not null;default:false"`
	EstaAsignada bool      `gorm:"not null;default:false"`
	UsuarioID    *uuid.UUID `gorm:"type:uuid"`
	SucursalID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID;constraint:OnDelete:SET NULL"`
	Sucursal *Sucursal `gorm:"foreignKey:SucursalID;constraint:OnDelete:RESTRICT"`
}

func (Caja) TableName() string { return "cajas" }
