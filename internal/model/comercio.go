package model

import (
	"time"

	"github.com/google/uuid"
)

// Comercio is the legal business that owns the sucursales.
type Comercio struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreComercio string    `gorm:"not null"`
	RazonSocial    string    `gorm:"uniqueIndex;not null"`
	Email          string    `gorm:"not null"`
	Telefono       string    `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Comercio) TableName() string { return "comercios" }

// Sucursal is a physical branch of a comercio. Cajas and bodegas hang off it.
type Sucursal struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreSucursal string    `gorm:"uniqueIndex;not null"`
	Email          string    `gorm:"not null"`
	Telefono       string    `gorm:"not null"`
	EsCasaMatriz   bool      `gorm:"not null;default:false"`
	EstaAsignada   bool      `gorm:"not null;default:false"`
	Estado         bool      `gorm:"not null;default:true"`
	ComercioID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Comercio *Comercio `gorm:"foreignKey:ComercioID"`
}

func (Sucursal) TableName() string { return "sucursales" }
