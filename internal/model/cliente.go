package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a natural-person customer identified by RUT.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RUT       string    `gorm:"column:rut;uniqueIndex;not null"`
	Nombres   string    `gorm:"not null"`
	ApPaterno string    `gorm:"not null"`
	ApMaterno string
	Telefono  string
	Email     string
	Direccion string
	Estado    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

// Empresa is a company customer. Facturas are typically issued against an
// empresa rather than a cliente.
type Empresa struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RUTEmpresa    string    `gorm:"column:rut_empresa;uniqueIndex;not null"`
	NombreEmpresa string    `gorm:"not null"`
	RazonSocial   string    `gorm:"not null"`
	Giro          string    `gorm:"not null"`
	Direccion     string
	Telefono      string
	Email         string
	// RepresentanteID links the empresa to its legal representative.
	RepresentanteID *uuid.UUID `gorm:"type:uuid"`
	Estado          bool       `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Representante *Cliente `gorm:"foreignKey:RepresentanteID"`
}

func (Empresa) TableName() string { return "empresas" }
