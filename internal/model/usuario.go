package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is a system operator. Authentication and session handling live in
// an external service; this table only backs the references from Caja and
// Venta plus the seedadmin bootstrap tool.
// Rol: "cajero" | "supervisor" | "administrador"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Estado       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }
