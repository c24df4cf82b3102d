package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError rejects business-rule violations in caller input:
// bad quantities, inactive cajas, unknown tax types and the like.
type ValidationError struct {
	Detalle string
}

func (e *ValidationError) Error() string { return e.Detalle }

func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Detalle: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a lookup by identifier that matched nothing.
type NotFoundError struct {
	Entidad string
	ID      string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s no encontrado", e.Entidad)
	}
	return fmt.Sprintf("%s %s no encontrado", e.Entidad, e.ID)
}

func NotFound(entidad, id string) *NotFoundError {
	return &NotFoundError{Entidad: entidad, ID: id}
}

// NegativeStockError is returned when an outflow would drive a stock
// entry below zero. The entry is left untouched.
type NegativeStockError struct {
	ProductoID uuid.UUID
	BodegaID   uuid.UUID
	Disponible int
	Solicitado int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en bodega %s: disponible %d, solicitado %d",
		e.ProductoID, e.BodegaID, e.Disponible, e.Solicitado)
}

// DuplicateDocumentError enforces the one-document-per-venta rule.
type DuplicateDocumentError struct {
	VentaID uuid.UUID
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("la venta %s ya tiene un documento tributario emitido", e.VentaID)
}

// InvalidReferenceError rejects notas de crédito / débito whose reference
// is missing, voided, or of the wrong document type.
type InvalidReferenceError struct {
	Motivo string
}

func (e *InvalidReferenceError) Error() string { return e.Motivo }

// ProtectedRelationError blocks deletion of an entity that dependents
// still point at (producto with ventas, bodega with stock, etc).
type ProtectedRelationError struct {
	Entidad     string
	Dependiente string
}

func (e *ProtectedRelationError) Error() string {
	return fmt.Sprintf("no se puede eliminar %s: existen %s asociados", e.Entidad, e.Dependiente)
}
