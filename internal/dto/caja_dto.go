package dto

type CrearCajaRequest struct {
	NumeroCaja string `json:"numero_caja" validate:"required"`
	NombreCaja string `json:"nombre_caja" validate:"required"`
	SucursalID string `json:"sucursal_id" validate:"required,uuid"`
}

type AsignarCajaRequest struct {
	UsuarioID string `json:"usuario_id" validate:"required,uuid"`
}

type CajaResponse struct {
	ID           string  `json:"id"`
	NumeroCaja   string  `json:"numero_caja"`
	NombreCaja   string  `json:"nombre_caja"`
	Estado       bool    `json:"estado"`
	EstaAsignada bool    `json:"esta_asignada"`
	UsuarioID    *string `json:"usuario_id,omitempty"`
	SucursalID   string  `json:"sucursal_id"`
}
