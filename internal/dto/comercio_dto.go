package dto

// ─── Sucursales ──────────────────────────────────────────────────────────────

type CrearSucursalRequest struct {
	NombreSucursal string `json:"nombre_sucursal" validate:"required"`
	Email          string `json:"email"           validate:"required,email"`
	Telefono       string `json:"telefono"        validate:"required"`
	EsCasaMatriz   bool   `json:"es_casa_matriz"`
	ComercioID     string `json:"comercio_id"     validate:"required,uuid"`
}

type SucursalResponse struct {
	ID             string `json:"id"`
	NombreSucursal string `json:"nombre_sucursal"`
	Email          string `json:"email"`
	Telefono       string `json:"telefono"`
	EsCasaMatriz   bool   `json:"es_casa_matriz"`
	EstaAsignada   bool   `json:"esta_asignada"`
	Estado         bool   `json:"estado"`
	ComercioID     string `json:"comercio_id"`
}

// ─── Bodegas ─────────────────────────────────────────────────────────────────

type CrearBodegaRequest struct {
	NombreBodega string  `json:"nombre_bodega" validate:"required"`
	EsPrincipal  bool    `json:"es_principal"`
	SucursalID   *string `json:"sucursal_id" validate:"omitempty,uuid"`
}

type BodegaResponse struct {
	ID           string  `json:"id"`
	NombreBodega string  `json:"nombre_bodega"`
	EsPrincipal  bool    `json:"es_principal"`
	SucursalID   *string `json:"sucursal_id,omitempty"`
}
