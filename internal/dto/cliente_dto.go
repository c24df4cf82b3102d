package dto

// ─── Clientes ────────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	RUT       string `json:"rut"        validate:"required"`
	Nombres   string `json:"nombres"    validate:"required"`
	ApPaterno string `json:"ap_paterno" validate:"required"`
	ApMaterno string `json:"ap_materno"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"      validate:"omitempty,email"`
	Direccion string `json:"direccion"`
}

type ActualizarClienteRequest struct {
	Nombres   string `json:"nombres"    validate:"required"`
	ApPaterno string `json:"ap_paterno" validate:"required"`
	ApMaterno string `json:"ap_materno"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"      validate:"omitempty,email"`
	Direccion string `json:"direccion"`
}

type ClienteResponse struct {
	ID        string `json:"id"`
	RUT       string `json:"rut"`
	Nombres   string `json:"nombres"`
	ApPaterno string `json:"ap_paterno"`
	ApMaterno string `json:"ap_materno,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	Email     string `json:"email,omitempty"`
	Direccion string `json:"direccion,omitempty"`
	Estado    bool   `json:"estado"`
}

// ─── Empresas ────────────────────────────────────────────────────────────────

type CrearEmpresaRequest struct {
	RUTEmpresa      string  `json:"rut_empresa"    validate:"required"`
	NombreEmpresa   string  `json:"nombre_empresa" validate:"required"`
	RazonSocial     string  `json:"razon_social"   validate:"required"`
	Giro            string  `json:"giro"           validate:"required"`
	Direccion       string  `json:"direccion"`
	Telefono        string  `json:"telefono"`
	Email           string  `json:"email"          validate:"omitempty,email"`
	RepresentanteID *string `json:"representante_id" validate:"omitempty,uuid"`
}

type ActualizarEmpresaRequest struct {
	NombreEmpresa string `json:"nombre_empresa" validate:"required"`
	RazonSocial   string `json:"razon_social"   validate:"required"`
	Giro          string `json:"giro"           validate:"required"`
	Direccion     string `json:"direccion"`
	Telefono      string `json:"telefono"`
	Email         string `json:"email"          validate:"omitempty,email"`
}

type EmpresaResponse struct {
	ID              string  `json:"id"`
	RUTEmpresa      string  `json:"rut_empresa"`
	NombreEmpresa   string  `json:"nombre_empresa"`
	RazonSocial     string  `json:"razon_social"`
	Giro            string  `json:"giro"`
	Direccion       string  `json:"direccion,omitempty"`
	Telefono        string  `json:"telefono,omitempty"`
	Email           string  `json:"email,omitempty"`
	RepresentanteID *string `json:"representante_id,omitempty"`
	Estado          bool    `json:"estado"`
}
