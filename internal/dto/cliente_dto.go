package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type VehiculoInput struct {
	Matricula string `json:"matricula" validate:"required,min=1,max=20"`
	Bastidor  string `json:"bastidor"  validate:"omitempty,max=32"`
	Marca     string `json:"marca"     validate:"omitempty,max=60"`
	Modelo    string `json:"modelo"    validate:"omitempty,max=60"`
}

type CrearClienteRequest struct {
	TallerID  *string         `json:"taller_id" validate:"omitempty,uuid"`
	Nombre    string          `json:"nombre"    validate:"required,min=2,max=150"`
	Empresa   *string         `json:"empresa"   validate:"omitempty,max=150"`
	NIF       string          `json:"nif"       validate:"required,min=1,max=20"`
	Direccion *string         `json:"direccion"`
	Telefono  *string         `json:"telefono"  validate:"omitempty,max=30"`
	Email     *string         `json:"email"     validate:"omitempty,email"`
	Vehiculos []VehiculoInput `json:"vehiculos" validate:"dive"`
}

// ActualizarClienteRequest replaces the client and its whole vehicle list.
type ActualizarClienteRequest struct {
	Nombre    string          `json:"nombre"    validate:"required,min=2,max=150"`
	Empresa   *string         `json:"empresa"   validate:"omitempty,max=150"`
	NIF       string          `json:"nif"       validate:"required,min=1,max=20"`
	Direccion *string         `json:"direccion"`
	Telefono  *string         `json:"telefono"  validate:"omitempty,max=30"`
	Email     *string         `json:"email"     validate:"omitempty,email"`
	Vehiculos []VehiculoInput `json:"vehiculos" validate:"dive"`
}

type ClienteFilter struct {
	Buscar           string `form:"q"`
	TallerID         string `form:"taller_id"`
	IncluirInactivos bool   `form:"incluir_inactivos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VehiculoResponse struct {
	ID        string `json:"id"`
	Matricula string `json:"matricula"`
	Bastidor  string `json:"bastidor"`
	Marca     string `json:"marca"`
	Modelo    string `json:"modelo"`
}

type ClienteResponse struct {
	ID        string             `json:"id"`
	TallerID  string             `json:"taller_id"`
	Nombre    string             `json:"nombre"`
	Empresa   string             `json:"empresa"`
	NIF       string             `json:"nif"`
	Direccion string             `json:"direccion"`
	Telefono  string             `json:"telefono"`
	Email     string             `json:"email"`
	Activo    bool               `json:"activo"`
	Vehiculos []VehiculoResponse `json:"vehiculos"`
}
