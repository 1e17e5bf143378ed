package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	Email    string  `json:"email"     validate:"required,email,max=150"`
	Nombre   string  `json:"nombre"    validate:"required,min=2,max=100"`
	Password string  `json:"password"  validate:"required,min=8"`
	Rol      string  `json:"rol"       validate:"required,oneof=SUPER_ADMIN GESTOR_RED GESTOR_TALLER"`
	TallerID *string `json:"taller_id" validate:"omitempty,uuid"`
	RedID    *string `json:"red_id"    validate:"omitempty,uuid"`
}

type ActualizarUsuarioRequest struct {
	Nombre   string  `json:"nombre"    validate:"omitempty,min=2,max=100"`
	Rol      string  `json:"rol"       validate:"omitempty,oneof=SUPER_ADMIN GESTOR_RED GESTOR_TALLER"`
	TallerID *string `json:"taller_id" validate:"omitempty,uuid"`
	RedID    *string `json:"red_id"    validate:"omitempty,uuid"`
	Password string  `json:"password"  validate:"omitempty,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Nombre   string  `json:"nombre"`
	Rol      string  `json:"rol"`
	TallerID *string `json:"taller_id"`
	RedID    *string `json:"red_id"`
	Activo   bool    `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
