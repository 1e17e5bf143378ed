package dto

type TallerResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	RedID     *string `json:"red_id"`
	CIF       string  `json:"cif"`
	Direccion string  `json:"direccion"`
	Telefono  string  `json:"telefono"`
	Activo    bool    `json:"activo"`
}
