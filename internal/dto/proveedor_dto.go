package dto

type GuardarProveedorRequest struct {
	Nombre string `json:"nombre" validate:"required"`
	Email  string `json:"email"  validate:"required,email"`
}

type ProveedorResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Activo bool   `json:"activo"`
}

type GuardarUnidadRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

type UnidadResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}
