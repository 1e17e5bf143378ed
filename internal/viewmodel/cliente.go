package viewmodel

import (
	"tallerpro/internal/dto"
	"tallerpro/internal/model"
)

func Cliente(c model.Cliente) dto.ClienteResponse {
	r := dto.ClienteResponse{
		ID:        c.ID.String(),
		TallerID:  c.TallerID.String(),
		Nombre:    c.Nombre,
		Empresa:   Texto(c.Empresa),
		NIF:       c.NIF,
		Direccion: Texto(c.Direccion),
		Telefono:  Texto(c.Telefono),
		Email:     Texto(c.Email),
		Activo:    c.Activo,
		Vehiculos: make([]dto.VehiculoResponse, 0, len(c.Vehiculos)),
	}
	for _, v := range c.Vehiculos {
		r.Vehiculos = append(r.Vehiculos, dto.VehiculoResponse{
			ID:        v.ID.String(),
			Matricula: v.Matricula,
			Bastidor:  v.Bastidor,
			Marca:     v.Marca,
			Modelo:    v.Modelo,
		})
	}
	return r
}

func Taller(t model.Taller) dto.TallerResponse {
	return dto.TallerResponse{
		ID:        t.ID.String(),
		Nombre:    t.Nombre,
		RedID:     idPtr(t.RedID),
		CIF:       t.CIF,
		Direccion: Texto(t.Direccion),
		Telefono:  Texto(t.Telefono),
		Activo:    t.Activo,
	}
}

func Usuario(u model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Nombre:   u.Nombre,
		Rol:      u.Rol,
		TallerID: idPtr(u.TallerID),
		RedID:    idPtr(u.RedID),
		Activo:   u.Activo,
	}
}
