package service

import (
	"context"

	"tallerpro/internal/dto"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/viewmodel"
)

// TallerService lists the workshops a caller can pick in forms and filters.
type TallerService interface {
	Listar(ctx context.Context, auth scope.AuthContext) ([]dto.TallerResponse, error)
}

type tallerService struct {
	acceso
}

func NewTallerService(talleres repository.TallerRepository) TallerService {
	return &tallerService{acceso: acceso{talleres: talleres}}
}

func (s *tallerService) Listar(ctx context.Context, auth scope.AuthContext) ([]dto.TallerResponse, error) {
	out := []dto.TallerResponse{}
	sc, err := s.scope(ctx, auth)
	if err != nil {
		return nil, err
	}
	if sc.Vacio() {
		return out, nil
	}
	ts, err := s.talleres.List(ctx, sc)
	if err != nil {
		return nil, err
	}
	for _, t := range ts {
		out = append(out, viewmodel.Taller(t))
	}
	return out, nil
}
