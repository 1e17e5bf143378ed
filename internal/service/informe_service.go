package service

import (
	"context"
	"encoding/json"
	"strings"

	"tallerpro/internal/dto"
	"tallerpro/internal/model"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/viewmodel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type InformeService interface {
	// Obtener returns (nil, nil) when the valuation has no report yet.
	Obtener(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID) (*dto.InformeResponse, error)
	Guardar(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID, req dto.GuardarInformeRequest) (*dto.InformeResponse, error)
}

type informeService struct {
	acceso
	repo         repository.InformeRepository
	valoraciones repository.ValoracionRepository
}

func NewInformeService(repo repository.InformeRepository, valoraciones repository.ValoracionRepository, talleres repository.TallerRepository) InformeService {
	return &informeService{acceso: acceso{talleres: talleres}, repo: repo, valoraciones: valoraciones}
}

func (s *informeService) Obtener(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID) (*dto.InformeResponse, error) {
	if _, err := s.valoracionVisible(ctx, s.valoraciones, auth, valoracionID); err != nil {
		return nil, err
	}
	i, err := s.repo.FindByValoracion(ctx, valoracionID)
	if err != nil || i == nil {
		return nil, err
	}
	resp := viewmodel.Informe(*i)
	return &resp, nil
}

func (s *informeService) Guardar(ctx context.Context, auth scope.AuthContext, valoracionID uuid.UUID, req dto.GuardarInformeRequest) (*dto.InformeResponse, error) {
	if _, err := s.valoracionVisible(ctx, s.valoraciones, auth, valoracionID); err != nil {
		return nil, err
	}
	danos := make([]model.DanoInforme, 0, len(req.Danos))
	for _, d := range req.Danos {
		d.Pieza = strings.TrimSpace(d.Pieza)
		d.Operacion = strings.TrimSpace(d.Operacion)
		danos = append(danos, model.DanoInforme(d))
	}
	raw, err := json.Marshal(danos)
	if err != nil {
		return nil, err
	}
	i := &model.InformeValoracion{
		ValoracionID:  valoracionID,
		CuerpoHTML:    req.CuerpoHTML,
		Danos:         datatypes.JSON(raw),
		Observaciones: strings.TrimSpace(req.Observaciones),
	}
	if err := s.repo.Upsert(ctx, i); err != nil {
		return nil, err
	}
	resp := viewmodel.Informe(*i)
	return &resp, nil
}
