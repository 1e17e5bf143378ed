package handler

import (
	"net/http"

	"tallerpro/internal/dto"
	"tallerpro/internal/infra"
	"tallerpro/internal/middleware"
	"tallerpro/internal/service"

	"github.com/gin-gonic/gin"
)

type InformesHandler struct {
	svc  service.InformeService
	docs service.DocumentoService
}

func NewInformesHandler(svc service.InformeService, docs service.DocumentoService) *InformesHandler {
	return &InformesHandler{svc: svc, docs: docs}
}

// Obtener answers 204 while the valuation has no report.
func (h *InformesHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.AuthContext(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InformesHandler) Guardar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.GuardarInformeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(c.Request.Context(), middleware.AuthContext(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF godoc
// @Summary Informe de valoracion en PDF
// @Tags valoraciones
// @Produce application/pdf
// @Param id path string true "Valoracion"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /v1/valoraciones/{id}/informe/pdf [get]
func (h *InformesHandler) PDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	a, err := h.docs.InformePDF(c.Request.Context(), middleware.AuthContext(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	servirAdjunto(c, a)
}

func (h *InformesHandler) Enviar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.EnviarInformeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.docs.EnviarInforme(c.Request.Context(), middleware.AuthContext(c), id, req.Email); err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"encolado": true})
}

func servirAdjunto(c *gin.Context, a infra.Adjunto) {
	c.Header("Content-Disposition", `inline; filename="`+a.Nombre+`"`)
	c.Data(http.StatusOK, a.ContentType, a.Datos)
}
