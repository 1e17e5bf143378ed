package handler

import (
	"net/http"

	"tallerpro/internal/dto"
	"tallerpro/internal/middleware"
	"tallerpro/internal/service"

	"github.com/gin-gonic/gin"
)

type FacturasHandler struct {
	svc  service.FacturaService
	docs service.DocumentoService
}

func NewFacturasHandler(svc service.FacturaService, docs service.DocumentoService) *FacturasHandler {
	return &FacturasHandler{svc: svc, docs: docs}
}

// Crear godoc
// @Summary Crea una factura con sus lineas
// @Tags facturas
// @Accept json
// @Produce json
// @Param body body dto.GuardarFacturaRequest true "Factura"
// @Success 201 {object} dto.FacturaResponse
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/facturas [post]
func (h *FacturasHandler) Crear(c *gin.Context) {
	var req dto.GuardarFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.AuthContext(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.AuthContext(c), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.AuthContext(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.GuardarFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.AuthContext(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) MarcarPagada(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.MarcarPagadaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.MarcarPagada(c.Request.Context(), middleware.AuthContext(c), id, req.Pagada); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Calcular godoc
// @Summary Previsualiza los totales de unas lineas sin guardarlas
// @Tags facturas
// @Accept json
// @Produce json
// @Param body body dto.CalcularFacturaRequest true "Lineas"
// @Success 200 {object} dto.TotalesFacturaResponse
// @Security BearerAuth
// @Router /v1/facturas/calcular [post]
func (h *FacturasHandler) Calcular(c *gin.Context) {
	var req dto.CalcularFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.svc.Calcular(req))
}

func (h *FacturasHandler) PDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	a, err := h.docs.FacturaPDF(c.Request.Context(), middleware.AuthContext(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	servirAdjunto(c, a)
}

func (h *FacturasHandler) Enviar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.EnviarInformeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.docs.EnviarFactura(c.Request.Context(), middleware.AuthContext(c), id, req.Email); err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"encolado": true})
}
