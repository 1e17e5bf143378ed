package handler

import (
	"net/http"

	"tallerpro/internal/dto"
	"tallerpro/internal/middleware"
	"tallerpro/internal/service"
	"tallerpro/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ValoracionesHandler struct{ svc service.ValoracionService }

func NewValoracionesHandler(svc service.ValoracionService) *ValoracionesHandler {
	return &ValoracionesHandler{svc: svc}
}

// Listar godoc
// @Summary Lista valoraciones visibles para el usuario
// @Tags valoraciones
// @Produce json
// @Param estado query string false "pendiente | en_curso | finalizado"
// @Param matricula query string false "Busqueda parcial"
// @Param taller_id query string false "Taller"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamano de pagina"
// @Success 200 {object} dto.ValoracionListResponse
// @Security BearerAuth
// @Router /v1/valoraciones [get]
func (h *ValoracionesHandler) Listar(c *gin.Context) {
	var filter dto.ValoracionFilter
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

// Tablero godoc
// @Summary Valoraciones agrupadas por estado
// @Tags valoraciones
// @Produce json
// @Success 200 {object} dto.TableroResponse
// @Security BearerAuth
// @Router /v1/valoraciones/tablero [get]
func (h *ValoracionesHandler) Tablero(c *gin.Context) {
	resp, err := h.svc.Tablero(c.Request.Context(), middleware.AuthContext(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ValoracionesHandler) Crear(c *gin.Context) {
	var req dto.CrearValoracionRequest
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

func (h *ValoracionesHandler) Obtener(c *gin.Context) {
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

func (h *ValoracionesHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarValoracionRequest
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

// CambiarEstado godoc
// @Summary Cambia el estado de una valoracion
// @Tags valoraciones
// @Accept json
// @Produce json
// @Param id path string true "Valoracion"
// @Param body body dto.CambiarEstadoRequest true "Estado destino"
// @Success 200 {object} dto.TransicionResponse
// @Failure 422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router /v1/valoraciones/{id}/estado [post]
func (h *ValoracionesHandler) CambiarEstado(c *gin.Context) {
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.transicionar(c, workflow.CambiarEstado(workflow.Estado(req.Estado)))
}

func (h *ValoracionesHandler) AsignarValorador(c *gin.Context) {
	var req dto.AsignarValoradorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.transicionar(c, workflow.Asignar(uuid.MustParse(req.ValoradorID)))
}

func (h *ValoracionesHandler) DesasignarValorador(c *gin.Context) {
	h.transicionar(c, workflow.Desasignar())
}

func (h *ValoracionesHandler) SiniestroTotal(c *gin.Context) {
	h.transicionar(c, workflow.MarcarSiniestroTotal())
}

// transicionar applies the action and, when something changed, appends the
// audit line to the activity log. A failed audit line does not undo the
// transition.
func (h *ValoracionesHandler) transicionar(c *gin.Context, accion workflow.Accion) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	auth := middleware.AuthContext(c)
	resp, err := h.svc.Transicionar(c.Request.Context(), auth, id, accion)
	if err != nil {
		responderError(c, err)
		return
	}
	if resp.Cambio {
		texto := workflow.Descripcion(accion, middleware.GetClaims(c).Nombre)
		if _, err := h.svc.Comentar(c.Request.Context(), auth, id, texto, true); err != nil {
			log.Warn().Err(err).Str("valoracion_id", id.String()).Msg("no se pudo registrar el comentario de auditoria")
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ValoracionesHandler) ListarComentarios(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarComentarios(c.Request.Context(), middleware.AuthContext(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ValoracionesHandler) Comentar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CrearComentarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Comentar(c.Request.Context(), middleware.AuthContext(c), id, req.Texto, false)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
