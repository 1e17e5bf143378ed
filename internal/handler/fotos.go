package handler

import (
	"errors"
	"net/http"
	"time"

	"tallerpro/internal/apierror"
	"tallerpro/internal/middleware"
	"tallerpro/internal/service"

	"github.com/gin-gonic/gin"
)

// MaxFotoBytes caps a single upload.
const MaxFotoBytes = 15 << 20

type FotosHandler struct{ svc service.FotoService }

func NewFotosHandler(svc service.FotoService) *FotosHandler { return &FotosHandler{svc: svc} }

func (h *FotosHandler) Listar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.AuthContext(c), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Subir godoc
// @Summary Sube una foto o documento a la valoracion
// @Tags valoraciones
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Valoracion"
// @Param archivo formData file true "Imagen o PDF"
// @Success 201 {object} dto.FotoResponse
// @Failure 413 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/valoraciones/{id}/fotos [post]
func (h *FotosHandler) Subir(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFotoBytes+1<<20)
	fh, err := c.FormFile("archivo")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("El archivo es demasiado grande"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo"))
		return
	}
	if fh.Size > MaxFotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("El archivo es demasiado grande"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		responderError(c, err)
		return
	}
	defer f.Close()

	resp, err := h.svc.Subir(c.Request.Context(), middleware.AuthContext(c), id, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FotosHandler) Borrar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	fotoID, ok := paramID(c, "foto_id")
	if !ok {
		return
	}
	if err := h.svc.Borrar(c.Request.Context(), middleware.AuthContext(c), id, fotoID); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Descargar serves a stored file behind a signed token; it is mounted
// outside the JWT group.
func (h *FotosHandler) Descargar(c *gin.Context) {
	a, err := h.svc.Descargar(c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrSinPermiso) {
			c.JSON(http.StatusForbidden, apierror.New("Enlace invalido o expirado"))
			return
		}
		responderError(c, err)
		return
	}
	defer a.Contenido.Close()
	c.Header("Cache-Control", "private, max-age=300")
	http.ServeContent(c.Writer, c.Request, a.Nombre, time.Time{}, a.Contenido)
}
