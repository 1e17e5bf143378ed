package handler

import (
	"net/http"

	"tallerpro/internal/middleware"
	"tallerpro/internal/service"

	"github.com/gin-gonic/gin"
)

type TalleresHandler struct{ svc service.TallerService }

func NewTalleresHandler(svc service.TallerService) *TalleresHandler {
	return &TalleresHandler{svc: svc}
}

// Listar returns only the workshops inside the caller's scope.
func (h *TalleresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.AuthContext(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
