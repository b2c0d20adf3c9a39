package handler

import (
	"net/http"

	"camher/internal/dto"
	"camher/internal/service"

	"github.com/gin-gonic/gin"
)

type UnidadesHandler struct{ svc service.UnidadService }

func NewUnidadesHandler(svc service.UnidadService) *UnidadesHandler {
	return &UnidadesHandler{svc: svc}
}

// Crear godoc
// @Summary      Alta de unidad
// @Tags         unidades
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GuardarUnidadRequest true "Nombre de la unidad"
// @Success      201  {object} dto.UnidadResponse
// @Router       /v1/unidades [post]
func (h *UnidadesHandler) Crear(c *gin.Context) {
	var req dto.GuardarUnidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar unidades
// @Tags         unidades
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.UnidadResponse
// @Router       /v1/unidades [get]
func (h *UnidadesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
