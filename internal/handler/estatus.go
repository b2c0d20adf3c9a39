package handler

import (
	"net/http"

	"camher/internal/service"

	"github.com/gin-gonic/gin"
)

// ListarEstatus godoc
// @Summary      Catálogo de estatus
// @Description  Tabla de metadatos por estatus (etiqueta, rol que actúa, archivos requeridos, visibilidad). Única fuente de verdad para las vistas.
// @Tags         estatus
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.EstatusInfoResponse
// @Router       /v1/estatus [get]
func ListarEstatus(c *gin.Context) {
	c.JSON(http.StatusOK, service.ListarEstatus())
}
