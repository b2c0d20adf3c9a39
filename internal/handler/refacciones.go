package handler

import (
	"context"
	"net/http"

	"camher/internal/apierror"
	"camher/internal/dto"
	"camher/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RefaccionesHandler struct{ svc service.RefaccionService }

func NewRefaccionesHandler(svc service.RefaccionService) *RefaccionesHandler {
	return &RefaccionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear solicitud de refacción
// @Description  Crea una refacción en estatus Creada con sus renglones; registra la primera entrada de historial.
// @Tags         refacciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GuardarRefaccionRequest true "Detalle de la solicitud"
// @Success      201  {object} dto.RefaccionResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/refacciones [post]
func (h *RefaccionesHandler) Crear(c *gin.Context) {
	var req dto.GuardarRefaccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorDe(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Editar godoc
// @Summary      Editar refacción
// @Description  Edita una refacción en estatus Borrador o Creada. El estatus resultante se recalcula (proveedor/precio). Escritura optimista: 409 si la versión leída ya no es la vigente.
// @Tags         refacciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la refacción"
// @Param        body body dto.GuardarRefaccionRequest true "Detalle actualizado"
// @Success      200  {object} dto.RefaccionResponse
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/refacciones/{id} [put]
func (h *RefaccionesHandler) Editar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.GuardarRefaccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Editar(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar refacción
// @Description  Elimina una refacción editable (estatus Borrador o Creada) junto con renglones y archivos.
// @Tags         refacciones
// @Security     BearerAuth
// @Param        id path string true "UUID de la refacción"
// @Success      204
// @Failure      403 {object} apierror.APIError
// @Router       /v1/refacciones/{id} [delete]
func (h *RefaccionesHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), actorDe(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Detalle godoc
// @Summary      Detalle de refacción
// @Produce      json
// @Security     BearerAuth
// @Tags         refacciones
// @Param        id path string true "UUID de la refacción"
// @Success      200 {object} dto.RefaccionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/refacciones/{id} [get]
func (h *RefaccionesHandler) Detalle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerDetalle(c.Request.Context(), actorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar refacciones
// @Description  Lista paginada, acotada al rol: taller ve las propias, proveedor las asignadas, contador la cola de facturación, admin todas.
// @Tags         refacciones
// @Produce      json
// @Security     BearerAuth
// @Param        estatus query int false "Filtrar por estatus (-1..6)"
// @Param        page    query int false "Página (default 1)"
// @Param        limit   query int false "Registros por página (default 50)"
// @Success      200 {object} dto.RefaccionListResponse
// @Router       /v1/refacciones [get]
func (h *RefaccionesHandler) Listar(c *gin.Context) {
	var filter dto.RefaccionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), actorDe(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary      Historial de estatus
// @Description  Bitácora inmutable de transiciones, en orden cronológico.
// @Tags         refacciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la refacción"
// @Success      200 {array} dto.HistorialItemResponse
// @Router       /v1/refacciones/{id}/historial [get]
func (h *RefaccionesHandler) Historial(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	items, err := h.svc.Historial(c.Request.Context(), actorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ── Acciones ──────────────────────────────────────────────────────────────────

// Aprobar godoc
// @Summary      Aprobar (administración)
// @Description  Revisión Admin → Revisión Proveedor.
// @Tags         refacciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la refacción"
// @Success      200 {object} dto.RefaccionResponse
// @Failure      403 {object} apierror.APIError
// @Router       /v1/refacciones/{id}/aprobar [post]
func (h *RefaccionesHandler) Aprobar(c *gin.Context) {
	h.accion(c, h.svc.AprobarAdmin)
}

// Rechazar godoc
// @Summary      Rechazar (administración)
// @Description  Revisión Admin → Devuelta al taller.
// @Tags         refacciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la refacción"
// @Success      200 {object} dto.RefaccionResponse
// @Router       /v1/refacciones/{id}/rechazar [post]
func (h *RefaccionesHandler) Rechazar(c *gin.Context) {
	h.accion(c, h.svc.RechazarAdmin)
}

// Aceptar godoc
// @Summary      Aceptar solicitud (proveedor asignado)
// @Description  Revisión Proveedor → Esperando factura.
// @Tags         refacciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la refacción"
// @Success      200 {object} dto.RefaccionResponse
// @Router       /v1/refacciones/{id}/aceptar [post]
func (h *RefaccionesHandler) Aceptar(c *gin.Context) {
	h.accion(c, h.svc.AceptarProveedor)
}

// Devolver godoc
// @Summary      Devolver al taller (proveedor asignado)
// @Description  Revisión Proveedor → Devuelta al taller.
// @Tags         refacciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la refacción"
// @Success      200 {object} dto.RefaccionResponse
// @Router       /v1/refacciones/{id}/devolver [post]
func (h *RefaccionesHandler) Devolver(c *gin.Context) {
	h.accion(c, h.svc.RechazarProveedor)
}

// Cancelar godoc
// @Summary      Cancelar refacción
// @Description  Cualquier estatus no terminal → Cancelada. Permitido a administración o al taller solicitante.
// @Tags         refacciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la refacción"
// @Success      200 {object} dto.RefaccionResponse
// @Router       /v1/refacciones/{id}/cancelar [post]
func (h *RefaccionesHandler) Cancelar(c *gin.Context) {
	h.accion(c, h.svc.Cancelar)
}

// SubirFactura godoc
// @Summary      Subir factura (proveedor asignado)
// @Description  Registra el archivo de factura y avanza a Esperando contrarecibo en una sola transacción.
// @Tags         refacciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la refacción"
// @Param        body body dto.SubirFacturaRequest true "Ruta del archivo y datos de la factura"
// @Success      200  {object} dto.RefaccionResponse
// @Router       /v1/refacciones/{id}/factura [post]
func (h *RefaccionesHandler) SubirFactura(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.SubirFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SubirFactura(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubirContrarecibo godoc
// @Summary      Subir contrarecibo (contabilidad)
// @Description  Registra el contrarecibo y cierra la refacción (Completada) en una sola transacción.
// @Tags         refacciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la refacción"
// @Param        body body dto.SubirContrareciboRequest true "Ruta del archivo"
// @Success      200  {object} dto.RefaccionResponse
// @Router       /v1/refacciones/{id}/contrarecibo [post]
func (h *RefaccionesHandler) SubirContrarecibo(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.SubirContrareciboRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SubirContrarecibo(c.Request.Context(), actorDe(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubirIncidente godoc
// @Summary      Adjuntar evidencia de incidente (taller)
// @Description  Registra el archivo de evidencia sin mover el estatus.
// @Tags         refacciones
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la refacción"
// @Param        body body dto.SubirIncidenteRequest true "Ruta del archivo"
// @Success      204
// @Router       /v1/refacciones/{id}/incidente [post]
func (h *RefaccionesHandler) SubirIncidente(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.SubirIncidenteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SubirIncidente(c.Request.Context(), actorDe(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// accion factors the shared shape of parameterless transition endpoints.
func (h *RefaccionesHandler) accion(c *gin.Context, fn func(ctx context.Context, actor service.Actor, id uuid.UUID) (*dto.RefaccionResponse, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), actorDe(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
