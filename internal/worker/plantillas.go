package worker

import (
	"fmt"

	"camher/internal/model"
)

// PlantillaNotificacion builds the subject and body for a notification tipo.
// Used both by the dispatcher on first emission and by the retry cron, so a
// retried email reads the same as the original.
func PlantillaNotificacion(tipo, refaccionID, unidad, appURL string) (asunto, cuerpo string) {
	link := ""
	if appURL != "" && refaccionID != "" {
		link = fmt.Sprintf("\n\nVer detalle: %s/refacciones/%s", appURL, refaccionID)
	}
	etiquetaUnidad := unidad
	if etiquetaUnidad == "" {
		etiquetaUnidad = "la unidad"
	}

	switch tipo {
	case model.NotifRevisionAdmin:
		return "Camher — refacción pendiente de revisión de administración",
			fmt.Sprintf("Una solicitud de refacción para %s requiere revisión de administración.%s", etiquetaUnidad, link)
	case model.NotifRevisionProveedor:
		return "Camher — nueva solicitud de refacción",
			fmt.Sprintf("Tienes una nueva solicitud de refacción para %s. Se adjunta la orden de compra.%s", etiquetaUnidad, link)
	case model.NotifContrarecibo:
		return "Camher — factura lista para contrarecibo",
			fmt.Sprintf("La refacción para %s ya tiene factura y espera contrarecibo.%s", etiquetaUnidad, link)
	case model.NotifVerificacion:
		return "Camher — verifica tu cuenta",
			"Tu cuenta fue creada y está pendiente de aprobación por un administrador. Te avisaremos cuando puedas ingresar."
	default:
		return "Camher — notificación", "Tienes una notificación pendiente." + link
	}
}
