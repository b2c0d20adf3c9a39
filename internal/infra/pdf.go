package infra

// pdf.go — purchase order PDF generation using go-pdf/fpdf.
// When a refacción reaches provider review, the notification email attaches an
// A4 order summarizing unit, line items, total and payment method so the
// provider can quote without logging into the dashboard.

import (
	"fmt"
	"os"
	"path/filepath"

	"camher/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerarOrdenPDF writes the purchase order for a refacción into storagePath
// (created if needed) and returns the absolute file path.
func GenerarOrdenPDF(ref *model.Refaccion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("orden_%s.pdf", ref.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Orden de Compra — Refacción", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Folio %s", ref.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, ref.CreatedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── General data ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "Unidad:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	unidad := ""
	if ref.Unidad != nil {
		unidad = ref.Unidad.Nombre
	}
	pdf.CellFormat(contentW-40, 6, unidad, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "Entrega en:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-40, 6, ref.LugarDisposicion, "", 1, "L", false, 0, "")

	metodo := "Transferencia"
	if ref.EsEfectivo {
		metodo = "Efectivo"
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, "Método de pago:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-40, 6, metodo, "", 1, "L", false, 0, "")

	if ref.FechaRequerida != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, "Requerida para:", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW-40, 6, ref.FechaRequerida.Format("02/01/2006"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Line items ────────────────────────────────────────────────────────────
	col1 := contentW * 0.50 // descripción
	col2 := contentW * 0.14 // cantidad
	col3 := contentW * 0.18 // precio unitario
	col4 := contentW * 0.18 // subtotal

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Descripción", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Cant.", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "P. unitario", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range ref.Renglones {
		desc := r.Descripcion
		if len(desc) > 48 {
			desc = desc[:47] + "…"
		}
		subtotal := r.PrecioUnitario.Mul(decimal.NewFromInt(int64(r.Cantidad)))
		pdf.CellFormat(col1, 6, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", r.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+r.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 8, "$"+ref.Precio.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Work order context ───────────────────────────────────────────────────
	if ref.OrdenTrabajo.Trabajo != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Orden de trabajo", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentW, 5, ref.OrdenTrabajo.Trabajo, "", "L", false)
		if ref.OrdenTrabajo.Observaciones != "" {
			pdf.MultiCell(contentW, 5, "Observaciones: "+ref.OrdenTrabajo.Observaciones, "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
