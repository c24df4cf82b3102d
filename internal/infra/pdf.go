package infra

// Thermal-receipt style PDF rendition of an emitted tax document. A7-ish
// custom size (74x105mm) to match 80mm roll printers.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmcstoltze/aplicacion-pos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateDocumentoPDF writes the printable representation of a documento
// and returns the absolute path of the generated file.
func GenerateDocumentoPDF(doc *model.DocumentoTributario, razonSocial, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	codigo, _ := CodigoDTE(doc.TipoDocumento)
	fileName := fmt.Sprintf("dte_%d_%d.pdf", codigo, doc.Folio)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, razonSocial, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, doc.TipoDocumento+" Electrónica", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Folio N° %d", doc.Folio), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, doc.FechaEmision.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Descripción", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range doc.Items {
		nombre := item.Descripcion
		if len(nombre) > 22 {
			nombre = nombre[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.TotalItem.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 5, "Neto:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "$"+doc.TotalNeto.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 5, "IVA:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "$"+doc.TotalIVA.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+doc.TotalDocumento.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Medio de pago:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, doc.MedioPago, "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
