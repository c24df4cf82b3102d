package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConciliacionService recomputes a document's figures from its venta and
// reports every mismatch. It never mutates anything: reconciliation is a
// read-only audit, repairs are a human decision.
type ConciliacionService struct {
	documentos repository.DocumentoRepository
	ventas     repository.VentaRepository
}

func NewConciliacionService(documentos repository.DocumentoRepository, ventas repository.VentaRepository) *ConciliacionService {
	return &ConciliacionService{documentos: documentos, ventas: ventas}
}

// Verificar audits a document against its originating venta.
func (s *ConciliacionService) Verificar(ctx context.Context, documentoID uuid.UUID) (*dto.ConciliacionResponse, error) {
	doc, err := s.documentos.FindByID(ctx, documentoID)
	if err != nil {
		return nil, err
	}
	venta, err := s.ventas.FindByID(ctx, doc.VentaID)
	if err != nil {
		return nil, err
	}

	var discrepancias []dto.Discrepancia
	agregar := func(campo string, esperado, actual string) {
		discrepancias = append(discrepancias, dto.Discrepancia{
			Campo: campo, Esperado: esperado, Actual: actual,
		})
	}
	comparar := func(campo string, esperado, actual decimal.Decimal) {
		if !esperado.Equal(actual) {
			agregar(campo, esperado.String(), actual.String())
		}
	}

	// Voiding must propagate: an active documento over an anulada venta is
	// an inconsistency, not an error.
	if doc.Estado && !venta.Estado {
		agregar("documento.estado", "false (venta anulada)", "true")
	}

	// Notas must point at an existing, active factura or boleta.
	if esNota(doc.TipoDocumento) {
		if doc.DocumentoReferenciaID == nil {
			agregar("documento.referencia", "documento de referencia", "ausente")
		} else {
			ref, err := s.documentos.FindByID(ctx, *doc.DocumentoReferenciaID)
			var nf *domain.NotFoundError
			switch {
			case errors.As(err, &nf):
				agregar("documento.referencia", "documento existente", "inexistente")
			case err != nil:
				return nil, err
			default:
				if !ref.Estado {
					agregar("documento.referencia.estado", "true", "false")
				}
				if ref.TipoDocumento != model.DocumentoFactura && ref.TipoDocumento != model.DocumentoBoleta {
					agregar("documento.referencia.tipo", "Factura o Boleta", ref.TipoDocumento)
				}
			}
		}
	}

	// The venta's own identity: a corrupt venta makes every downstream
	// comparison suspect.
	ventaEsperada := venta.TotalNeto.Add(venta.TotalIVA).Sub(venta.TotalDscto)
	comparar("venta.total_venta", ventaEsperada, venta.TotalVenta)

	// Each venta line must satisfy its own total.
	for i, it := range venta.Items {
		bruto := it.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		esperado := bruto.Sub(it.Descuento).Add(it.ValorImpuesto)
		comparar(fmt.Sprintf("venta.items[%d].total_item", i), esperado, it.TotalItem)
	}

	// Document totals against the venta.
	comparar("documento.total_neto", venta.TotalNeto.Sub(venta.TotalDscto), doc.TotalNeto)
	comparar("documento.total_iva", venta.TotalIVA, doc.TotalIVA)
	comparar("documento.total_documento", venta.TotalVenta, doc.TotalDocumento)

	// Document totals against its own lines.
	var sumaItems decimal.Decimal
	for _, it := range doc.Items {
		sumaItems = sumaItems.Add(it.TotalItem)
	}
	comparar("documento.suma_items", sumaItems, doc.TotalDocumento)

	if len(doc.Items) != len(venta.Items) {
		agregar("documento.items",
			fmt.Sprintf("%d", len(venta.Items)),
			fmt.Sprintf("%d", len(doc.Items)))
	}

	// Line-by-line comparison only makes sense when counts match.
	if len(doc.Items) == len(venta.Items) {
		porItemVenta := make(map[uuid.UUID]*model.ItemDocumento, len(doc.Items))
		for i := range doc.Items {
			if doc.Items[i].ItemVentaID != nil {
				porItemVenta[*doc.Items[i].ItemVentaID] = &doc.Items[i]
			}
		}
		for i, iv := range venta.Items {
			id, ok := porItemVenta[iv.ID]
			if !ok {
				continue
			}
			if id.Cantidad != iv.Cantidad {
				agregar(fmt.Sprintf("documento.items[%d].cantidad", i),
					fmt.Sprintf("%d", iv.Cantidad), fmt.Sprintf("%d", id.Cantidad))
			}
			comparar(fmt.Sprintf("documento.items[%d].precio_unitario", i), iv.PrecioUnitario, id.PrecioUnitario)
			comparar(fmt.Sprintf("documento.items[%d].total_item", i), iv.TotalItem, id.TotalItem)
		}
	}

	return &dto.ConciliacionResponse{
		DocumentoID:   documentoID.String(),
		Consistente:   len(discrepancias) == 0,
		Discrepancias: discrepancias,
	}, nil
}
