package service

import (
	"context"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Encolador pushes background jobs after a document is committed. Nil in
// unit tests; backed by the Redis dispatcher in production.
type Encolador interface {
	EnqueueDTE(ctx context.Context, documentoID uuid.UUID) error
}

// DocumentoService emits and voids electronic tax documents. Emission locks
// the venta row, so two concurrent requests for the same venta serialize and
// the loser gets a DuplicateDocumentError instead of a second document.
type DocumentoService struct {
	documentos repository.DocumentoRepository
	ventas     repository.VentaRepository
	folios     repository.FolioRepository
	jobs       Encolador
}

func NewDocumentoService(
	documentos repository.DocumentoRepository,
	ventas repository.VentaRepository,
	folios repository.FolioRepository,
	jobs Encolador,
) *DocumentoService {
	return &DocumentoService{documentos: documentos, ventas: ventas, folios: folios, jobs: jobs}
}

var tiposDocumento = map[string]bool{
	model.DocumentoFactura:     true,
	model.DocumentoBoleta:      true,
	model.DocumentoNotaCredito: true,
	model.DocumentoNotaDebito:  true,
}

func esNota(tipo string) bool {
	return tipo == model.DocumentoNotaCredito || tipo == model.DocumentoNotaDebito
}

// Emitir creates the tax document for a venta and assigns its folio.
func (s *DocumentoService) Emitir(ctx context.Context, req dto.EmitirDocumentoRequest) (*dto.DocumentoResponse, error) {
	if !tiposDocumento[req.TipoDocumento] {
		return nil, domain.Validation("tipo_documento desconocido %q", req.TipoDocumento)
	}
	ventaID, err := uuid.Parse(req.VentaID)
	if err != nil {
		return nil, domain.Validation("venta_id inválido")
	}
	referenciaID, err := parseOptionalUUID(req.DocumentoReferenciaID, "documento_referencia_id")
	if err != nil {
		return nil, err
	}
	if esNota(req.TipoDocumento) && referenciaID == nil {
		return nil, &domain.InvalidReferenceError{
			Motivo: "una nota de crédito o débito requiere un documento de referencia",
		}
	}
	if !esNota(req.TipoDocumento) && referenciaID != nil {
		return nil, domain.Validation("%s no admite documento de referencia", req.TipoDocumento)
	}

	if referenciaID != nil {
		ref, err := s.documentos.FindByID(ctx, *referenciaID)
		if err != nil {
			return nil, err
		}
		if !ref.Estado {
			return nil, &domain.InvalidReferenceError{Motivo: "el documento de referencia está anulado"}
		}
		if ref.TipoDocumento != model.DocumentoFactura && ref.TipoDocumento != model.DocumentoBoleta {
			return nil, &domain.InvalidReferenceError{
				Motivo: "el documento de referencia debe ser una factura o boleta",
			}
		}
	}

	var doc *model.DocumentoTributario
	err = runTx(ctx, s.documentos.DB(), func(tx *gorm.DB) error {
		venta, err := s.ventas.FindForUpdateTx(tx, ventaID)
		if err != nil {
			return err
		}
		if !venta.Estado {
			return domain.Validation("no se puede emitir un documento sobre una venta anulada")
		}
		if req.TipoDocumento == model.DocumentoFactura && venta.ClienteID == nil && venta.EmpresaID == nil {
			return domain.Validation("una factura requiere un cliente o empresa asociado a la venta")
		}

		existe, err := s.documentos.ExistsByVentaIDTx(tx, ventaID)
		if err != nil {
			return err
		}
		if existe {
			return &domain.DuplicateDocumentError{VentaID: ventaID}
		}

		folio, err := s.folios.SiguienteTx(tx, req.TipoDocumento)
		if err != nil {
			return err
		}

		doc = &model.DocumentoTributario{
			ID:                    uuid.New(),
			Folio:                 folio,
			TipoDocumento:         req.TipoDocumento,
			TotalNeto:             venta.TotalNeto.Sub(venta.TotalDscto),
			TotalIVA:              venta.TotalIVA,
			TotalDocumento:        venta.TotalVenta,
			MedioPago:             req.MedioPago,
			Estado:                true,
			VentaID:               ventaID,
			DocumentoReferenciaID: referenciaID,
			EstadoSII:             model.EstadoSIIPendiente,
		}
		for _, it := range venta.Items {
			descripcion := ""
			if it.Producto != nil {
				descripcion = it.Producto.NombreProducto
			}
			itemVentaID := it.ID
			doc.Items = append(doc.Items, model.ItemDocumento{
				DocumentoID:    doc.ID,
				ItemVentaID:    &itemVentaID,
				Descripcion:    descripcion,
				Cantidad:       it.Cantidad,
				PrecioUnitario: it.PrecioUnitario,
				Descuento:      it.Descuento,
				TipoImpuesto:   it.TipoImpuesto,
				ValorImpuesto:  it.ValorImpuesto,
				TotalItem:      it.TotalItem,
			})
		}
		return s.documentos.CreateTx(tx, doc)
	})
	if err != nil {
		return nil, err
	}

	if s.jobs != nil {
		// Best effort: the retry cron picks up documents the queue missed.
		_ = s.jobs.EnqueueDTE(ctx, doc.ID)
	}

	return toDocumentoResponse(doc), nil
}

// Anular voids a document. The motivo is mandatory and preserved; totals,
// folio and items never change.
func (s *DocumentoService) Anular(ctx context.Context, id uuid.UUID, req dto.AnularDocumentoRequest) error {
	if req.Motivo == "" {
		return domain.Validation("la anulación requiere un motivo")
	}
	doc, err := s.documentos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !doc.Estado {
		return domain.Validation("el documento ya está anulado")
	}
	return s.documentos.Anular(ctx, id, req.Motivo)
}

func (s *DocumentoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.DocumentoResponse, error) {
	doc, err := s.documentos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentoResponse(doc), nil
}

func (s *DocumentoService) ObtenerPorVenta(ctx context.Context, ventaID uuid.UUID) (*dto.DocumentoResponse, error) {
	doc, err := s.documentos.FindByVentaID(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	return toDocumentoResponse(doc), nil
}

func toDocumentoResponse(d *model.DocumentoTributario) *dto.DocumentoResponse {
	resp := &dto.DocumentoResponse{
		ID:                    d.ID.String(),
		Folio:                 d.Folio,
		TipoDocumento:         d.TipoDocumento,
		VentaID:               d.VentaID.String(),
		DocumentoReferenciaID: uuidPtrString(d.DocumentoReferenciaID),
		TotalNeto:             d.TotalNeto,
		TotalIVA:              d.TotalIVA,
		TotalDocumento:        d.TotalDocumento,
		MedioPago:             d.MedioPago,
		Estado:                d.Estado,
		MotivoAnulacion:       d.MotivoAnulacion,
		TrackIDSII:            d.TrackIDSII,
		EstadoSII:             d.EstadoSII,
		FechaEmision:          d.FechaEmision.Format("2006-01-02 15:04:05"),
	}
	for _, it := range d.Items {
		resp.Items = append(resp.Items, dto.ItemDocumentoResponse{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Descuento:      it.Descuento,
			TipoImpuesto:   it.TipoImpuesto,
			ValorImpuesto:  it.ValorImpuesto,
			TotalItem:      it.TotalItem,
		})
	}
	return resp
}
