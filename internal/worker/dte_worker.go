package worker

// Submits emitted documents to the SII gateway with exponential backoff,
// then generates the printable PDF and optionally mails it to the customer.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmcstoltze/aplicacion-pos/internal/infra"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type DTEWorker struct {
	siiClient      *infra.SIIClient
	documentoRepo  repository.DocumentoRepository
	ventaRepo      repository.VentaRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	rutEmisor      string
	razonSocial    string
}

func NewDTEWorker(
	siiClient *infra.SIIClient,
	documentoRepo repository.DocumentoRepository,
	ventaRepo repository.VentaRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	rutEmisor string,
	razonSocial string,
) *DTEWorker {
	return &DTEWorker{
		siiClient:      siiClient,
		documentoRepo:  documentoRepo,
		ventaRepo:      ventaRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		rutEmisor:      rutEmisor,
		razonSocial:    razonSocial,
	}
}

// Process handles one SII submission job:
//  1. Load the documento; skip if already accepted or voided
//  2. Submit to the gateway with exponential backoff (3 attempts)
//  3. Record track id / estado, or schedule the retry cron
//  4. Generate the PDF
//  5. Enqueue an email job when the venta has a customer email
func (w *DTEWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload DTEJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("dte_worker: invalid payload")
		return
	}
	documentoID, err := uuid.Parse(payload.DocumentoID)
	if err != nil {
		log.Error().Str("documento_id", payload.DocumentoID).Msg("dte_worker: invalid documento_id")
		return
	}

	doc, err := w.documentoRepo.FindByID(ctx, documentoID)
	if err != nil {
		log.Error().Err(err).Str("documento_id", payload.DocumentoID).Msg("dte_worker: documento not found")
		return
	}
	if !doc.Estado || doc.EstadoSII == model.EstadoSIIAceptado {
		return
	}

	var siiResp *infra.DTEResponse
	siiErr := withRetry(ctx, 3, func(attempt int) error {
		resp, err := w.siiClient.EnviarDTE(ctx, buildDTEPayload(doc, w.rutEmisor))
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("documento_id", payload.DocumentoID).
				Msg("dte_worker: SII attempt failed, retrying")
			return err
		}
		siiResp = resp
		return nil
	})

	switch {
	case siiErr != nil:
		// Stays pendiente; the retry cron takes over from here.
		doc.RetryCount++
		errMsg := siiErr.Error()
		doc.LastError = &errMsg
		next := time.Now().Add(computeRetryBackoff(doc.RetryCount))
		doc.NextRetryAt = &next
		_ = w.documentoRepo.Update(ctx, doc)
		log.Error().Err(siiErr).Str("documento_id", payload.DocumentoID).Msg("dte_worker: SII failed after all retries")
	case siiResp.Estado == model.EstadoSIIAceptado:
		trackID := siiResp.TrackID
		doc.TrackIDSII = &trackID
		doc.EstadoSII = model.EstadoSIIAceptado
		doc.NextRetryAt = nil
		doc.LastError = nil
		_ = w.documentoRepo.Update(ctx, doc)
		log.Info().Int64("track_id", trackID).Str("documento_id", payload.DocumentoID).Msg("dte_worker: DTE accepted")
	default:
		doc.EstadoSII = model.EstadoSIIRechazado
		glosa := siiResp.Glosa
		doc.LastError = &glosa
		doc.NextRetryAt = nil
		_ = w.documentoRepo.Update(ctx, doc)
		log.Warn().Str("glosa", glosa).Str("documento_id", payload.DocumentoID).Msg("dte_worker: DTE rejected")
	}

	pdfPath, pdfErr := infra.GenerateDocumentoPDF(doc, w.razonSocial, w.pdfStoragePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("documento_id", payload.DocumentoID).Msg("dte_worker: PDF generation failed")
	} else {
		doc.PDFPath = &pdfPath
		_ = w.documentoRepo.Update(ctx, doc)
	}

	if pdfPath != "" {
		if to := w.clienteEmail(ctx, doc.VentaID); to != "" {
			emailJob := EmailJobPayload{
				ToEmail: to,
				Subject: fmt.Sprintf("%s N° %d", doc.TipoDocumento, doc.Folio),
				Body:    fmt.Sprintf("Adjunto encontrarás tu %s.\nTotal: $%s", doc.TipoDocumento, doc.TotalDocumento.StringFixed(2)),
				PDFPath: pdfPath,
			}
			if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
				log.Warn().Err(err).Str("email", to).Msg("dte_worker: failed to enqueue email")
			}
		}
	}
}

func (w *DTEWorker) clienteEmail(ctx context.Context, ventaID uuid.UUID) string {
	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return ""
	}
	if venta.Cliente != nil {
		return venta.Cliente.Email
	}
	if venta.Empresa != nil {
		return venta.Empresa.Email
	}
	return ""
}

func buildDTEPayload(doc *model.DocumentoTributario, rutEmisor string) infra.DTEPayload {
	codigo, _ := infra.CodigoDTE(doc.TipoDocumento)
	return infra.DTEPayload{
		TipoDTE:     codigo,
		Folio:       doc.Folio,
		RUTEmisor:   rutEmisor,
		MontoNeto:   doc.TotalNeto.InexactFloat64(),
		MontoIVA:    doc.TotalIVA.InexactFloat64(),
		MontoTotal:  doc.TotalDocumento.InexactFloat64(),
		DocumentoID: doc.ID.String(),
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
