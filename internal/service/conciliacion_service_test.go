package service

import (
	"context"
	"testing"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conciliacionFixture struct {
	documentos *stubDocumentoRepo
	ventas     *stubVentaRepo
	svc        *ConciliacionService
}

func newConciliacionFixture(t *testing.T) *conciliacionFixture {
	t.Helper()
	f := &conciliacionFixture{
		documentos: newStubDocumentoRepo(),
		ventas:     newStubVentaRepo(),
	}
	f.svc = NewConciliacionService(f.documentos, f.ventas)
	return f
}

// seedConsistente stores a venta and its documento whose figures all agree:
// one line of 2 x 5000 afecto, IVA 1900, total 11900.
func (f *conciliacionFixture) seedConsistente(t *testing.T) *model.DocumentoTributario {
	t.Helper()
	itemVentaID := uuid.New()
	venta := &model.Venta{
		ID:         uuid.New(),
		TotalNeto:  decimal.NewFromInt(10000),
		TotalIVA:   decimal.NewFromInt(1900),
		TotalDscto: decimal.Zero,
		TotalVenta: decimal.NewFromInt(11900),
		Estado:     true,
		CajaID:     uuid.New(),
		Items: []model.ItemVenta{{
			ID:             itemVentaID,
			ProductoID:     uuid.New(),
			Cantidad:       2,
			PrecioUnitario: decimal.NewFromInt(5000),
			Descuento:      decimal.Zero,
			TipoImpuesto:   model.ImpuestoAfecto,
			ValorImpuesto:  decimal.NewFromInt(1900),
			TotalItem:      decimal.NewFromInt(11900),
		}},
	}
	require.NoError(t, f.ventas.CreateTx(nil, venta))

	doc := &model.DocumentoTributario{
		ID:             uuid.New(),
		Folio:          1,
		TipoDocumento:  model.DocumentoBoleta,
		TotalNeto:      decimal.NewFromInt(10000),
		TotalIVA:       decimal.NewFromInt(1900),
		TotalDocumento: decimal.NewFromInt(11900),
		MedioPago:      "efectivo",
		Estado:         true,
		VentaID:        venta.ID,
		EstadoSII:      model.EstadoSIIPendiente,
		Items: []model.ItemDocumento{{
			ItemVentaID:    &itemVentaID,
			Descripcion:    "Café Grano 1kg",
			Cantidad:       2,
			PrecioUnitario: decimal.NewFromInt(5000),
			Descuento:      decimal.Zero,
			TipoImpuesto:   model.ImpuestoAfecto,
			ValorImpuesto:  decimal.NewFromInt(1900),
			TotalItem:      decimal.NewFromInt(11900),
		}},
	}
	require.NoError(t, f.documentos.CreateTx(nil, doc))
	return doc
}

func campos(discrepancias []dto.Discrepancia) []string {
	out := make([]string, 0, len(discrepancias))
	for _, d := range discrepancias {
		out = append(out, d.Campo)
	}
	return out
}

func TestVerificarDocumentoConsistente(t *testing.T) {
	f := newConciliacionFixture(t)
	doc := f.seedConsistente(t)

	resp, err := f.svc.Verificar(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, resp.Consistente)
	assert.Empty(t, resp.Discrepancias)
	assert.Equal(t, doc.ID.String(), resp.DocumentoID)
}

func TestVerificarDetectaIVAAlterado(t *testing.T) {
	f := newConciliacionFixture(t)
	doc := f.seedConsistente(t)

	almacenado, err := f.documentos.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	almacenado.TotalIVA = decimal.NewFromInt(1800)

	resp, err := f.svc.Verificar(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.False(t, resp.Consistente)
	require.Len(t, resp.Discrepancias, 1)
	assert.Equal(t, "documento.total_iva", resp.Discrepancias[0].Campo)
	assert.Equal(t, "1900", resp.Discrepancias[0].Esperado)
	assert.Equal(t, "1800", resp.Discrepancias[0].Actual)
}

func TestVerificarDetectaCantidadAlterada(t *testing.T) {
	f := newConciliacionFixture(t)
	doc := f.seedConsistente(t)

	almacenado, err := f.documentos.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	almacenado.Items[0].Cantidad = 3

	resp, err := f.svc.Verificar(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.False(t, resp.Consistente)
	assert.Contains(t, campos(resp.Discrepancias), "documento.items[0].cantidad")
}

func TestVerificarDetectaItemsFaltantes(t *testing.T) {
	f := newConciliacionFixture(t)
	doc := f.seedConsistente(t)

	almacenado, err := f.documentos.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	almacenado.Items = nil

	resp, err := f.svc.Verificar(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.False(t, resp.Consistente)
	nombres := campos(resp.Discrepancias)
	assert.Contains(t, nombres, "documento.items")
	assert.Contains(t, nombres, "documento.suma_items")
}

func TestVerificarDetectaVentaCorrupta(t *testing.T) {
	f := newConciliacionFixture(t)
	doc := f.seedConsistente(t)

	venta, err := f.ventas.FindByID(context.Background(), doc.VentaID)
	require.NoError(t, err)
	venta.TotalVenta = decimal.NewFromInt(12000)

	resp, err := f.svc.Verificar(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.False(t, resp.Consistente)
	assert.Contains(t, campos(resp.Discrepancias), "venta.total_venta")
}

func TestVerificarDetectaVentaAnuladaConDocumentoActivo(t *testing.T) {
	f := newConciliacionFixture(t)
	doc := f.seedConsistente(t)

	venta, err := f.ventas.FindByID(context.Background(), doc.VentaID)
	require.NoError(t, err)
	venta.Estado = false

	resp, err := f.svc.Verificar(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.False(t, resp.Consistente)
	assert.Contains(t, campos(resp.Discrepancias), "documento.estado")
}

func TestVerificarNotaSinReferencia(t *testing.T) {
	f := newConciliacionFixture(t)
	doc := f.seedConsistente(t)

	almacenado, err := f.documentos.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	almacenado.TipoDocumento = model.DocumentoNotaCredito

	resp, err := f.svc.Verificar(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.False(t, resp.Consistente)
	assert.Contains(t, campos(resp.Discrepancias), "documento.referencia")
}

func TestVerificarNotaConReferenciaAnulada(t *testing.T) {
	f := newConciliacionFixture(t)
	referencia := f.seedConsistente(t)
	nota := f.seedConsistente(t)

	refAlmacenada, err := f.documentos.FindByID(context.Background(), referencia.ID)
	require.NoError(t, err)
	refAlmacenada.Estado = false

	notaAlmacenada, err := f.documentos.FindByID(context.Background(), nota.ID)
	require.NoError(t, err)
	notaAlmacenada.TipoDocumento = model.DocumentoNotaDebito
	refID := referencia.ID
	notaAlmacenada.DocumentoReferenciaID = &refID

	resp, err := f.svc.Verificar(context.Background(), nota.ID)
	require.NoError(t, err)
	assert.False(t, resp.Consistente)
	assert.Contains(t, campos(resp.Discrepancias), "documento.referencia.estado")
}

func TestVerificarDocumentoInexistente(t *testing.T) {
	f := newConciliacionFixture(t)

	_, err := f.svc.Verificar(context.Background(), uuid.New())
	var nfErr *domain.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}
