package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	stock      *stubStockRepo
	ventas     *stubVentaRepo
	productos  *stubProductoRepo
	cajas      *stubCajaRepo
	comercios  *stubComercioRepo
	documentos *stubDocumentoRepo
	svc        *VentaService

	caja   *model.Caja
	bodega *model.Bodega
}

func newVentaFixture(t *testing.T) *ventaFixture {
	t.Helper()
	f := &ventaFixture{
		stock:      newStubStockRepo(),
		ventas:     newStubVentaRepo(),
		productos:  newStubProductoRepo(),
		cajas:      newStubCajaRepo(),
		comercios:  newStubComercioRepo(),
		documentos: newStubDocumentoRepo(),
	}
	f.svc = NewVentaService(f.ventas, f.productos, f.cajas, f.stock, f.comercios, f.documentos, 0.19)

	sucursal := f.comercios.addSucursal(&model.Sucursal{NombreSucursal: "Casa Matriz", EsCasaMatriz: true})
	sucID := sucursal.ID
	f.bodega = f.comercios.addBodega(&model.Bodega{
		NombreBodega: "Bodega Principal", EsPrincipal: true, SucursalID: &sucID,
	})
	f.caja = f.cajas.add(&model.Caja{
		NumeroCaja: "CAJ001", NombreCaja: "Caja Principal",
		Estado: true, SucursalID: sucursal.ID,
	})
	return f
}

func (f *ventaFixture) producto(t *testing.T, nombre string, stock int) *model.Producto {
	t.Helper()
	p := f.productos.add(&model.Producto{
		SKU: "SKU-" + nombre, CodigoBarra: "CB-" + nombre,
		NombreProducto: nombre, NombreAbreviado: nombre, Estado: true,
	})
	if stock > 0 {
		f.stock.set(p.ID, f.bodega.ID, stock)
	}
	return p
}

func item(p *model.Producto, cantidad int, precio, descuento int64, tipo string) dto.ItemVentaRequest {
	return dto.ItemVentaRequest{
		ProductoID:     p.ID.String(),
		Cantidad:       cantidad,
		PrecioUnitario: decimal.NewFromInt(precio),
		Descuento:      decimal.NewFromInt(descuento),
		TipoImpuesto:   tipo,
	}
}

func TestRegistrarVentaCalculaTotales(t *testing.T) {
	f := newVentaFixture(t)
	p := f.producto(t, "Café Grano 1kg", 10)

	resp, err := f.svc.RegistrarVenta(context.Background(), nil, dto.RegistrarVentaRequest{
		CajaID: f.caja.ID.String(),
		Items:  []dto.ItemVentaRequest{item(p, 3, 1000, 0, model.ImpuestoAfecto)},
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(3000).Equal(resp.TotalNeto), "neto: %s", resp.TotalNeto)
	assert.True(t, decimal.NewFromInt(570).Equal(resp.TotalIVA), "iva: %s", resp.TotalIVA)
	assert.True(t, decimal.NewFromInt(3570).Equal(resp.TotalVenta), "total: %s", resp.TotalVenta)
	require.Len(t, resp.Items, 1)
	assert.True(t, decimal.NewFromInt(3570).Equal(resp.Items[0].TotalItem))

	// Stock deducted and ledger entry written.
	actual, _ := f.stock.StockEnBodega(context.Background(), p.ID, f.bodega.ID)
	assert.Equal(t, 7, actual)
	require.Len(t, f.stock.movimientos, 1)
	assert.Equal(t, "venta", f.stock.movimientos[0].Tipo)
	assert.Equal(t, -3, f.stock.movimientos[0].Cantidad)
	assert.Equal(t, 10, f.stock.movimientos[0].StockAnterior)
	assert.Equal(t, 7, f.stock.movimientos[0].StockNuevo)
	require.NotNil(t, f.stock.movimientos[0].ReferenciaID)
	assert.Equal(t, resp.ID, f.stock.movimientos[0].ReferenciaID.String())
}

func TestRegistrarVentaMixtaAfectoExento(t *testing.T) {
	f := newVentaFixture(t)
	afecto := f.producto(t, "Vino Reserva", 5)
	exento := f.producto(t, "Libro Cocina", 5)

	resp, err := f.svc.RegistrarVenta(context.Background(), nil, dto.RegistrarVentaRequest{
		CajaID: f.caja.ID.String(),
		Items: []dto.ItemVentaRequest{
			item(afecto, 1, 10000, 1000, model.ImpuestoAfecto),
			item(exento, 2, 2000, 0, model.ImpuestoExento),
		},
	})
	require.NoError(t, err)

	// IVA only over the discounted afecto line: (10000-1000)*0.19 = 1710.
	assert.True(t, decimal.NewFromInt(14000).Equal(resp.TotalNeto))
	assert.True(t, decimal.NewFromInt(1710).Equal(resp.TotalIVA))
	assert.True(t, decimal.NewFromInt(1000).Equal(resp.TotalDscto))
	assert.True(t, decimal.NewFromInt(14710).Equal(resp.TotalVenta))

	// total_venta = total_neto + total_iva - total_dscto
	identidad := resp.TotalNeto.Add(resp.TotalIVA).Sub(resp.TotalDscto)
	assert.True(t, identidad.Equal(resp.TotalVenta))
}

func TestRegistrarVentaStockInsuficiente(t *testing.T) {
	f := newVentaFixture(t)
	p := f.producto(t, "Azúcar 1kg", 10)
	ctx := context.Background()

	venta := func(cantidad int) error {
		_, err := f.svc.RegistrarVenta(ctx, nil, dto.RegistrarVentaRequest{
			CajaID: f.caja.ID.String(),
			Items:  []dto.ItemVentaRequest{item(p, cantidad, 500, 0, model.ImpuestoAfecto)},
		})
		return err
	}

	require.NoError(t, venta(7))

	err := venta(8)
	var stockErr *domain.NegativeStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Disponible)
	assert.Equal(t, 8, stockErr.Solicitado)

	actual, _ := f.stock.StockEnBodega(ctx, p.ID, f.bodega.ID)
	assert.Equal(t, 3, actual)
}

func TestRegistrarVentaFallidaNoDejaRastro(t *testing.T) {
	f := newVentaFixture(t)
	conStock := f.producto(t, "Harina 1kg", 50)
	sinStock := f.producto(t, "Aceite 1L", 1)
	ctx := context.Background()

	_, err := f.svc.RegistrarVenta(ctx, nil, dto.RegistrarVentaRequest{
		CajaID: f.caja.ID.String(),
		Items: []dto.ItemVentaRequest{
			item(conStock, 2, 900, 0, model.ImpuestoAfecto),
			item(sinStock, 5, 2500, 0, model.ImpuestoAfecto),
		},
	})
	var stockErr *domain.NegativeStockError
	require.ErrorAs(t, err, &stockErr)

	// The first line's stock is untouched and nothing reached the ledger
	// or the ventas store.
	actual, _ := f.stock.StockEnBodega(ctx, conStock.ID, f.bodega.ID)
	assert.Equal(t, 50, actual)
	assert.Empty(t, f.stock.movimientos)
	assert.Empty(t, f.ventas.ventas)
}

func TestRegistrarVentaCajaInactiva(t *testing.T) {
	f := newVentaFixture(t)
	p := f.producto(t, "Té Verde", 10)
	f.caja.Estado = false

	_, err := f.svc.RegistrarVenta(context.Background(), nil, dto.RegistrarVentaRequest{
		CajaID: f.caja.ID.String(),
		Items:  []dto.ItemVentaRequest{item(p, 1, 100, 0, model.ImpuestoAfecto)},
	})
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestRegistrarVentaProductoDesconocido(t *testing.T) {
	f := newVentaFixture(t)
	fantasma := &model.Producto{ID: uuid.New()}

	_, err := f.svc.RegistrarVenta(context.Background(), nil, dto.RegistrarVentaRequest{
		CajaID: f.caja.ID.String(),
		Items:  []dto.ItemVentaRequest{item(fantasma, 1, 100, 0, model.ImpuestoAfecto)},
	})
	var nfErr *domain.NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestRegistrarVentaProductoInactivo(t *testing.T) {
	f := newVentaFixture(t)
	p := f.producto(t, "Descontinuado", 10)
	p.Estado = false

	_, err := f.svc.RegistrarVenta(context.Background(), nil, dto.RegistrarVentaRequest{
		CajaID: f.caja.ID.String(),
		Items:  []dto.ItemVentaRequest{item(p, 1, 100, 0, model.ImpuestoAfecto)},
	})
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestRegistrarVentaDescuentoExcedeLinea(t *testing.T) {
	f := newVentaFixture(t)
	p := f.producto(t, "Galletas", 10)

	_, err := f.svc.RegistrarVenta(context.Background(), nil, dto.RegistrarVentaRequest{
		CajaID: f.caja.ID.String(),
		Items:  []dto.ItemVentaRequest{item(p, 2, 500, 1500, model.ImpuestoAfecto)},
	})
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestAnularVenta(t *testing.T) {
	f := newVentaFixture(t)
	p := f.producto(t, "Pan Molde", 10)
	ctx := context.Background()

	resp, err := f.svc.RegistrarVenta(ctx, nil, dto.RegistrarVentaRequest{
		CajaID: f.caja.ID.String(),
		Items:  []dto.ItemVentaRequest{item(p, 1, 1500, 0, model.ImpuestoAfecto)},
	})
	require.NoError(t, err)
	ventaID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.AnularVenta(ctx, ventaID))

	// Anulación is a flag flip: stock stays deducted, returns are a
	// separate manual adjustment.
	actual, _ := f.stock.StockEnBodega(ctx, p.ID, f.bodega.ID)
	assert.Equal(t, 9, actual)

	// Second anulación is rejected.
	err = f.svc.AnularVenta(ctx, ventaID)
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestAnularVentaConDocumentoActivo(t *testing.T) {
	f := newVentaFixture(t)
	p := f.producto(t, "Queso Gauda", 10)
	ctx := context.Background()

	resp, err := f.svc.RegistrarVenta(ctx, nil, dto.RegistrarVentaRequest{
		CajaID: f.caja.ID.String(),
		Items:  []dto.ItemVentaRequest{item(p, 1, 4000, 0, model.ImpuestoAfecto)},
	})
	require.NoError(t, err)
	ventaID := uuid.MustParse(resp.ID)

	require.NoError(t, f.documentos.CreateTx(nil, &model.DocumentoTributario{
		Folio: 1, TipoDocumento: model.DocumentoBoleta, VentaID: ventaID,
		Estado: true, EstadoSII: model.EstadoSIIPendiente,
	}))

	err = f.svc.AnularVenta(ctx, ventaID)
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)

	v, err := f.ventas.FindByID(ctx, ventaID)
	require.NoError(t, err)
	assert.True(t, v.Estado)
}

func TestVentasConcurrentesNoSobregiranStock(t *testing.T) {
	f := newVentaFixture(t)
	p := f.producto(t, "Bebida Lata", 10)
	ctx := context.Background()

	const intentos = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	exitos := 0

	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RegistrarVenta(ctx, nil, dto.RegistrarVentaRequest{
				CajaID: f.caja.ID.String(),
				Items:  []dto.ItemVentaRequest{item(p, 1, 1200, 0, model.ImpuestoAfecto)},
			})
			if err == nil {
				mu.Lock()
				exitos++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	final, _ := f.stock.StockEnBodega(ctx, p.ID, f.bodega.ID)
	assert.GreaterOrEqual(t, final, 0)
	assert.Equal(t, 10-exitos, final)
	assert.LessOrEqual(t, exitos, 10)
}
