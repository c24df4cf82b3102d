package service

import (
	"context"
	"errors"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaService commits register sales. A sale is resolved completely in
// memory (products, prices, taxes, stock availability) and only then written
// inside one transaction: stock deductions, ledger entries and the venta with
// its items all land together or not at all.
type VentaService struct {
	ventas     repository.VentaRepository
	productos  repository.ProductoRepository
	cajas      repository.CajaRepository
	stock      repository.StockRepository
	comercios  repository.ComercioRepository
	documentos repository.DocumentoRepository
	tasaIVA    decimal.Decimal
}

func NewVentaService(
	ventas repository.VentaRepository,
	productos repository.ProductoRepository,
	cajas repository.CajaRepository,
	stock repository.StockRepository,
	comercios repository.ComercioRepository,
	documentos repository.DocumentoRepository,
	tasaIVA float64,
) *VentaService {
	return &VentaService{
		ventas:     ventas,
		productos:  productos,
		cajas:      cajas,
		stock:      stock,
		comercios:  comercios,
		documentos: documentos,
		tasaIVA:    decimal.NewFromFloat(tasaIVA),
	}
}

type lineaResuelta struct {
	productoID     uuid.UUID
	descripcion    string
	cantidad       int
	precioUnitario decimal.Decimal
	descuento      decimal.Decimal
	tipoImpuesto   string
	valorImpuesto  decimal.Decimal
	totalItem      decimal.Decimal
}

// RegistrarVenta validates and commits a sale from the register.
func (s *VentaService) RegistrarVenta(ctx context.Context, usuarioID *uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	cajaID, err := uuid.Parse(req.CajaID)
	if err != nil {
		return nil, domain.Validation("caja_id inválido")
	}
	caja, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	if !caja.Estado {
		return nil, domain.Validation("la caja %s no está operativa", caja.NumeroCaja)
	}

	clienteID, err := parseOptionalUUID(req.ClienteID, "cliente_id")
	if err != nil {
		return nil, err
	}
	empresaID, err := parseOptionalUUID(req.EmpresaID, "empresa_id")
	if err != nil {
		return nil, err
	}

	bodega, err := s.comercios.FindBodegaPrincipal(ctx, &caja.SucursalID)
	if err != nil {
		return nil, err
	}

	lineas, err := s.resolverLineas(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// Availability pre-check against aggregate quantities per product, so a
	// sale that would fail on its last line touches nothing.
	porProducto := make(map[uuid.UUID]int)
	for _, l := range lineas {
		porProducto[l.productoID] += l.cantidad
	}
	for productoID, cantidad := range porProducto {
		disponible, err := s.stock.StockEnBodega(ctx, productoID, bodega.ID)
		if err != nil {
			return nil, err
		}
		if disponible < cantidad {
			return nil, &domain.NegativeStockError{
				ProductoID: productoID, BodegaID: bodega.ID,
				Disponible: disponible, Solicitado: cantidad,
			}
		}
	}

	venta := &model.Venta{
		ID:        uuid.New(),
		Estado:    true,
		CajaID:    caja.ID,
		UsuarioID: usuarioID,
		ClienteID: clienteID,
		EmpresaID: empresaID,
	}
	for _, l := range lineas {
		venta.TotalNeto = venta.TotalNeto.Add(l.precioUnitario.Mul(decimal.NewFromInt(int64(l.cantidad))))
		venta.TotalIVA = venta.TotalIVA.Add(l.valorImpuesto)
		venta.TotalDscto = venta.TotalDscto.Add(l.descuento)
		venta.Items = append(venta.Items, model.ItemVenta{
			VentaID:        venta.ID,
			ProductoID:     l.productoID,
			Cantidad:       l.cantidad,
			PrecioUnitario: l.precioUnitario,
			Descuento:      l.descuento,
			TipoImpuesto:   l.tipoImpuesto,
			ValorImpuesto:  l.valorImpuesto,
			TotalItem:      l.totalItem,
		})
	}
	venta.TotalVenta = venta.TotalNeto.Add(venta.TotalIVA).Sub(venta.TotalDscto)

	err = runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		for _, l := range lineas {
			nuevo, err := s.stock.AplicarDeltaTx(tx, l.productoID, bodega.ID, -l.cantidad)
			if err != nil {
				return err
			}
			// The conditional update already serialized this row, so the
			// previous quantity derives from the result.
			anterior := nuevo + l.cantidad
			ventaRef := venta.ID
			if err := s.stock.CreateMovimientoTx(tx, &model.MovimientoStock{
				ProductoID:    l.productoID,
				BodegaID:      bodega.ID,
				Tipo:          "venta",
				Cantidad:      -l.cantidad,
				StockAnterior: anterior,
				StockNuevo:    nuevo,
				Motivo:        "venta",
				ReferenciaID:  &ventaRef,
			}); err != nil {
				return err
			}
		}
		return s.ventas.CreateTx(tx, venta)
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, venta, lineas), nil
}

func (s *VentaService) resolverLineas(ctx context.Context, items []dto.ItemVentaRequest) ([]lineaResuelta, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for i, it := range items {
		id, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, domain.Validation("items[%d]: producto_id inválido", i)
		}
		ids = append(ids, id)
	}
	productos, err := s.productos.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lineas := make([]lineaResuelta, 0, len(items))
	for i, it := range items {
		p, ok := productos[ids[i]]
		if !ok {
			return nil, domain.NotFound("producto", it.ProductoID)
		}
		if !p.Estado {
			return nil, domain.Validation("el producto %s está inactivo", p.NombreProducto)
		}
		if it.Cantidad < 1 {
			return nil, domain.Validation("items[%d]: la cantidad debe ser positiva", i)
		}
		if it.TipoImpuesto != model.ImpuestoAfecto && it.TipoImpuesto != model.ImpuestoExento {
			return nil, domain.Validation("items[%d]: tipo_impuesto desconocido %q", i, it.TipoImpuesto)
		}

		bruto := it.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		if it.Descuento.GreaterThan(bruto) {
			return nil, domain.Validation("items[%d]: el descuento excede el valor de la línea", i)
		}

		iva := decimal.Zero
		if it.TipoImpuesto == model.ImpuestoAfecto {
			iva = bruto.Sub(it.Descuento).Mul(s.tasaIVA).Round(2)
		}
		total := bruto.Sub(it.Descuento).Add(iva)
		if total.IsNegative() {
			return nil, domain.Validation("items[%d]: el total de la línea es negativo", i)
		}

		lineas = append(lineas, lineaResuelta{
			productoID:     ids[i],
			descripcion:    p.NombreProducto,
			cantidad:       it.Cantidad,
			precioUnitario: it.PrecioUnitario,
			descuento:      it.Descuento,
			tipoImpuesto:   it.TipoImpuesto,
			valorImpuesto:  iva,
			totalItem:      total,
		})
	}
	return lineas, nil
}

// AnularVenta flips the venta to anulada. Stock is not restored: any return
// to inventory is an explicit manual adjustment with its own ledger entry.
func (s *VentaService) AnularVenta(ctx context.Context, id uuid.UUID) error {
	venta, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !venta.Estado {
		return domain.Validation("la venta ya está anulada")
	}

	doc, err := s.documentos.FindByVentaID(ctx, id)
	var nf *domain.NotFoundError
	if err != nil && !errors.As(err, &nf) {
		return err
	}
	if doc != nil && doc.Estado {
		return domain.Validation("la venta tiene un documento tributario activo; anule primero el documento")
	}

	return s.ventas.Anular(ctx, id)
}

func (s *VentaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, venta, nil), nil
}

func (s *VentaService) ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	ventas, total, err := s.ventas.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, *s.toResponse(ctx, &ventas[i], nil))
	}
	return &dto.VentaListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *VentaService) toResponse(ctx context.Context, v *model.Venta, lineas []lineaResuelta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:         v.ID.String(),
		CajaID:     v.CajaID.String(),
		UsuarioID:  uuidPtrString(v.UsuarioID),
		ClienteID:  uuidPtrString(v.ClienteID),
		EmpresaID:  uuidPtrString(v.EmpresaID),
		TotalNeto:  v.TotalNeto,
		TotalIVA:   v.TotalIVA,
		TotalDscto: v.TotalDscto,
		TotalVenta: v.TotalVenta,
		Estado:     v.Estado,
		FechaVenta: v.FechaVenta.Format("2006-01-02 15:04:05"),
	}
	nombres := make(map[uuid.UUID]string, len(lineas))
	for _, l := range lineas {
		nombres[l.productoID] = l.descripcion
	}
	for _, it := range v.Items {
		nombre := nombres[it.ProductoID]
		if nombre == "" && it.Producto != nil {
			nombre = it.Producto.NombreProducto
		}
		resp.Items = append(resp.Items, dto.ItemVentaResponse{
			ProductoID:     it.ProductoID.String(),
			Producto:       nombre,
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

func parseOptionalUUID(s *string, campo string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, domain.Validation("%s inválido", campo)
	}
	return &id, nil
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
