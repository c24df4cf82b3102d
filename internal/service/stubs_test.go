package service

// In-memory repository stubs shared by the service tests. They return a nil
// *gorm.DB so runTx executes the closure directly, and they guard their maps
// with mutexes so the concurrency tests exercise real interleavings.

import (
	"context"
	"sync"
	"time"

	"github.com/jmcstoltze/aplicacion-pos/internal/domain"
	"github.com/jmcstoltze/aplicacion-pos/internal/dto"
	"github.com/jmcstoltze/aplicacion-pos/internal/model"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── StockRepository ──────────────────────────────────────────────────────────

type stockKey struct {
	productoID uuid.UUID
	bodegaID   uuid.UUID
}

type stubStockRepo struct {
	mu          sync.Mutex
	entries     map[stockKey]int
	movimientos []model.MovimientoStock
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{entries: make(map[stockKey]int)}
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

func (r *stubStockRepo) set(productoID, bodegaID uuid.UUID, cantidad int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[stockKey{productoID, bodegaID}] = cantidad
}

func (r *stubStockRepo) AplicarDeltaTx(_ *gorm.DB, productoID, bodegaID uuid.UUID, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey{productoID, bodegaID}
	actual := r.entries[key]
	if actual+delta < 0 {
		return 0, &domain.NegativeStockError{
			ProductoID: productoID, BodegaID: bodegaID,
			Disponible: actual, Solicitado: -delta,
		}
	}
	r.entries[key] = actual + delta
	return actual + delta, nil
}

func (r *stubStockRepo) StockEnBodega(_ context.Context, productoID, bodegaID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[stockKey{productoID, bodegaID}], nil
}

func (r *stubStockRepo) TotalStock(_ context.Context, productoID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for k, v := range r.entries {
		if k.productoID == productoID {
			total += v
		}
	}
	return total, nil
}

func (r *stubStockRepo) ExistsPorBodega(_ context.Context, bodegaID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range r.entries {
		if k.bodegaID == bodegaID && v > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubStockRepo) ExistsPorProducto(_ context.Context, productoID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range r.entries {
		if k.productoID == productoID && v > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubStockRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubStockRepo) ListMovimientos(_ context.Context, filter dto.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if filter.ProductoID != "" && m.ProductoID.String() != filter.ProductoID {
			continue
		}
		if filter.BodegaID != "" && m.BodegaID.String() != filter.BodegaID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── VentaRepository ──────────────────────────────────────────────────────────

type stubVentaRepo struct {
	mu     sync.Mutex
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.FechaVenta.IsZero() {
		v.FechaVenta = time.Now()
	}
	for i := range v.Items {
		if v.Items[i].ID == uuid.Nil {
			v.Items[i].ID = uuid.New()
		}
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, domain.NotFound("venta", id.String())
	}
	return v, nil
}

func (r *stubVentaRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubVentaRepo) Anular(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.ventas[id]; ok {
		v.Estado = false
	}
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) ExistsPorCaja(_ context.Context, cajaID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.ventas {
		if v.CajaID == cajaID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubVentaRepo) ExistsPorProducto(_ context.Context, productoID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.ventas {
		for _, it := range v.Items {
			if it.ProductoID == productoID {
				return true, nil
			}
		}
	}
	return false, nil
}

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── DocumentoRepository ──────────────────────────────────────────────────────

type stubDocumentoRepo struct {
	mu         sync.Mutex
	documentos map[uuid.UUID]*model.DocumentoTributario
	porVenta   map[uuid.UUID]uuid.UUID
}

func newStubDocumentoRepo() *stubDocumentoRepo {
	return &stubDocumentoRepo{
		documentos: make(map[uuid.UUID]*model.DocumentoTributario),
		porVenta:   make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *stubDocumentoRepo) DB() *gorm.DB { return nil }

func (r *stubDocumentoRepo) CreateTx(_ *gorm.DB, d *model.DocumentoTributario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.FechaEmision.IsZero() {
		d.FechaEmision = time.Now()
	}
	cloned := *d
	r.documentos[d.ID] = &cloned
	r.porVenta[d.VentaID] = d.ID
	return nil
}

func (r *stubDocumentoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.DocumentoTributario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documentos[id]
	if !ok {
		return nil, domain.NotFound("documento tributario", id.String())
	}
	return d, nil
}

func (r *stubDocumentoRepo) FindByVentaID(_ context.Context, ventaID uuid.UUID) (*model.DocumentoTributario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.porVenta[ventaID]
	if !ok {
		return nil, domain.NotFound("documento tributario de la venta", ventaID.String())
	}
	return r.documentos[id], nil
}

func (r *stubDocumentoRepo) ExistsByVentaIDTx(_ *gorm.DB, ventaID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.porVenta[ventaID]
	return ok, nil
}

func (r *stubDocumentoRepo) Anular(_ context.Context, id uuid.UUID, motivo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.documentos[id]; ok {
		d.Estado = false
		d.MotivoAnulacion = &motivo
	}
	return nil
}

func (r *stubDocumentoRepo) Update(_ context.Context, d *model.DocumentoTributario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cloned := *d
	r.documentos[d.ID] = &cloned
	return nil
}

func (r *stubDocumentoRepo) ListPendientesSII(_ context.Context, limit int) ([]model.DocumentoTributario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DocumentoTributario
	for _, d := range r.documentos {
		if d.EstadoSII == model.EstadoSIIPendiente && d.Estado {
			out = append(out, *d)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

var _ repository.DocumentoRepository = (*stubDocumentoRepo)(nil)

// ── FolioRepository ──────────────────────────────────────────────────────────

type stubFolioRepo struct {
	mu     sync.Mutex
	ultimo map[string]int
}

func newStubFolioRepo() *stubFolioRepo {
	return &stubFolioRepo{ultimo: make(map[string]int)}
}

func (r *stubFolioRepo) SiguienteTx(_ *gorm.DB, tipoDocumento string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ultimo[tipoDocumento]++
	return r.ultimo[tipoDocumento], nil
}

var _ repository.FolioRepository = (*stubFolioRepo)(nil)

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) add(p *model.Producto) *model.Producto {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.add(p)
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, domain.NotFound("producto", id.String())
	}
	return p, nil
}

func (r *stubProductoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]*model.Producto)
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *stubProductoRepo) ExistsUnique(_ context.Context, campo, valor string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.productos {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		var actual string
		switch campo {
		case "sku":
			actual = p.SKU
		case "codigo_barra":
			actual = p.CodigoBarra
		case "nombre_producto":
			actual = p.NombreProducto
		case "nombre_abreviado":
			actual = p.NombreAbreviado
		}
		if actual == valor {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── CajaRepository ───────────────────────────────────────────────────────────

type stubCajaRepo struct {
	cajas map[uuid.UUID]*model.Caja
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{cajas: make(map[uuid.UUID]*model.Caja)}
}

func (r *stubCajaRepo) add(c *model.Caja) *model.Caja {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cajas[c.ID] = c
	return c
}

func (r *stubCajaRepo) Create(_ context.Context, c *model.Caja) error {
	r.add(c)
	return nil
}

func (r *stubCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	c, ok := r.cajas[id]
	if !ok {
		return nil, domain.NotFound("caja", id.String())
	}
	return c, nil
}

func (r *stubCajaRepo) Update(_ context.Context, c *model.Caja) error {
	r.cajas[c.ID] = c
	return nil
}

func (r *stubCajaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.cajas, id)
	return nil
}

func (r *stubCajaRepo) ListPorSucursal(_ context.Context, sucursalID uuid.UUID) ([]model.Caja, error) {
	var out []model.Caja
	for _, c := range r.cajas {
		if c.SucursalID == sucursalID {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// ── ComercioRepository ───────────────────────────────────────────────────────

type stubComercioRepo struct {
	comercios  map[uuid.UUID]*model.Comercio
	sucursales map[uuid.UUID]*model.Sucursal
	bodegas    map[uuid.UUID]*model.Bodega
}

func newStubComercioRepo() *stubComercioRepo {
	return &stubComercioRepo{
		comercios:  make(map[uuid.UUID]*model.Comercio),
		sucursales: make(map[uuid.UUID]*model.Sucursal),
		bodegas:    make(map[uuid.UUID]*model.Bodega),
	}
}

func (r *stubComercioRepo) addSucursal(s *model.Sucursal) *model.Sucursal {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sucursales[s.ID] = s
	return s
}

func (r *stubComercioRepo) addBodega(b *model.Bodega) *model.Bodega {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.bodegas[b.ID] = b
	return b
}

func (r *stubComercioRepo) FindComercioByID(_ context.Context, id uuid.UUID) (*model.Comercio, error) {
	c, ok := r.comercios[id]
	if !ok {
		return nil, domain.NotFound("comercio", id.String())
	}
	return c, nil
}

func (r *stubComercioRepo) CreateSucursal(_ context.Context, s *model.Sucursal) error {
	r.addSucursal(s)
	return nil
}

func (r *stubComercioRepo) FindSucursalByID(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	s, ok := r.sucursales[id]
	if !ok {
		return nil, domain.NotFound("sucursal", id.String())
	}
	return s, nil
}

func (r *stubComercioRepo) ListSucursales(_ context.Context) ([]model.Sucursal, error) {
	var out []model.Sucursal
	for _, s := range r.sucursales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubComercioRepo) DeleteSucursal(_ context.Context, id uuid.UUID) error {
	delete(r.sucursales, id)
	return nil
}

func (r *stubComercioRepo) CreateBodega(_ context.Context, b *model.Bodega) error {
	r.addBodega(b)
	return nil
}

func (r *stubComercioRepo) FindBodegaByID(_ context.Context, id uuid.UUID) (*model.Bodega, error) {
	b, ok := r.bodegas[id]
	if !ok {
		return nil, domain.NotFound("bodega", id.String())
	}
	return b, nil
}

func (r *stubComercioRepo) FindBodegaPrincipal(_ context.Context, sucursalID *uuid.UUID) (*model.Bodega, error) {
	if sucursalID != nil {
		for _, b := range r.bodegas {
			if b.EsPrincipal && b.SucursalID != nil && *b.SucursalID == *sucursalID {
				return b, nil
			}
		}
	}
	for _, b := range r.bodegas {
		if b.EsPrincipal && b.SucursalID == nil {
			return b, nil
		}
	}
	return nil, domain.NotFound("bodega principal", "")
}

func (r *stubComercioRepo) ListBodegas(_ context.Context) ([]model.Bodega, error) {
	var out []model.Bodega
	for _, b := range r.bodegas {
		out = append(out, *b)
	}
	return out, nil
}

func (r *stubComercioRepo) DeleteBodega(_ context.Context, id uuid.UUID) error {
	delete(r.bodegas, id)
	return nil
}

var _ repository.ComercioRepository = (*stubComercioRepo)(nil)

// ── UsuarioRepository ────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) add(u *model.Usuario) *model.Usuario {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return u
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.add(u)
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, domain.NotFound("usuario", id.String())
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.NotFound("usuario", username)
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── ClienteRepository ────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
	empresas map[uuid.UUID]*model.Empresa
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{
		clientes: make(map[uuid.UUID]*model.Cliente),
		empresas: make(map[uuid.UUID]*model.Empresa),
	}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, domain.NotFound("cliente", id.String())
	}
	return c, nil
}

func (r *stubClienteRepo) FindByRUT(_ context.Context, rut string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.RUT == rut {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) List(_ context.Context, _, _ int) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if c.Estado {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) CreateEmpresa(_ context.Context, e *model.Empresa) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.empresas[e.ID] = e
	return nil
}

func (r *stubClienteRepo) FindEmpresaByID(_ context.Context, id uuid.UUID) (*model.Empresa, error) {
	e, ok := r.empresas[id]
	if !ok {
		return nil, domain.NotFound("empresa", id.String())
	}
	return e, nil
}

func (r *stubClienteRepo) UpdateEmpresa(_ context.Context, e *model.Empresa) error {
	r.empresas[e.ID] = e
	return nil
}

func (r *stubClienteRepo) ListEmpresas(_ context.Context, _, _ int) ([]model.Empresa, int64, error) {
	var out []model.Empresa
	for _, e := range r.empresas {
		if e.Estado {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) FindEmpresaByRUT(_ context.Context, rut string) (*model.Empresa, error) {
	for _, e := range r.empresas {
		if e.RUTEmpresa == rut {
			return e, nil
		}
	}
	return nil, nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)
