package router

import (
	"time"

	"github.com/jmcstoltze/aplicacion-pos/internal/config"
	"github.com/jmcstoltze/aplicacion-pos/internal/handler"
	"github.com/jmcstoltze/aplicacion-pos/internal/infra"
	"github.com/jmcstoltze/aplicacion-pos/internal/middleware"
	"github.com/jmcstoltze/aplicacion-pos/internal/repository"
	"github.com/jmcstoltze/aplicacion-pos/internal/service"
	"github.com/jmcstoltze/aplicacion-pos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, siiCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	stockRepo := repository.NewStockRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	documentoRepo := repository.NewDocumentoRepository(db)
	folioRepo := repository.NewFolioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	comercioRepo := repository.NewComercioRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	inventarioSvc := service.NewInventarioService(stockRepo, productoRepo, comercioRepo)
	productoSvc := service.NewProductoService(productoRepo, stockRepo, ventaRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, cajaRepo, stockRepo, comercioRepo, documentoRepo, cfg.IVATasa)
	documentoSvc := service.NewDocumentoService(documentoRepo, ventaRepo, folioRepo, dispatcher)
	conciliacionSvc := service.NewConciliacionService(documentoRepo, ventaRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	cajaSvc := service.NewCajaService(cajaRepo, usuarioRepo, comercioRepo, ventaRepo)
	comercioSvc := service.NewComercioService(comercioRepo, stockRepo, cajaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ventasH := handler.NewVentasHandler(ventaSvc)
	documentosH := handler.NewDocumentosHandler(documentoSvc, conciliacionSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	comercioH := handler.NewComercioHandler(comercioSvc)
	cajasH := handler.NewCajasHandler(cajaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, siiCB))

	// Protected routes — tokens come from the external auth service
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		operadores := middleware.RequireRole("cajero", "supervisor", "administrador")
		supervisores := middleware.RequireRole("supervisor", "administrador")
		administradores := middleware.RequireRole("administrador")

		v1.POST("/ventas", operadores, ventasH.RegistrarVenta)
		v1.GET("/ventas", operadores, ventasH.ListarVentas)
		v1.GET("/ventas/:id", operadores, ventasH.ObtenerVenta)
		v1.DELETE("/ventas/:id", supervisores, ventasH.AnularVenta)
		v1.GET("/ventas/:id/documento", operadores, documentosH.ObtenerPorVenta)

		v1.POST("/documentos", operadores, documentosH.Emitir)
		v1.GET("/documentos/:id", operadores, documentosH.Obtener)
		v1.DELETE("/documentos/:id", supervisores, documentosH.Anular)
		v1.GET("/documentos/:id/conciliacion", supervisores, documentosH.Conciliar)

		v1.GET("/productos", operadores, productosH.Listar)
		v1.GET("/productos/:id", operadores, productosH.Obtener)
		prods := v1.Group("/productos", administradores)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.PATCH("/:id/desactivar", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		inv := v1.Group("/inventario", supervisores)
		{
			inv.POST("/ajustes", inventarioH.Ajustar)
			inv.GET("/stock/:producto_id", inventarioH.Stock)
			inv.GET("/movimientos", inventarioH.Movimientos)
		}

		v1.POST("/clientes", operadores, clientesH.Crear)
		v1.GET("/clientes", operadores, clientesH.Listar)
		v1.GET("/clientes/buscar", operadores, clientesH.BuscarPorRUT)
		v1.GET("/clientes/:id", operadores, clientesH.Obtener)
		v1.PUT("/clientes/:id", operadores, clientesH.Actualizar)
		v1.DELETE("/clientes/:id", supervisores, clientesH.Desactivar)
		v1.POST("/empresas", supervisores, clientesH.CrearEmpresa)
		v1.GET("/empresas", operadores, clientesH.ListarEmpresas)
		v1.GET("/empresas/:id", operadores, clientesH.ObtenerEmpresa)
		v1.PUT("/empresas/:id", supervisores, clientesH.ActualizarEmpresa)
		v1.DELETE("/empresas/:id", supervisores, clientesH.DesactivarEmpresa)

		admin := v1.Group("", administradores)
		{
			admin.POST("/sucursales", comercioH.CrearSucursal)
			admin.GET("/sucursales", comercioH.ListarSucursales)
			admin.DELETE("/sucursales/:id", comercioH.EliminarSucursal)
			admin.POST("/bodegas", comercioH.CrearBodega)
			admin.GET("/bodegas", comercioH.ListarBodegas)
			admin.DELETE("/bodegas/:id", comercioH.EliminarBodega)

			admin.POST("/cajas", cajasH.Crear)
			admin.GET("/cajas", cajasH.ListarPorSucursal)
			admin.POST("/cajas/:id/asignar", cajasH.Asignar)
			admin.POST("/cajas/:id/liberar", cajasH.Liberar)
			admin.PATCH("/cajas/:id/activar", cajasH.Activar)
			admin.PATCH("/cajas/:id/desactivar", cajasH.Desactivar)
			admin.DELETE("/cajas/:id", cajasH.Eliminar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
