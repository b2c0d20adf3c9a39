package router

import (
	"time"

	"camher/internal/config"
	"camher/internal/handler"
	"camher/internal/middleware"
	"camher/internal/model"
	"camher/internal/repository"
	"camher/internal/service"
	"camher/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	r.Use(middleware.RateLimiter(200, time.Minute)) // 200 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	perfilRepo := repository.NewPerfilRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	unidadRepo := repository.NewUnidadRepository(db)
	refaccionRepo := repository.NewRefaccionRepository(db)
	archivoRepo := repository.NewArchivoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Worker dispatcher — injected into the notification despachador so the
	// engine can hand off email delivery after each committed transition.
	dispatcher := worker.NewDispatcher(rdb)
	notificador := service.NewDespachadorNotificaciones(perfilRepo, proveedorRepo, dispatcher, cfg.AppURL)

	guardia := service.NewGuardiaRoles(proveedorRepo)
	adjuntos := service.NewLibroAdjuntos(archivoRepo)
	politica := service.PoliticaPrecios{
		UmbralEfectivo:      cfg.UmbralEfectivoDecimal(),
		UmbralTransferencia: cfg.UmbralTransferenciaDecimal(),
	}

	authSvc := service.NewAuthService(perfilRepo, notificador, cfg)
	refaccionSvc := service.NewRefaccionService(refaccionRepo, unidadRepo, proveedorRepo, guardia, adjuntos, notificador, politica)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	unidadSvc := service.NewUnidadService(unidadRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	refaccionesH := handler.NewRefaccionesHandler(refaccionSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	unidadesH := handler.NewUnidadesHandler(unidadSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/registro", authH.Registro)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Catálogo de estatus — cualquier cuenta autenticada
		v1.GET("/estatus", handler.ListarEstatus)

		// Refacciones — el listado y el detalle filtran por rol dentro del
		// servicio; las acciones declaran el rol que actúa por endpoint. La
		// propiedad (taller dueño, proveedor asignado) se valida en la capa
		// de servicio, nunca aquí.
		refs := v1.Group("/refacciones")
		{
			refs.GET("", refaccionesH.Listar)
			refs.GET("/:id", refaccionesH.Detalle)
			refs.GET("/:id/historial", refaccionesH.Historial)

			refs.POST("", middleware.RequireRole(model.RolTaller), refaccionesH.Crear)
			refs.PUT("/:id", middleware.RequireRole(model.RolTaller), refaccionesH.Editar)
			refs.DELETE("/:id", middleware.RequireRole(model.RolTaller), refaccionesH.Eliminar)
			refs.POST("/:id/incidente", middleware.RequireRole(model.RolTaller), refaccionesH.SubirIncidente)

			refs.POST("/:id/aprobar", middleware.RequireRole(model.RolAdmin), refaccionesH.Aprobar)
			refs.POST("/:id/rechazar", middleware.RequireRole(model.RolAdmin), refaccionesH.Rechazar)

			refs.POST("/:id/aceptar", middleware.RequireRole(model.RolProveedor), refaccionesH.Aceptar)
			refs.POST("/:id/devolver", middleware.RequireRole(model.RolProveedor), refaccionesH.Devolver)
			refs.POST("/:id/factura", middleware.RequireRole(model.RolProveedor), refaccionesH.SubirFactura)

			refs.POST("/:id/contrarecibo", middleware.RequireRole(model.RolContador), refaccionesH.SubirContrarecibo)

			refs.POST("/:id/cancelar", middleware.RequireRole(model.RolAdmin, model.RolTaller), refaccionesH.Cancelar)
		}

		// Proveedores — lectura para taller/admin (el taller elige proveedor al
		// editar), escritura solo admin
		v1.GET("/proveedores", middleware.RequireRole(model.RolAdmin, model.RolTaller), proveedoresH.Listar)
		prov := v1.Group("/proveedores", middleware.RequireRole(model.RolAdmin))
		{
			prov.POST("", proveedoresH.Crear)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Desactivar)
		}

		// Unidades — lectura para taller/admin, alta solo admin
		v1.GET("/unidades", middleware.RequireRole(model.RolAdmin, model.RolTaller), unidadesH.Listar)
		v1.POST("/unidades", middleware.RequireRole(model.RolAdmin), unidadesH.Crear)

		// Usuarios — administración de cuentas
		usuarios := v1.Group("/usuarios", middleware.RequireRole(model.RolAdmin))
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.POST("/:id/aprobar", usuariosH.Aprobar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
