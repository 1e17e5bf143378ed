package router

import (
	"fmt"
	"time"

	"tallerpro/internal/config"
	"tallerpro/internal/handler"
	"tallerpro/internal/infra"
	"tallerpro/internal/middleware"
	"tallerpro/internal/repository"
	"tallerpro/internal/scope"
	"tallerpro/internal/service"
	"tallerpro/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived infrastructure objects built in main.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Mailer *infra.Mailer
}

// App is the wired engine plus the pieces main also needs (the email worker).
type App struct {
	Engine      *gin.Engine
	EmailWorker *worker.EmailWorker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()...))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(deps.Redis, "global", 1000, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	almacen, err := infra.NewAlmacen(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	firmador := infra.NewFirmadorURL(cfg.JWTSecret, cfg.PublicBaseURL, time.Duration(cfg.SignedURLTTLMinutes)*time.Minute)
	urlCache := infra.NewURLCache(deps.Redis, time.Duration(cfg.PhotoURLCacheTTLMinutes)*time.Minute)
	dispatcher := worker.NewDispatcher(deps.Redis)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(deps.DB)
	tallerRepo := repository.NewTallerRepository(deps.DB)
	valoracionRepo := repository.NewValoracionRepository(deps.DB)
	comentarioRepo := repository.NewComentarioRepository(deps.DB)
	fotoRepo := repository.NewFotoRepository(deps.DB)
	informeRepo := repository.NewInformeRepository(deps.DB)
	clienteRepo := repository.NewClienteRepository(deps.DB)
	facturaRepo := repository.NewFacturaRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	tallerSvc := service.NewTallerService(tallerRepo)
	valoracionSvc := service.NewValoracionService(valoracionRepo, comentarioRepo, usuarioRepo, clienteRepo, tallerRepo)
	fotoSvc := service.NewFotoService(fotoRepo, valoracionRepo, tallerRepo, almacen, firmador, urlCache)
	informeSvc := service.NewInformeService(informeRepo, valoracionRepo, tallerRepo)
	documentoSvc := service.NewDocumentoService(valoracionRepo, informeRepo, facturaRepo, tallerRepo, dispatcher, cfg.EmpresaNombre)
	clienteSvc := service.NewClienteService(clienteRepo, tallerRepo)
	facturaSvc := service.NewFacturaService(facturaRepo, clienteRepo, tallerRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	talleresH := handler.NewTalleresHandler(tallerSvc)
	valoracionesH := handler.NewValoracionesHandler(valoracionSvc)
	fotosH := handler.NewFotosHandler(fotoSvc)
	informesH := handler.NewInformesHandler(informeSvc, documentoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	facturasH := handler.NewFacturasHandler(facturaSvc, documentoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(handler.Sondas{DB: deps.DB, Redis: deps.Redis, Mailer: deps.Mailer, Almacen: almacen}))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.RateLimiter(deps.Redis, "login", 10, time.Minute), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Signed links carry their own credential
	r.GET("/v1/archivos/:token", fotosH.Descargar)

	// Protected routes; rows are filtered per caller by scope inside services
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		val := v1.Group("/valoraciones")
		{
			val.GET("", valoracionesH.Listar)
			val.GET("/tablero", valoracionesH.Tablero)
			val.POST("", valoracionesH.Crear)
			val.GET("/:id", valoracionesH.Obtener)
			val.PUT("/:id", valoracionesH.Actualizar)
			val.POST("/:id/estado", valoracionesH.CambiarEstado)
			val.POST("/:id/valorador", valoracionesH.AsignarValorador)
			val.DELETE("/:id/valorador", valoracionesH.DesasignarValorador)
			val.POST("/:id/siniestro-total", valoracionesH.SiniestroTotal)
			val.GET("/:id/comentarios", valoracionesH.ListarComentarios)
			val.POST("/:id/comentarios", valoracionesH.Comentar)
			val.GET("/:id/fotos", fotosH.Listar)
			val.POST("/:id/fotos", fotosH.Subir)
			val.DELETE("/:id/fotos/:foto_id", fotosH.Borrar)
			val.GET("/:id/informe", informesH.Obtener)
			val.PUT("/:id/informe", informesH.Guardar)
			val.GET("/:id/informe/pdf", informesH.PDF)
			val.POST("/:id/informe/enviar", informesH.Enviar)
		}

		cli := v1.Group("/clientes")
		{
			cli.GET("", clientesH.Listar)
			cli.POST("", clientesH.Crear)
			cli.GET("/:id", clientesH.Obtener)
			cli.PUT("/:id", clientesH.Actualizar)
			cli.DELETE("/:id", clientesH.Desactivar)
			cli.PATCH("/:id/reactivar", clientesH.Reactivar)
		}

		fac := v1.Group("/facturas")
		{
			fac.GET("", facturasH.Listar)
			fac.POST("", facturasH.Crear)
			fac.POST("/calcular", facturasH.Calcular)
			fac.GET("/:id", facturasH.Obtener)
			fac.PUT("/:id", facturasH.Actualizar)
			fac.PATCH("/:id/pagada", facturasH.MarcarPagada)
			fac.GET("/:id/pdf", facturasH.PDF)
			fac.POST("/:id/enviar", facturasH.Enviar)
		}

		v1.GET("/talleres", talleresH.Listar)

		usuarios := v1.Group("/usuarios", middleware.RequireRole(scope.SuperAdmin))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI outside production only
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &App{Engine: r, EmailWorker: worker.NewEmailWorker(documentoSvc, deps.Mailer)}, nil
}
