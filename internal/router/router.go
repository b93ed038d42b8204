package router

import (
	"time"

	"simplesales/internal/config"
	"simplesales/internal/handler"
	"simplesales/internal/infra"
	"simplesales/internal/middleware"
	"simplesales/internal/repository"
	"simplesales/internal/service"
	"simplesales/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb and smtpCB are nil when notifications are disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.SMTPBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(time.Duration(cfg.SlowRequestThresholdMs) * time.Millisecond))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	uow := repository.NewUnitOfWork(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)

	// Worker dispatcher, injected into the sale service, which enqueues
	// notifications after each committed transition.
	var notifier service.Notifier
	if rdb != nil && cfg.NotificationsEnabled {
		notifier = worker.NewDispatcher(rdb)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	categoriaSvc := service.NewCategoriaService(categoriaRepo, produtoRepo)
	clienteSvc := service.NewClienteService(clienteRepo, vendaRepo)
	produtoSvc := service.NewProdutoService(produtoRepo, categoriaRepo, cfg.LowStockDefaultLimit)
	vendaSvc := service.NewVendaService(uow, vendaRepo, clienteRepo, produtoRepo, notifier)

	// ── Handlers ─────────────────────────────────────────────────────────────
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, smtpCB))

	api := r.Group("/api")

	categorias := api.Group("/categorias")
	{
		categorias.GET("", categoriasH.Listar)
		categorias.POST("", categoriasH.Criar)
		categorias.GET("/:id", categoriasH.ObterPorID)
		categorias.PUT("/:id", categoriasH.Atualizar)
		categorias.DELETE("/:id", categoriasH.Excluir)
		categorias.GET("/:id/produtos", categoriasH.ListarProdutos)
	}

	clientes := api.Group("/clientes")
	{
		clientes.GET("", clientesH.Listar)
		clientes.POST("", clientesH.Criar)
		clientes.GET("/search", clientesH.Pesquisar)
		clientes.GET("/:id", clientesH.ObterPorID)
		clientes.PUT("/:id", clientesH.Atualizar)
		clientes.DELETE("/:id", clientesH.Excluir)
		clientes.GET("/:id/vendas", clientesH.ListarVendas)
	}

	produtos := api.Group("/produtos")
	{
		produtos.GET("", produtosH.Listar)
		produtos.POST("", produtosH.Criar)
		produtos.GET("/search", produtosH.Pesquisar)
		produtos.GET("/baixo-estoque", produtosH.BaixoEstoque)
		produtos.GET("/categoria/:id", produtosH.ListarPorCategoria)
		produtos.GET("/:id", produtosH.ObterPorID)
		produtos.PUT("/:id", produtosH.Atualizar)
		produtos.DELETE("/:id", produtosH.Excluir)
		produtos.PATCH("/:id/ativar", produtosH.Ativar)
		produtos.PATCH("/:id/desativar", produtosH.Desativar)
	}

	vendas := api.Group("/vendas")
	{
		vendas.GET("", vendasH.Listar)
		vendas.POST("", vendasH.Criar)
		vendas.GET("/periodo", vendasH.ListarPorPeriodo)
		vendas.GET("/cliente/:id", vendasH.ListarPorCliente)
		vendas.GET("/status/:status", vendasH.ListarPorStatus)
		vendas.GET("/:id", vendasH.ObterPorID)
		vendas.DELETE("/:id", vendasH.Excluir)
		vendas.PATCH("/:id/confirmar", vendasH.Confirmar)
		vendas.PATCH("/:id/cancelar", vendasH.Cancelar)
		vendas.PATCH("/:id/entregar", vendasH.Entregar)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
