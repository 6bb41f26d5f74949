// Package server expõe o pipeline de licitações e SICAF por HTTP: extração
// de atas, consolidação, exportação e cruzamento com o registro de
// fornecedores.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"licitaserver/database"
	"licitaserver/docs"
	"licitaserver/internal/config"
	"licitaserver/processing"
	"licitaserver/server/middleware"
	"licitaserver/sicaf"
)

// Server é o servidor HTTP do serviço de licitações
type Server struct {
	cfg            *config.Config
	db             *database.ServiceDB
	processor      *processing.Processor
	sicafProcessor *sicaf.Processor
	status         *statusStore

	httpServer  *http.Server
	httpHandler http.Handler
	handlerOnce sync.Once
}

// NewServer monta o servidor com as dependências do pipeline
func NewServer(cfg *config.Config, db *database.ServiceDB) *Server {
	return &Server{
		cfg:            cfg,
		db:             db,
		processor:      processing.NovoProcessor(Logger),
		sicafProcessor: sicaf.NovoProcessor(Logger),
		status:         newStatusStore(),
	}
}

// buildHTTPHandler monta o router do Gin com middleware e rotas
func (s *Server) buildHTTPHandler() http.Handler {
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinRateLimitMiddleware(
		middleware.NewRateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)))

	registerSwaggerRoutes(router)
	s.registerHandlers(router)

	return router
}

// registerSwaggerRoutes registra o Swagger UI sobre a documentação gerada
func registerSwaggerRoutes(router *gin.Engine) {
	docs.SwaggerInfo.Host = "localhost:9999"
	docs.SwaggerInfo.BasePath = "/api"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
}

// registerHandlers registra todas as rotas da API
func (s *Server) registerHandlers(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "licitaserver",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")

	licitacoesAPI := api.Group("/licitacoes")
	{
		licitacoesAPI.POST("/processar-arquivo", s.handleProcessarArquivo)
		licitacoesAPI.POST("/processar-diretorio", s.handleProcessarDiretorio)
		licitacoesAPI.GET("/status/:session_id", s.handleStatusSessao)
		licitacoesAPI.GET("/propostas/:session_id", s.handleListarPropostas)
	}

	consolidadoAPI := api.Group("/consolidado")
	{
		consolidadoAPI.POST("/salvar", s.handleSalvarConsolidado)
		consolidadoAPI.POST("/exportar", s.handleExportarConsolidado)
	}

	sicafAPI := api.Group("/sicaf")
	{
		sicafAPI.POST("/processar", s.handleProcessarSicaf)
		sicafAPI.GET("/verificar/:cnpj", s.handleVerificarCNPJ)
		sicafAPI.GET("/dados/:cnpj", s.handleDadosCNPJ)
		sicafAPI.POST("/comparar", s.handleCompararSicaf)
	}

	configAPI := api.Group("/config")
	{
		configAPI.GET("", s.handleGetConfig)
		configAPI.PUT("", s.handleSaveConfig)
	}
}

// ensureHTTPHandler monta o router uma única vez
func (s *Server) ensureHTTPHandler() http.Handler {
	s.handlerOnce.Do(func() {
		s.httpHandler = s.buildHTTPHandler()
	})
	return s.httpHandler
}

// ServeHTTP implementa http.Handler para os testes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.ensureHTTPHandler().ServeHTTP(w, r)
}

// Start sobe o servidor e bloqueia até SIGINT/SIGTERM, encerrando de forma
// graciosa.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.ensureHTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		Logger.Info("Server starting", "port", s.cfg.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		Logger.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.Shutdown(ctx)
}

// Shutdown encerra o servidor HTTP graciosamente
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	Logger.Info("Initiating graceful shutdown")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("erro ao encerrar o servidor: %w", err)
	}

	Logger.Info("Graceful shutdown completed")
	return nil
}
