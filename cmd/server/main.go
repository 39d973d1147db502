package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"godash/config"
	"godash/internal/app"
	"godash/internal/pkg/logger"
)

// @title GoDash API
// @version 1.0
// @description API de back-office de e-commerce: produtos, pedidos, painel e backup.
// @BasePath /v1
func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Inicialização
	cfg := config.LoadConfig()
	zl := logger.NewLogger(cfg.LogLevel)
	defer func() {
		if s, ok := zl.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
	}()
	zl.Info("⚡ Inicializando serviço GoDash...", map[string]interface{}{
		"env":          cfg.Environment,
		"store_driver": cfg.StoreDriver,
	})

	// 2. Conexão com o armazenamento e injeção de dependências
	a, err := app.New(cfg, zl)
	if err != nil {
		zl.Fatal("Falha ao inicializar a aplicação.", err)
	}
	defer a.Close()

	// 3. Dados de demonstração
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := a.Seed(seedCtx); err != nil {
		zl.Error("Falha ao popular os dados de demonstração.", err)
	}
	cancelSeed()

	// 4. Configuração e Início do Servidor
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		zl.Info("Servidor GoDash ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	zl.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zl.Error("Desligamento do servidor forçado.", err)
	}

	zl.Info("Servidor encerrado com sucesso.", nil)
}
