// Comando godashctl: operações administrativas sobre o mesmo armazenamento do servidor.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"godash/config"
	"godash/internal/app"
	"godash/internal/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	open := func() (*app.App, error) {
		cfg := config.LoadConfig()
		// A CLI não simula latência de rede.
		cfg.LatencyEnabled = false
		return app.New(cfg, logger.NewLogger(cfg.LogLevel))
	}

	if err := newRootCmd(open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
