package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"godash/config"
	"godash/internal/pkg/database"
	"godash/internal/pkg/logger"
)

// Comandos goose aceitos por este binário.
var commands = map[string]bool{
	"up": true, "up-by-one": true, "up-to": true,
	"down": true, "down-to": true, "redo": true, "reset": true,
	"status": true, "version": true,
}

func usage() {
	fmt.Fprintf(os.Stderr, "uso: migrate [-database URL] <comando> [args]\n\ncomandos: up (padrão), up-by-one, up-to N, down, down-to N, redo, reset, status, version\n\n")
	flag.PrintDefaults()
}

func main() {
	dsn := flag.String("database", "", "URL do PostgreSQL (sobrepõe DATABASE_URL)")
	flag.Usage = usage

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Usando apenas o ambiente do sistema.")
	}
	flag.Parse()

	cfg := config.LoadConfig()
	zl := logger.NewLogger(cfg.LogLevel).With(map[string]interface{}{"component": "migrate"})

	if *dsn != "" {
		cfg.DatabaseURL = *dsn
	}
	if cfg.DatabaseURL == "" {
		zl.Fatal("Migração abortada", fmt.Errorf("DATABASE_URL não definido e -database ausente"))
	}

	// 1. Comando e argumentos
	command, args := "up", []string(nil)
	if rest := flag.Args(); len(rest) > 0 {
		command, args = rest[0], rest[1:]
	}
	if !commands[command] {
		usage()
		os.Exit(2)
	}

	// 2. Conexão e execução sobre as migrações embutidas no binário
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("Falha ao conectar no PostgreSQL", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, command, args...); err != nil {
		zl.Fatal("Falha ao executar a migração", err)
	}
	zl.Info("Migração concluída.", map[string]interface{}{"command": command, "args": args})
}
