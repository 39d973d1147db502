package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Drivers de armazenamento aceitos em STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config armazena todas as configurações do GoDash.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string
	Timezone    string // fuso usado nas comparações por dia do painel; vazio = fuso local

	// Armazenamento
	StoreDriver string
	DataDir     string
	StoreStrict bool // falha de leitura vira erro em vez de coleção vazia

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis)
	RedisAddr    string
	RedisPrefix  string
	CacheTimeout time.Duration

	// Comportamento do serviço
	LatencyEnabled bool
	SeedOnStart    bool

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// HTTP
	CORSOrigins []string
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("TIMEZONE", ""),

		// 2. Armazenamento
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
		DataDir:     getEnv("DATA_DIR", "./data"),
		StoreStrict: getBoolEnv("STORE_STRICT", false),

		// 3. Banco de Dados (PostgreSQL)
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 4. Cache (Redis)
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPrefix:  getEnv("REDIS_PREFIX", "godash:"),
		CacheTimeout: getDurationEnv("CACHE_TIMEOUT_SEC", 10) * time.Second,

		// 5. Comportamento
		LatencyEnabled: getBoolEnv("LATENCY_ENABLED", true),
		SeedOnStart:    getBoolEnv("SEED_ON_START", true),

		// 6. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		// 7. HTTP
		CORSOrigins: getListEnv("CORS_ORIGINS", []string{"*"}),
	}

	return cfg
}

// Validate confere as combinações que só fazem sentido juntas.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverRedis:
	case DriverFile:
		if c.DataDir == "" {
			return fmt.Errorf("config: DATA_DIR é obrigatório com STORE_DRIVER=%s", DriverFile)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL é obrigatório com STORE_DRIVER=%s", DriverPostgres)
		}
	default:
		return fmt.Errorf("config: STORE_DRIVER desconhecido %q (use memory, file, redis ou postgres)", c.StoreDriver)
	}
	if c.RateLimitMaxRequests < 0 {
		return fmt.Errorf("config: RATE_LIMIT_MAX_REQUESTS não pode ser negativo")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolve o fuso do painel.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: TIMEZONE inválido %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão; valor vazio conta como ausente.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getBoolEnv aceita os formatos de strconv.ParseBool (true, 1, false, 0...).
func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é booleano. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getListEnv lê uma lista separada por vírgulas, ignorando itens vazios.
func getListEnv(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
