package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Trading  TradingConfig
	Oracle   OracleConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// Поддерживаемые драйверы хранилища
const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
)

// StorageConfig - настройки персистентности.
// По умолчанию - JSON файлы в DataDir; драйвер postgres включает
// хранение в БД через internal/repository.
type StorageConfig struct {
	Driver  string
	DataDir string

	// Настройки Postgres (используются только при Driver=postgres)
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// TradingConfig - параметры симулятора
type TradingConfig struct {
	// FeeRate - комиссия с каждой сделки (0.005 = 0.5%)
	FeeRate decimal.Decimal

	// Начальный баланс кошелька при первом запуске / после потери файла
	InitialBalance decimal.Decimal
	InitialAsset   string

	// SweepInterval - период прохода matching engine по pending ордерам
	SweepInterval time.Duration
}

// OracleConfig - настройки клиента котировок
type OracleConfig struct {
	BaseURL      string
	Timeout      time.Duration
	CacheTTL     time.Duration // время жизни закэшированной цены
	RateLimit    float64       // запросов в секунду к API котировок
	RateBurst    float64
	MaxRetries   int
	RetryBackoff time.Duration
}

// SecurityConfig - настройки доступа к API.
// APIPasswordHash - bcrypt-хеш пароля; пустое значение отключает auth
// (локальное развертывание на одного пользователя).
type SecurityConfig struct {
	APIPasswordHash string

	// AllowedOrigins - comma-separated список origins для CORS и
	// websocket; пустая строка или "*" разрешает все
	AllowedOrigins string
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS: getEnvAsBool("USE_HTTPS", false),
			CertFile: getEnv("CERT_FILE", ""),
			KeyFile:  getEnv("KEY_FILE", ""),
		},
		Storage: StorageConfig{
			Driver:   getEnv("STORAGE_DRIVER", StorageDriverFile),
			DataDir:  getEnv("DATA_DIR", "./data"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "simulador"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Trading: TradingConfig{
			FeeRate:        getEnvAsDecimal("FEE_RATE", "0.005"),
			InitialBalance: getEnvAsDecimal("INITIAL_BALANCE", "10000"),
			InitialAsset:   getEnv("INITIAL_ASSET", "USDT"),
			SweepInterval:  getEnvAsDuration("SWEEP_INTERVAL", 10*time.Second),
		},
		Oracle: OracleConfig{
			BaseURL:      getEnv("ORACLE_BASE_URL", "https://api.binance.com"),
			Timeout:      getEnvAsDuration("ORACLE_TIMEOUT", 10*time.Second),
			CacheTTL:     getEnvAsDuration("ORACLE_CACHE_TTL", 5*time.Second),
			RateLimit:    getEnvAsFloat("ORACLE_RATE_LIMIT", 10),
			RateBurst:    getEnvAsFloat("ORACLE_RATE_BURST", 20),
			MaxRetries:   getEnvAsInt("ORACLE_MAX_RETRIES", 3),
			RetryBackoff: getEnvAsDuration("ORACLE_RETRY_BACKOFF", 500*time.Millisecond),
		},
		Security: SecurityConfig{
			APIPasswordHash: getEnv("API_PASSWORD_HASH", ""),
			AllowedOrigins:  getEnv("ALLOWED_ORIGINS", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Storage.Driver != StorageDriverFile && c.Storage.Driver != StorageDriverPostgres {
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q",
			StorageDriverFile, StorageDriverPostgres, c.Storage.Driver)
	}

	if c.Storage.Driver == StorageDriverPostgres {
		if c.Storage.Port < 1 || c.Storage.Port > 65535 {
			return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Storage.Port)
		}
	}

	// Комиссия: [0, 1), т.е. от 0% до 100% не включительно
	if c.Trading.FeeRate.Sign() < 0 || c.Trading.FeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("FEE_RATE must be in [0, 1), got %s", c.Trading.FeeRate)
	}

	if c.Trading.InitialBalance.Sign() < 0 {
		return fmt.Errorf("INITIAL_BALANCE cannot be negative, got %s", c.Trading.InitialBalance)
	}

	if c.Trading.InitialAsset == "" {
		return fmt.Errorf("INITIAL_ASSET is required")
	}

	if c.Trading.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %v", c.Trading.SweepInterval)
	}

	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("ORACLE_TIMEOUT must be positive, got %v", c.Oracle.Timeout)
	}

	if c.Oracle.MaxRetries < 0 {
		return fmt.Errorf("ORACLE_MAX_RETRIES cannot be negative, got %d", c.Oracle.MaxRetries)
	}

	if c.Oracle.MaxRetries > 10 {
		return fmt.Errorf("ORACLE_MAX_RETRIES should not exceed 10, got %d", c.Oracle.MaxRetries)
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (s StorageConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Name, s.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (s StorageConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Name, s.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDecimal(key string, defaultValue string) decimal.Decimal {
	def, _ := decimal.NewFromString(defaultValue)
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return def
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return def
	}
	return value
}
