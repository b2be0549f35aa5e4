package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Políticas para ventas sin bodega en la proyección por bodega.
const (
	UnscopedSalesExclude = "exclude"
	UnscopedSalesInclude = "include"
)

// Drivers de almacenamiento soportados.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Redis  RedisConfig
	Engine EngineConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Storage  string // postgres | memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	Migrate     bool // aplicar migraciones embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig Redis opcional para claves de idempotencia. URL vacía = deshabilitado.
type RedisConfig struct {
	URL            string
	IdempotencyTTL time.Duration
}

// EngineConfig parámetros del motor de inventario.
type EngineConfig struct {
	DefaultMinStock     int64  // mínimo usado cuando no existe registro de inventario
	LookbackDays        int    // ventana por defecto para la proyección de demanda
	AlertRecentDays     int    // ventana de ventas recientes para alertas de stock bajo
	UnscopedSalesPolicy string // exclude | include
	AggregateWorkers    int    // concurrencia al sumar bodegas de una empresa
	TxTimeout           time.Duration
}

// Validate verifica los parámetros del motor.
func (c EngineConfig) Validate() error {
	if c.DefaultMinStock < 0 {
		return fmt.Errorf("config: ENGINE_DEFAULT_MIN_STOCK debe ser >= 0")
	}
	if c.LookbackDays <= 0 || c.AlertRecentDays <= 0 {
		return fmt.Errorf("config: las ventanas de ventas deben ser > 0")
	}
	if c.UnscopedSalesPolicy != UnscopedSalesExclude && c.UnscopedSalesPolicy != UnscopedSalesInclude {
		return fmt.Errorf("config: ENGINE_UNSCOPED_SALES_POLICY inválida %q", c.UnscopedSalesPolicy)
	}
	if c.AggregateWorkers <= 0 {
		return fmt.Errorf("config: ENGINE_AGGREGATE_WORKERS debe ser > 0")
	}
	return nil
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env / config.env).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventory-engine"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Storage:  getString(v, "STORAGE_DRIVER", StoragePostgres),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventory_engine"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			Migrate:     getBool(v, "DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "inventory-engine"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			URL:            getString(v, "REDIS_URL", ""),
			IdempotencyTTL: time.Duration(getInt(v, "IDEMPOTENCY_TTL_MINUTES", 60*24)) * time.Minute,
		},
		Engine: EngineConfig{
			DefaultMinStock:     int64(getInt(v, "ENGINE_DEFAULT_MIN_STOCK", 0)),
			LookbackDays:        getInt(v, "ENGINE_LOOKBACK_DAYS", 30),
			AlertRecentDays:     getInt(v, "ENGINE_ALERT_RECENT_DAYS", 30),
			UnscopedSalesPolicy: strings.ToLower(getString(v, "ENGINE_UNSCOPED_SALES_POLICY", UnscopedSalesExclude)),
			AggregateWorkers:    getInt(v, "ENGINE_AGGREGATE_WORKERS", 8),
			TxTimeout:           time.Duration(getInt(v, "ENGINE_TX_TIMEOUT_SECONDS", 5)) * time.Second,
		},
	}
	if cfg.App.Storage != StoragePostgres && cfg.App.Storage != StorageMemory {
		return nil, fmt.Errorf("config: STORAGE_DRIVER inválido %q", cfg.App.Storage)
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	return v.GetBool(key)
}
