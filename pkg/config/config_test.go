package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "inventory-engine", cfg.App.Name)
	assert.Equal(t, StoragePostgres, cfg.App.Storage)
	assert.Equal(t, int64(0), cfg.Engine.DefaultMinStock)
	assert.Equal(t, 30, cfg.Engine.LookbackDays)
	assert.Equal(t, UnscopedSalesExclude, cfg.Engine.UnscopedSalesPolicy)
	assert.Equal(t, 5*time.Second, cfg.Engine.TxTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_EnvComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("ENGINE_DEFAULT_MIN_STOCK", "4")
	v.Set("ENGINE_UNSCOPED_SALES_POLICY", "INCLUDE")
	v.Set("HTTP_PORT", "9090")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, int64(4), cfg.Engine.DefaultMinStock)
	assert.Equal(t, UnscopedSalesInclude, cfg.Engine.UnscopedSalesPolicy)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_PoliticaInvalida(t *testing.T) {
	v := viper.New()
	v.Set("ENGINE_UNSCOPED_SALES_POLICY", "a-veces")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_StorageInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "sqlite")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/inv?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
