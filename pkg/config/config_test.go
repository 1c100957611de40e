package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.App.StorageDriver)
	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 7, cfg.Inventory.ExpiringDays)
	assert.Equal(t, "log", cfg.Alerts.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("INVENTORY_LOW_STOCK_THRESHOLD", "4")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ALERTS_DRIVER", "kafka")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("BARCODE_BASE_URL", "https://inv.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.StorageDriver)
	assert.Equal(t, 4, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Alerts.KafkaBrokers)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "https://inv.example.com", cfg.Barcode.BaseURL)
}

func TestLoad_SecretoObligatorioEnProduccion(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UmbralNegativo(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("INVENTORY_LOW_STOCK_THRESHOLD", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVENTORY_LOW_STOCK_THRESHOLD")
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{User: "app", Password: "p@ss", Host: "db", Port: 5432, DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/inv?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
