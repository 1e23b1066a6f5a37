package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		conf, err := NewConfig(nil)
		require.NoError(t, err)

		assert.Equal(t, "localhost:8080", conf.HTTP.HostString)
		assert.Equal(t, DriverPostgres, conf.Database.Driver)
		assert.Empty(t, conf.Database.DSN)
		assert.Equal(t, "checkout.db", conf.Cache.Path)
		assert.Equal(t, "https://ipwho.is/", conf.Notify.IPLookupURL)
		assert.Equal(t, 5*time.Second, conf.Notify.Timeout)
		assert.Equal(t, "checkout.orders", conf.Kafka.Topic)
		assert.Equal(t, AppModeDevelop, conf.App.Mode)
	})

	t.Run("Environment overrides flags", func(t *testing.T) {
		t.Setenv("RUN_ADDRESS", ":9090")
		t.Setenv("DATABASE_DRIVER", DriverSQLite)
		t.Setenv("NOTIFY_TIMEOUT", "2s")

		conf, err := NewConfig([]string{"-a", ":7070", "-c", "/tmp/orders.db"})
		require.NoError(t, err)

		assert.Equal(t, ":9090", conf.HTTP.HostString)
		assert.Equal(t, DriverSQLite, conf.Database.Driver)
		assert.Equal(t, "/tmp/orders.db", conf.Cache.Path)
		assert.Equal(t, 2*time.Second, conf.Notify.Timeout)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		_, err := NewConfig([]string{"-driver", "oracle"})
		assert.Error(t, err)
	})
}
