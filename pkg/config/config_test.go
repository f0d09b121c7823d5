package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.JWT.Enabled(), "sin JWT_SECRET la autenticación queda deshabilitada")
	assert.False(t, cfg.Kafka.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "Postgres")
	v.Set("HTTP_PORT", "9090")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("MONGO_TRANSACTIONS", "true")

	cfg := fromViper(v)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.JWT.Enabled())
	assert.True(t, cfg.Mongo.Transactions)
	require.NoError(t, cfg.Validate())
}

func TestValidate_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "firestore")

	err := fromViper(v).Validate()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestValidate_PuertoInvalido(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "0")

	assert.Error(t, fromViper(v).Validate())
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "carro", SSLMode: "disable"}

	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/carro?sslmode=disable", c.ConnectionString())
}

func TestReportLocation_FallbackUTC(t *testing.T) {
	assert.Equal(t, "UTC", ReportConfig{Timezone: "No/Existe"}.Location().String())
}
