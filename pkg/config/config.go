package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	Store  StoreConfig
	Mongo  MongoConfig
	DB     DBConfig
	JWT    JWTConfig
	Kafka  KafkaConfig
	Report ReportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsDevelopment indica si la app corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	StaticDir   string // frontend estático; vacío = no se sirve
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selecciona el backend de persistencia.
type StoreConfig struct {
	Driver string // mongo | postgres | memory
}

// MongoConfig credenciales del almacén documental.
type MongoConfig struct {
	URI          string
	Database     string
	Transactions bool // requiere replica set; false = operaciones condicionales sin sesión
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

// JWTConfig configuración de JWT. Secret vacío = autenticación deshabilitada.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Enabled indica si las rutas /api exigen Bearer token.
func (c JWTConfig) Enabled() bool {
	return c.Secret != ""
}

// KafkaConfig publicación de movimientos. Sin brokers no se publica nada.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled indica si hay brokers configurados.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// ReportConfig opciones de los reportes.
type ReportConfig struct {
	Timezone string
}

// Location devuelve la zona horaria de los reportes (UTC si no se puede cargar).
func (c ReportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, MONGO_URI, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "carro-urgencias"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			StaticDir:   getString(v, "HTTP_STATIC_DIR", "./web"),
			CORSOrigins: getString(v, "CORS_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", DriverMongo)),
		},
		Mongo: MongoConfig{
			URI:          getString(v, "MONGO_URI", "mongodb://localhost:27017"),
			Database:     getString(v, "MONGO_DB", "carro_urgencias"),
			Transactions: getBool(v, "MONGO_TRANSACTIONS", false),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "carro_urgencias"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "carro-urgencias"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getString(v, "KAFKA_BROKERS", "")),
			Topic:   getString(v, "KAFKA_TOPIC", "carro-movimientos"),
		},
		Report: ReportConfig{
			Timezone: getString(v, "REPORT_TIMEZONE", "America/Bogota"),
		},
	}
}

// Validate comprueba que el driver exista y tenga sus credenciales.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("config: MONGO_URI y MONGO_DB son requeridos con STORE_DRIVER=mongo")
		}
	case DriverPostgres:
		if c.DB.DatabaseURL == "" && c.DB.Host == "" {
			return fmt.Errorf("config: DATABASE_URL o DB_HOST son requeridos con STORE_DRIVER=postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.Store.Driver)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: HTTP_PORT inválido %d", c.HTTP.Port)
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("config: KAFKA_TOPIC es requerido cuando KAFKA_BROKERS está definido")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
