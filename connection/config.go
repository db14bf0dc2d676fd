package connection

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

type Config struct {
	Port            string
	GinMode         string
	StoreDriver     string
	MongoURI        string
	DBName          string
	CredentialsFile string
	AuthProvider    string
	JWTSecret       string
	JWTTTL          time.Duration
	RequestTimeout  time.Duration
	StoreOpTimeout  time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	LogLevel        string
	LogFormat       string
}

// LoadConfig reads and validates the configuration.
func LoadConfig() (*Config, error) {
	cfg := ReadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfig reads .env (when present) and the process environment without
// validating the result.
func ReadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug("no .env file loaded, using process environment", zap.Error(err))
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "5000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("DB_NAME", "BDC-V2")
	v.SetDefault("DB_HOST", "cluster12.tzkl8fh.mongodb.net")
	v.SetDefault("AUTH_PROVIDER", AuthJWT)
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("STORE_OP_TIMEOUT", "5s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	cfg := &Config{
		Port:            v.GetString("PORT"),
		GinMode:         v.GetString("GIN_MODE"),
		StoreDriver:     strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:        v.GetString("MONGO_URI"),
		DBName:          v.GetString("DB_NAME"),
		CredentialsFile: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		AuthProvider:    strings.ToLower(v.GetString("AUTH_PROVIDER")),
		JWTSecret:       v.GetString("JWT_SECRET_KEY"),
		JWTTTL:          v.GetDuration("JWT_TTL"),
		RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
		StoreOpTimeout:  v.GetDuration("STORE_OP_TIMEOUT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	if cfg.MongoURI == "" && v.GetString("DB_USERNAME") != "" {
		cfg.MongoURI = atlasURI(v.GetString("DB_USERNAME"), v.GetString("DB_PASS"), v.GetString("DB_HOST"))
	}
	return cfg
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI or DB_USERNAME/DB_PASS is required for the mongo driver")
		}
	case DriverFirestore:
		if c.CredentialsFile == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS is required for the firestore driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.AuthProvider {
	case AuthJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET_KEY is required for the jwt auth provider")
		}
	case AuthFirebase:
		if c.CredentialsFile == "" {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS is required for the firebase auth provider")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown GIN_MODE %q", c.GinMode)
	}

	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

func atlasURI(user, pass, host string) string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(user), url.QueryEscape(pass), host)
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
