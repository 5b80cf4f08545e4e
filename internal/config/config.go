package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                      string
	Port                     string
	SiteName                 string
	DatabaseURL              string
	RedisURL                 string
	PublicOrigin             string // origin the frontend is served from, for same-origin checks
	UserTokenSecret          string // HS256 secret for user bearer tokens
	AdminSessionSecret       string // HMAC secret for the admin session cookie
	AdminEmail               string
	AdminPassword            string
	AdminLoginKey            string // optional extra access key for admin login
	EnableAdminPasswordLogin bool
	MaintenanceMode          bool
}

// Load loads config from env and optional .env file, and fail-fasts on
// weak admin secrets in production.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}

	cfg := &Config{
		Env:                      env,
		Port:                     port,
		SiteName:                 siteName(viper.GetString("SITE_NAME")),
		DatabaseURL:              dbURL,
		RedisURL:                 viper.GetString("REDIS_URL"),
		PublicOrigin:             strings.TrimRight(viper.GetString("PUBLIC_ORIGIN"), "/"),
		UserTokenSecret:          viper.GetString("USER_TOKEN_SECRET"),
		AdminSessionSecret:       viper.GetString("ADMIN_SESSION_SECRET"),
		AdminEmail:               strings.TrimSpace(viper.GetString("ADMIN_EMAIL")),
		AdminPassword:            viper.GetString("ADMIN_PASSWORD"),
		AdminLoginKey:            viper.GetString("ADMIN_LOGIN_KEY"),
		EnableAdminPasswordLogin: strings.EqualFold(viper.GetString("ENABLE_ADMIN_PASSWORD_LOGIN"), "true"),
		MaintenanceMode:          strings.EqualFold(viper.GetString("MAINTENANCE_MODE"), "true"),
	}
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@example.com"
	}

	if cfg.AdminSessionSecret == "" {
		return nil, errors.New("ADMIN_SESSION_SECRET is required")
	}
	if cfg.EnableAdminPasswordLogin && cfg.AdminPassword == "" {
		return nil, errors.New("ADMIN_PASSWORD is required when ENABLE_ADMIN_PASSWORD_LOGIN=true")
	}
	if cfg.Env == "production" {
		if len(cfg.AdminSessionSecret) < 32 {
			return nil, errors.New("ADMIN_SESSION_SECRET must be at least 32 characters")
		}
		if cfg.EnableAdminPasswordLogin && len(cfg.AdminPassword) < 16 {
			return nil, errors.New("ADMIN_PASSWORD must be at least 16 characters in production")
		}
	}
	return cfg, nil
}

func siteName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "ChronoFlow"
	}
	return s
}
