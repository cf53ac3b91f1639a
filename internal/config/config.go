package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string   `mapstructure:"PORT"`
	Env          string   `mapstructure:"ENV"`
	DatabaseURL  string   `mapstructure:"DATABASE_URL"`
	DBMaxConns   int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns   int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer   string   `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL  string   `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience string   `mapstructure:"AUTH_AUDIENCE"`
	CORSOrigins  []string `mapstructure:"CORS_ORIGINS"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// Compliance scoring policy. The threshold and per-severity penalties
	// are product policy, not law: they are configuration so audits can
	// replay historical scoring parameters without a rebuild.
	ComplianceThreshold int `mapstructure:"COMPLIANCE_SCORE_THRESHOLD"`
	PenaltyCritical     int `mapstructure:"COMPLIANCE_PENALTY_CRITICAL"`
	PenaltyWarning      int `mapstructure:"COMPLIANCE_PENALTY_WARNING"`
	PenaltyInfo         int `mapstructure:"COMPLIANCE_PENALTY_INFO"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("COMPLIANCE_SCORE_THRESHOLD", 80)
	v.SetDefault("COMPLIANCE_PENALTY_CRITICAL", 25)
	v.SetDefault("COMPLIANCE_PENALTY_WARNING", 10)
	v.SetDefault("COMPLIANCE_PENALTY_INFO", 3)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("COMPLIANCE_SCORE_THRESHOLD")
	v.BindEnv("COMPLIANCE_PENALTY_CRITICAL")
	v.BindEnv("COMPLIANCE_PENALTY_WARNING")
	v.BindEnv("COMPLIANCE_PENALTY_INFO")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active, all requests get admin access.")
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER for production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// AUTH_ISSUER must be set so that real JWT authentication is enforced, and
// the compliance scoring policy must be coherent.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" {
		return fmt.Errorf(
			"AUTH_ISSUER must be set when ENV is %q; refusing to start without authentication configuration", c.Env)
	}

	if c.ComplianceThreshold < 0 || c.ComplianceThreshold > 100 {
		return fmt.Errorf("COMPLIANCE_SCORE_THRESHOLD must be in [0,100], got %d", c.ComplianceThreshold)
	}
	for name, p := range map[string]int{
		"COMPLIANCE_PENALTY_CRITICAL": c.PenaltyCritical,
		"COMPLIANCE_PENALTY_WARNING":  c.PenaltyWarning,
		"COMPLIANCE_PENALTY_INFO":     c.PenaltyInfo,
	} {
		if p < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, p)
		}
	}
	if c.PenaltyCritical < c.PenaltyWarning || c.PenaltyWarning < c.PenaltyInfo {
		return fmt.Errorf("compliance penalties must be ordered critical >= warning >= info (got %d/%d/%d)",
			c.PenaltyCritical, c.PenaltyWarning, c.PenaltyInfo)
	}

	return nil
}
