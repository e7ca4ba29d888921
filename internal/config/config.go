package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Config is parsed from the environment once at process start. The JWT
// secrets are required: a missing secret is fatal before the server accepts
// any request.
type Config struct {
	Port               string        `env:"PORT" envDefault:"3000"`
	DatabaseDSN        string        `env:"DATABASE_DSN,required"`
	AccessSecret       string        `env:"JWT_ACCESS_SECRET,required"`
	RefreshSecret      string        `env:"JWT_REFRESH_SECRET,required"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	TokenSweepInterval time.Duration `env:"TOKEN_SWEEP_INTERVAL" envDefault:"1h"`
	ClientURL          string        `env:"CLIENT_URL"`
	AllowedOrigins     []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	Development        bool          `env:"DEVELOPMENT" envDefault:"false"`
}

// CORSAllowedOrigins returns the origins browsers may call the API from: the
// configured ALLOWED_ORIGINS list, falling back to the development defaults
// when none are set, plus CLIENT_URL when present.
func (c Config) CORSAllowedOrigins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins)+1)
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = append(origins, defaultAllowedOrigins...)
	}
	if c.ClientURL != "" {
		origins = append(origins, c.ClientURL)
	}
	return origins
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
