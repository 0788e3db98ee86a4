package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/DjordjeVuckovic/storefront/pkg/config/env"
)

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	// RateLimitRPS is the per client request rate, zero disables limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadConfig reads the HTTP settings. .env files are loaded by the caller.
func LoadConfig() (*Config, error) {
	useHttp2, err := env.Bool("USE_HTTP2", false)
	if err != nil {
		return nil, err
	}

	port := env.String("PORT", "8080")
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := env.List("CORS_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	rps, err := env.Float("RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, err
	}
	burst, err := env.Int("RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           port,
		UseHttp2:       useHttp2,
		CorsOrigins:    origins,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
