package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// Validate checks that the configuration is valid. All problems are
// reported together as criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateLimits(),
		criterio.Run("server.addr", c.Server.Addr, hostPort),
		c.validateOrigins(),
		criterio.Run("log.level", c.Log.Level, logLevel),
		criterio.Run("review.timezone", c.Review.Timezone, timezone),
	)
}

// validateLimits checks the numeric settings.
func (c *Config) validateLimits() error {
	var errs criterio.FieldErrorsBuilder
	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Review.NewLimit < 1 {
		errs = errs.Append("review.new_limit", fmt.Errorf("must be at least 1"))
	}
	durations := []struct {
		field string
		d     time.Duration
	}{
		{"database.busy_timeout", c.Database.BusyTimeout},
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.idle_timeout", c.Server.IdleTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
	}
	for _, v := range durations {
		if v.d <= 0 {
			errs = errs.Append(v.field, fmt.Errorf("must be positive"))
		}
	}
	return errs.ToError()
}

func (c *Config) validateOrigins() error {
	var errs criterio.FieldErrorsBuilder
	for i, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = errs.Append(fmt.Sprintf("server.cors_origins[%d]", i), fmt.Errorf("%q must be * or an http(s) origin", origin))
		}
	}
	return errs.ToError()
}

func hostPort(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return nil
}

func logLevel(level string) error {
	if _, err := zerolog.ParseLevel(level); err != nil {
		return fmt.Errorf("unknown level %q", level)
	}
	return nil
}

func timezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown time zone %q", name)
	}
	return nil
}
