package config

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Dictionary.validate(); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.RateLimit.validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	return nil
}

func (s *ServerConfig) validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.MaxUploadBytes, validation.Min(int64(1024))),
	)
}

func (s *StoreConfig) validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Driver, validation.Required,
			validation.In(DriverMemory, DriverPostgres, DriverSQLite, DriverSurreal)),
		validation.Field(&s.CredentialsFile, validation.Required),
		validation.Field(&s.SearchDepth, validation.Min(0), validation.Max(32)),
	)
}

func (a *AuthConfig) validate() error {
	// Tokens are optional: without a secret every request is a guest.
	if a.JWTSecret == "" {
		return nil
	}
	return validation.ValidateStruct(a,
		validation.Field(&a.JWTSecret, validation.Length(32, 0).Error("must be at least 32 characters")),
		validation.Field(&a.JWTIssuer, validation.Required),
		validation.Field(&a.AccessTokenTTL, validation.Required),
	)
}

func (d *DictionaryConfig) validate() error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.DefaultPageSize, validation.Required, validation.Min(1)),
		validation.Field(&d.MaxPageSize, validation.Required, validation.Min(d.DefaultPageSize)),
		validation.Field(&d.BatchChunkSize, validation.Required, validation.Min(1), validation.Max(500)),
		validation.Field(&d.SearchMinLength, validation.Min(0)),
		validation.Field(&d.SuggestLimit, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return err
	}

	d.Collections = ParseList(d.CollectionsRaw)
	return nil
}

func (l *LogConfig) validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Format, validation.In("json", "text", "JSON", "TEXT")),
	)
}

func (r *RateLimitConfig) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RequestsPerMinute, validation.Min(0)),
		validation.Field(&r.Burst, validation.Min(0)),
	)
}

// ParseList splits a comma-separated string into trimmed, non-empty items.
// An empty string returns a nil slice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	return items
}
