package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Timeline.validate(); err != nil {
		return fmt.Errorf("timeline: %w", err)
	}

	return c.ValidateClient()
}

// ValidateClient validates only the sections a client binary uses.
func (c *Config) ValidateClient() error {
	if err := c.Cache.validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Sync.validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

func (t *TimelineConfig) validate() error {
	if t.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be > 0 (got %d)", t.DefaultPageSize)
	}
	if t.MaxPageSize < t.DefaultPageSize {
		return fmt.Errorf("max_page_size (%d) must be >= default_page_size (%d)", t.MaxPageSize, t.DefaultPageSize)
	}
	if t.OverfetchFloor <= 0 {
		return fmt.Errorf("overfetch_floor must be > 0 (got %d)", t.OverfetchFloor)
	}
	if t.OverfetchFactor < 1 {
		return fmt.Errorf("overfetch_factor must be >= 1 (got %d)", t.OverfetchFactor)
	}
	if t.MaxWindow < t.Window(t.MaxPageSize) {
		return fmt.Errorf("max_window (%d) must be >= the window for max_page_size (%d)", t.MaxWindow, t.Window(t.MaxPageSize))
	}
	if t.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be > 0 (got %s)", t.FetchTimeout)
	}
	if t.BirthWindow <= 0 {
		return fmt.Errorf("birth_window must be > 0 (got %s)", t.BirthWindow)
	}
	return nil
}

func (c *CacheConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Dir) == "" {
		return fmt.Errorf("dir is required when the cache is enabled")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("ttl must be > 0 (got %s)", c.TTL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be > 0 (got %d)", c.PageSize)
	}
	if c.SnapshotLimit < c.PageSize {
		return fmt.Errorf("snapshot_limit (%d) must be >= page_size (%d)", c.SnapshotLimit, c.PageSize)
	}
	return nil
}

func (s *SyncConfig) validate() error {
	if strings.TrimSpace(s.APIURL) == "" {
		return fmt.Errorf("api_url is required")
	}
	if s.ProbeInterval <= 0 {
		return fmt.Errorf("probe_interval must be > 0 (got %s)", s.ProbeInterval)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %s)", s.RequestTimeout)
	}
	if s.PageSize <= 0 {
		return fmt.Errorf("page_size must be > 0 (got %d)", s.PageSize)
	}
	return nil
}
