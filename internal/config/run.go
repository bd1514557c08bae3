package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relscope/relscope/internal/domain"
)

const dateLayout = "2006-01-02"

// RunConfig describes one report run: the target company, the peers to
// compare against, and the date range to collect.
type RunConfig struct {
	TargetCompany domain.Company   `yaml:"target_company"`
	PeerCompanies []domain.Company `yaml:"peer_companies"`
	Timeframe     TimeframeConfig  `yaml:"timeframe"`
}

// TimeframeConfig holds the raw date strings from the YAML file
type TimeframeConfig struct {
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

// LoadRun reads and validates a run config file. Unknown fields are
// rejected so typos surface instead of silently dropping peers.
func LoadRun(path string) (*RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}

	var cfg RunConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the run config for the mistakes we can catch early
func (c *RunConfig) Validate() error {
	if c.TargetCompany.Name == "" {
		return fmt.Errorf("target_company.name is required")
	}
	if c.TargetCompany.StatusURL == "" {
		return fmt.Errorf("target_company.status_url is required")
	}
	for i, peer := range c.PeerCompanies {
		if peer.Name == "" {
			return fmt.Errorf("peer_companies[%d].name is required", i)
		}
		if peer.StatusURL == "" {
			return fmt.Errorf("peer_companies[%d] (%s): status_url is required", i, peer.Name)
		}
	}

	if _, err := c.ParseTimeframe(); err != nil {
		return err
	}
	return nil
}

// ParseTimeframe converts the date strings into a domain.Timeframe
func (c *RunConfig) ParseTimeframe() (domain.Timeframe, error) {
	if c.Timeframe.StartDate == "" || c.Timeframe.EndDate == "" {
		return domain.Timeframe{}, fmt.Errorf("timeframe.start_date and timeframe.end_date are required")
	}

	start, err := time.Parse(dateLayout, c.Timeframe.StartDate)
	if err != nil {
		return domain.Timeframe{}, fmt.Errorf("timeframe.start_date: %w", err)
	}
	end, err := time.Parse(dateLayout, c.Timeframe.EndDate)
	if err != nil {
		return domain.Timeframe{}, fmt.Errorf("timeframe.end_date: %w", err)
	}
	if end.Before(start) {
		return domain.Timeframe{}, fmt.Errorf("timeframe.end_date %s is before start_date %s",
			c.Timeframe.EndDate, c.Timeframe.StartDate)
	}

	return domain.Timeframe{Start: start, End: end}, nil
}

// Companies returns the target followed by all peers
func (c *RunConfig) Companies() []domain.Company {
	out := make([]domain.Company, 0, 1+len(c.PeerCompanies))
	out = append(out, c.TargetCompany)
	out = append(out, c.PeerCompanies...)
	return out
}
