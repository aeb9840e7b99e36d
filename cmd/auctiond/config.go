// config.go - Configuration management for the auction engine daemon
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	// Input streams (JSON files: one array of records per event stream, a
	// single object for the parameters)
	BidSubmissionsPath   string `json:"bid_submissions_path"`
	OfferSubmissionsPath string `json:"offer_submissions_path"`
	BidRevealsPath       string `json:"bid_reveals_path"`
	OfferRevealsPath     string `json:"offer_reveals_path"`
	ParamsPath           string `json:"params_path"`

	// Hash primitive selection: "keccak256" or "mimc"
	HashPrimitive string `json:"hash_primitive"`

	// Optional servicing fee, in bps, skimmed from assigned bidders into the
	// prover allocation. Zero preserves spec-exact behavior.
	ServicingFeeBps uint64 `json:"servicing_fee_bps"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Ops HTTP surface
	HealthPort     int `json:"health_port"`
	TimeoutSeconds int `json:"timeout_seconds"`

	// Security
	EnableAudit  bool   `json:"enable_audit"`
	AuditLogPath string `json:"audit_log_path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BidSubmissionsPath:   "bid_submissions.json",
		OfferSubmissionsPath: "offer_submissions.json",
		BidRevealsPath:       "bid_reveals.json",
		OfferRevealsPath:     "offer_reveals.json",
		ParamsPath:           "params.json",
		HashPrimitive:        "keccak256",
		ServicingFeeBps:      0,
		LogLevel:             "info",
		LogFile:              "auction.log",
		HealthPort:           8080,
		TimeoutSeconds:       30,
		EnableAudit:          true,
		AuditLogPath:         "audit.log",
	}
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	// Try to load from file
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		var config Config
		if err := json.NewDecoder(file).Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}

		return &config, nil
	}

	// Create default config and save it
	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.HashPrimitive != "keccak256" && c.HashPrimitive != "mimc" {
		return fmt.Errorf("hash_primitive must be keccak256 or mimc, got %q", c.HashPrimitive)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	if c.HealthPort < 0 {
		return fmt.Errorf("health_port must not be negative")
	}
	return nil
}
