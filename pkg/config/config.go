// Package config provides configuration loading and management for the
// request intake and review forms. Every boolean or list-valued setting
// independently gates one UI section; nothing here couples two flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Choice is one selectable option in a select or radio control.
type Choice struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// ResponseGroup is a labelled group of canned reviewer responses.
type ResponseGroup struct {
	Label     string   `yaml:"label"`
	Responses []string `yaml:"responses"`
}

// Config represents the complete form-engine configuration.
type Config struct {
	Wiki       WikiConfig       `yaml:"wiki"`
	Intake     IntakeConfig     `yaml:"intake"`
	Review     ReviewConfig     `yaml:"review"`
	Validation ValidationConfig `yaml:"validation"`
}

// WikiConfig describes the wiki farm the forms create wikis on.
type WikiConfig struct {
	// Domain is the base domain requested subdomains hang off, e.g.
	// "example.wiki".
	Domain string `yaml:"domain"`
	// DatabaseSuffix is appended to a subdomain to form its database
	// name.
	DatabaseSuffix string `yaml:"databaseSuffix"`
}

// IntakeConfig gates the fields of the new-request form.
type IntakeConfig struct {
	// Categories offered for a new wiki; an empty list hides the field.
	Categories []Choice `yaml:"categories"`
	// Purposes offered for a new wiki; an empty list hides the field.
	Purposes []string `yaml:"purposes"`
	// PrivateWikis enables the private-wiki checkbox.
	PrivateWikis bool `yaml:"privateWikis"`
	// DisablePrivateRequests hides the checkbox even when private wikis
	// are supported.
	DisablePrivateRequests bool `yaml:"disablePrivateRequests"`
	// BiographicalOption enables the content-about-living-people
	// checkbox.
	BiographicalOption bool `yaml:"biographicalOption"`
	// MigrationInquire enables the migration checkbox and its dependent
	// location/type/details fields.
	MigrationInquire bool `yaml:"migrationInquire"`
	// PublicDescriptions enables the discovery description textarea. It
	// only takes effect when the companion discovery feature is present.
	PublicDescriptions bool `yaml:"publicDescriptions"`
	// DiscoveryEnabled reports whether the companion discovery feature is
	// installed and using descriptions.
	DiscoveryEnabled bool `yaml:"discoveryEnabled"`
	// DescriptionMaxLength bounds the public description; zero means
	// unbounded.
	DescriptionMaxLength int `yaml:"descriptionMaxLength"`
	// ConfirmAgreement requires the terms checkbox before submitting.
	ConfirmAgreement bool `yaml:"confirmAgreement"`
	// ReasonMinLength / ReasonMaxLength bound the request reason; zero
	// means unbounded.
	ReasonMinLength int `yaml:"reasonMinLength"`
	ReasonMaxLength int `yaml:"reasonMaxLength"`
}

// ReviewConfig gates the reviewer side of the queue form.
type ReviewConfig struct {
	// CannedResponses replaces the free-text reason with a
	// choose-or-other control when non-empty.
	CannedResponses []ResponseGroup `yaml:"cannedResponses"`
}

// ValidationConfig holds the shared input constraints.
type ValidationConfig struct {
	// Denylist patterns reject free text when matched
	// case-insensitively.
	Denylist []string `yaml:"denylist"`
	// ReservedSubdomains can never be requested.
	ReservedSubdomains []string `yaml:"reservedSubdomains"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Wiki: WikiConfig{
			Domain:         "example.wiki",
			DatabaseSuffix: "wiki",
		},
		Intake: IntakeConfig{
			PrivateWikis:       true,
			BiographicalOption: false,
			ReasonMinLength:    10,
		},
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Wiki.Domain == "" {
		return fmt.Errorf("wiki.domain is required")
	}
	if c.Intake.ReasonMinLength < 0 || c.Intake.ReasonMaxLength < 0 {
		return fmt.Errorf("intake reason length bounds must be non-negative")
	}
	if max := c.Intake.ReasonMaxLength; max > 0 && c.Intake.ReasonMinLength > max {
		return fmt.Errorf("intake.reasonMinLength exceeds intake.reasonMaxLength")
	}
	for _, group := range c.Review.CannedResponses {
		if len(group.Responses) == 0 {
			return fmt.Errorf("review.cannedResponses group %q has no responses", group.Label)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, layered over the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// PrivateRequestsEnabled reports whether the private checkbox should be
// offered on the intake form.
func (c *Config) PrivateRequestsEnabled() bool {
	return c.Intake.PrivateWikis && !c.Intake.DisablePrivateRequests
}

// PublicDescriptionsEnabled reports whether the discovery description
// field should be offered. Both the local switch and the companion
// feature must be on.
func (c *Config) PublicDescriptionsEnabled() bool {
	return c.Intake.PublicDescriptions && c.Intake.DiscoveryEnabled
}

// FlattenedResponses returns the canned responses in group order. The
// first entry is the default reason on the review form.
func (c *Config) FlattenedResponses() []string {
	var flat []string
	for _, group := range c.Review.CannedResponses {
		flat = append(flat, group.Responses...)
	}
	return flat
}
