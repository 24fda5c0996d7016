// Package config loads futsal-watch settings from an optional YAML file and the
// environment.
//
// Every field has a default matching the live LaBOLA site, so running without a
// config file works. Secrets are never read from the file: the LINE credentials come
// from LINE_CHANNEL_ACCESS_TOKEN and LINE_USER_ID, which an optional .env file may
// seed.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/futsal-watch/internal/filter"
	"github.com/pfrederiksen/futsal-watch/internal/line"
	"github.com/pfrederiksen/futsal-watch/internal/scraper"
	"github.com/pfrederiksen/futsal-watch/internal/storage"
)

type Site struct {
	BaseURL           string        `yaml:"base_url"`
	SearchURLTemplate string        `yaml:"search_url_template"`
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
}

type Selectors struct {
	Card   string `yaml:"card"`
	Title  string `yaml:"title"`
	Status string `yaml:"status"`
	Text   string `yaml:"text"`
}

type Rules struct {
	AcceptingStatus  string   `yaml:"accepting_status"`
	RequiredKeywords []string `yaml:"required_keywords"`
	ExcludedKeywords []string `yaml:"excluded_keywords"`
}

type Notify struct {
	BaseURL          string        `yaml:"base_url"`
	Timeout          time.Duration `yaml:"timeout"`
	FallbackFacility string        `yaml:"fallback_facility"`
}

type Ledger struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type Config struct {
	Site           Site      `yaml:"site"`
	Selectors      Selectors `yaml:"selectors"`
	Rules          Rules     `yaml:"rules"`
	OrganizerLabel string    `yaml:"organizer_label"`
	Notify         Notify    `yaml:"notify"`
	DatesFile      string    `yaml:"dates_file"`
	Ledger         Ledger    `yaml:"ledger"`
}

// Credentials for the LINE Messaging API
type Credentials struct {
	ChannelAccessToken string
	UserID             string
}

const (
	DefaultDatesFile  = "data/dates.txt"
	DefaultLedgerPath = "data/sent_urls.txt"
)

// Default returns the configuration used when no file is given
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the YAML file at path and fills unset fields with defaults.
// An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	site := scraper.DefaultConfig()
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = site.BaseURL
	}
	if c.Site.SearchURLTemplate == "" {
		c.Site.SearchURLTemplate = site.SearchURLTemplate
	}
	if c.Site.UserAgent == "" {
		c.Site.UserAgent = site.UserAgent
	}
	if c.Site.Timeout == 0 {
		c.Site.Timeout = site.Timeout
	}

	sel := site.Selectors
	if c.Selectors.Card == "" {
		c.Selectors.Card = sel.Card
	}
	if c.Selectors.Title == "" {
		c.Selectors.Title = sel.Title
	}
	if c.Selectors.Status == "" {
		c.Selectors.Status = sel.Status
	}
	if c.Selectors.Text == "" {
		c.Selectors.Text = sel.Text
	}

	// Keyword lists are only defaulted when absent; an explicit empty list disables them
	if c.Rules.AcceptingStatus == "" {
		c.Rules.AcceptingStatus = filter.DefaultAcceptingStatus
	}
	if c.Rules.RequiredKeywords == nil {
		c.Rules.RequiredKeywords = []string{filter.DefaultRequiredKeyword}
	}
	if c.Rules.ExcludedKeywords == nil {
		c.Rules.ExcludedKeywords = []string{filter.DefaultExcludedKeyword}
	}
	if c.OrganizerLabel == "" {
		c.OrganizerLabel = site.OrganizerLabel
	}

	if c.Notify.BaseURL == "" {
		c.Notify.BaseURL = line.DefaultBaseURL
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = 30 * time.Second
	}
	if c.Notify.FallbackFacility == "" {
		c.Notify.FallbackFacility = line.DefaultFallbackFacility
	}

	if c.DatesFile == "" {
		c.DatesFile = DefaultDatesFile
	}
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = string(storage.BackendFile)
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = DefaultLedgerPath
	}
}

// Validate checks the settings that cannot be defaulted away
func (c *Config) Validate() error {
	if c.Site.Timeout < 0 || c.Notify.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	switch storage.Backend(strings.ToLower(c.Ledger.Backend)) {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("unknown ledger backend: %s (must be 'file' or 'sqlite')", c.Ledger.Backend)
	}
	return c.FilterRules().Validate()
}

// FilterRules builds the acceptance rules
func (c *Config) FilterRules() filter.Rules {
	return filter.NewRules(c.Rules.AcceptingStatus, c.Rules.RequiredKeywords, c.Rules.ExcludedKeywords)
}

// ScraperConfig builds the scraper configuration
func (c *Config) ScraperConfig() scraper.Config {
	return scraper.Config{
		BaseURL:           c.Site.BaseURL,
		SearchURLTemplate: c.Site.SearchURLTemplate,
		UserAgent:         c.Site.UserAgent,
		Timeout:           c.Site.Timeout,
		Selectors: scraper.Selectors{
			Card:   c.Selectors.Card,
			Title:  c.Selectors.Title,
			Status: c.Selectors.Status,
			Text:   c.Selectors.Text,
		},
		OrganizerLabel: c.OrganizerLabel,
		Rules:          c.FilterRules(),
	}
}

// LoadEnvFile seeds the environment from a dotenv file. Variables already set are
// kept. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// CredentialsFromEnv reads the LINE credentials from the environment
func CredentialsFromEnv() Credentials {
	return Credentials{
		ChannelAccessToken: strings.TrimSpace(os.Getenv(line.EnvChannelAccessToken)),
		UserID:             strings.TrimSpace(os.Getenv(line.EnvUserID)),
	}
}
