// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "nf-automate/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProcessConfig holds settings for the processing stage.
type ProcessConfig struct {
	// InboxDir is the directory scanned for incoming NF-e PDFs.
	InboxDir string `json:"inbox_dir" yaml:"inbox_dir"`

	// ProcessedDir receives PDFs (and their YAML sidecars) after
	// successful processing.
	ProcessedDir string `json:"processed_dir" yaml:"processed_dir"`

	// Force reprocesses PDFs whose rows are already in the store.
	Force bool `json:"force" yaml:"force"`

	// KeepInInbox disables the move to ProcessedDir after success.
	KeepInInbox bool `json:"keep_in_inbox" yaml:"keep_in_inbox"`
}

// RegistryConfig holds settings for CNPJ registry lookups.
type RegistryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the registry API endpoint
	// (default "https://brasilapi.com.br/api/cnpj/v1/").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// LookupDelay is the pause before each uncached API call (default 300ms).
	LookupDelay time.Duration `json:"lookup_delay" yaml:"lookup_delay"`

	// CacheTTL is how long a cached registry answer stays valid
	// (default 30 days). Zero means cache forever.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// Token is an optional API token sent as a bearer credential.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Disabled turns company-name enrichment off entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// StoreConfig holds settings for the row store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ExportFormat selects the spreadsheet output format.
type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
)

// ExportConfig holds settings for spreadsheet generation.
type ExportConfig struct {
	// OutputDir is the directory for generated spreadsheets (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects the output format: xlsx or csv.
	Format ExportFormat `json:"format" yaml:"format"`

	// Filename overrides the timestamped default output name.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
}

// WatchConfig holds settings for scheduled runs.
type WatchConfig struct {
	// Schedule is a cron expression (robfig/cron syntax, default "@every 5m").
	Schedule string `json:"schedule" yaml:"schedule"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Process  ProcessConfig  `json:"process" yaml:"process"`
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Export   ExportConfig   `json:"export" yaml:"export"`
	Watch    WatchConfig    `json:"watch" yaml:"watch"`
}
