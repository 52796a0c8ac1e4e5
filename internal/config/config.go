// Package config loads runtime settings from SANCTIONS_* environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Storage   StorageConfig
	Firestore FirestoreConfig
	Workflow  WorkflowConfig
	HTTP      HTTPConfig
	UNSC      UNSCConfig
	KDN       KDNConfig
}

// StorageConfig names the blob backend snapshots and fingerprints live in.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	BaseDir string `mapstructure:"base_dir"`
}

// FirestoreConfig holds run-log settings. An empty project ID disables the
// run log entirely.
type FirestoreConfig struct {
	ProjectID  string `mapstructure:"project_id"`
	Collection string `mapstructure:"collection"`
}

// WorkflowConfig names the downstream workflow triggered after a change is
// published. An empty ID disables triggering.
type WorkflowConfig struct {
	ProjectID string `mapstructure:"project_id"`
	Location  string `mapstructure:"location"`
	ID        string `mapstructure:"id"`
}

// HTTPConfig holds outbound fetch settings.
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout_seconds"`
	UserAgent string        `mapstructure:"user_agent"`
}

// UNSCConfig holds the Security Council source settings.
type UNSCConfig struct {
	ListURL   string `mapstructure:"list_url"`
	OutputKey string `mapstructure:"output_key"`
	StateKey  string `mapstructure:"state_key"`
}

// KDNConfig holds the Home Ministry source settings. The group section's
// page range is supplied here because the document carries no reliable
// machine-readable end marker for it.
type KDNConfig struct {
	ListURL         string `mapstructure:"list_url"`
	BaseURL         string `mapstructure:"base_url"`
	IndividualsKey  string `mapstructure:"individuals_key"`
	GroupsKey       string `mapstructure:"groups_key"`
	StateKey        string `mapstructure:"state_key"`
	GroupsFirstPage int    `mapstructure:"groups_first_page"`
	GroupsLastPage  int    `mapstructure:"groups_last_page"`
	InsecureTLS     bool   `mapstructure:"insecure_tls"`
}

// Load reads configuration from environment variables with the SANCTIONS_
// prefix, applying defaults for anything not overridden.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SANCTIONS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Storage defaults
	v.SetDefault("storage.backend", "gcs")
	v.SetDefault("storage.bucket", "unsc-kdn-json-bucket")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("storage.base_dir", "./data")

	// Firestore defaults
	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.collection", "sanction-list-runs")

	// Workflow defaults
	v.SetDefault("workflow.project_id", "")
	v.SetDefault("workflow.location", "us-central1")
	v.SetDefault("workflow.id", "")

	// HTTP defaults
	v.SetDefault("http.timeout_seconds", 60)
	v.SetDefault("http.user_agent", "sanctionlistflow/1.0")

	// UNSC source defaults
	v.SetDefault("unsc.list_url", "https://main.un.org/securitycouncil/en/content/un-sc-consolidated-list")
	v.SetDefault("unsc.output_key", "unsc/UNSCR_SANCTION_LIST.json")
	v.SetDefault("unsc.state_key", "unsc/unsc_last_xml_content_hash.txt")

	// KDN source defaults
	v.SetDefault("kdn.list_url", "https://www.moha.gov.my/index.php/en/maklumat-perkhidmatan/membanteras-pembiayaan-keganasan2/senarai-kementerian-dalam-negeri")
	v.SetDefault("kdn.base_url", "https://www.moha.gov.my")
	v.SetDefault("kdn.individuals_key", "kdn/KDN_INDIVIDUAL_SANCTION_LIST.json")
	v.SetDefault("kdn.groups_key", "kdn/KDN_GROUP_SANCTION_LIST.json")
	v.SetDefault("kdn.state_key", "kdn/kdn_last_pdf_content_hash.txt")
	v.SetDefault("kdn.groups_first_page", 11)
	v.SetDefault("kdn.groups_last_page", 13)
	v.SetDefault("kdn.insecure_tls", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"storage.backend":       "SANCTIONS_STORAGE_BACKEND",
		"storage.bucket":        "SANCTIONS_STORAGE_BUCKET",
		"storage.prefix":        "SANCTIONS_STORAGE_PREFIX",
		"storage.base_dir":      "SANCTIONS_STORAGE_BASE_DIR",
		"firestore.project_id":  "SANCTIONS_FIRESTORE_PROJECT_ID",
		"firestore.collection":  "SANCTIONS_FIRESTORE_COLLECTION",
		"workflow.project_id":   "SANCTIONS_WORKFLOW_PROJECT_ID",
		"workflow.location":     "SANCTIONS_WORKFLOW_LOCATION",
		"workflow.id":           "SANCTIONS_WORKFLOW_ID",
		"http.timeout_seconds":  "SANCTIONS_HTTP_TIMEOUT_SECONDS",
		"http.user_agent":       "SANCTIONS_HTTP_USER_AGENT",
		"unsc.list_url":         "SANCTIONS_UNSC_LIST_URL",
		"unsc.output_key":       "SANCTIONS_UNSC_OUTPUT_KEY",
		"unsc.state_key":        "SANCTIONS_UNSC_STATE_KEY",
		"kdn.list_url":          "SANCTIONS_KDN_LIST_URL",
		"kdn.base_url":          "SANCTIONS_KDN_BASE_URL",
		"kdn.individuals_key":   "SANCTIONS_KDN_INDIVIDUALS_KEY",
		"kdn.groups_key":        "SANCTIONS_KDN_GROUPS_KEY",
		"kdn.state_key":         "SANCTIONS_KDN_STATE_KEY",
		"kdn.groups_first_page": "SANCTIONS_KDN_GROUPS_FIRST_PAGE",
		"kdn.groups_last_page":  "SANCTIONS_KDN_GROUPS_LAST_PAGE",
		"kdn.insecure_tls":      "SANCTIONS_KDN_INSECURE_TLS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.Storage = StorageConfig{
		Backend: v.GetString("storage.backend"),
		Bucket:  v.GetString("storage.bucket"),
		Prefix:  v.GetString("storage.prefix"),
		BaseDir: v.GetString("storage.base_dir"),
	}
	cfg.Firestore = FirestoreConfig{
		ProjectID:  v.GetString("firestore.project_id"),
		Collection: v.GetString("firestore.collection"),
	}
	cfg.Workflow = WorkflowConfig{
		ProjectID: v.GetString("workflow.project_id"),
		Location:  v.GetString("workflow.location"),
		ID:        v.GetString("workflow.id"),
	}
	cfg.HTTP = HTTPConfig{
		Timeout:   time.Duration(v.GetInt("http.timeout_seconds")) * time.Second,
		UserAgent: v.GetString("http.user_agent"),
	}
	cfg.UNSC = UNSCConfig{
		ListURL:   v.GetString("unsc.list_url"),
		OutputKey: v.GetString("unsc.output_key"),
		StateKey:  v.GetString("unsc.state_key"),
	}
	cfg.KDN = KDNConfig{
		ListURL:         v.GetString("kdn.list_url"),
		BaseURL:         v.GetString("kdn.base_url"),
		IndividualsKey:  v.GetString("kdn.individuals_key"),
		GroupsKey:       v.GetString("kdn.groups_key"),
		StateKey:        v.GetString("kdn.state_key"),
		GroupsFirstPage: v.GetInt("kdn.groups_first_page"),
		GroupsLastPage:  v.GetInt("kdn.groups_last_page"),
		InsecureTLS:     v.GetBool("kdn.insecure_tls"),
	}

	if cfg.KDN.GroupsFirstPage < 0 {
		return nil, fmt.Errorf("kdn.groups_first_page must not be negative, got %d", cfg.KDN.GroupsFirstPage)
	}
	if cfg.KDN.GroupsLastPage < cfg.KDN.GroupsFirstPage {
		return nil, fmt.Errorf("kdn.groups_last_page %d precedes kdn.groups_first_page %d",
			cfg.KDN.GroupsLastPage, cfg.KDN.GroupsFirstPage)
	}

	return cfg, nil
}
