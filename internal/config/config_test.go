package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gcs", cfg.Storage.Backend)
	assert.Equal(t, "unsc-kdn-json-bucket", cfg.Storage.Bucket)
	assert.Equal(t, "sanction-list-runs", cfg.Firestore.Collection)
	assert.Equal(t, "us-central1", cfg.Workflow.Location)
	assert.Equal(t, 60*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "unsc/UNSCR_SANCTION_LIST.json", cfg.UNSC.OutputKey)
	assert.Equal(t, "unsc/unsc_last_xml_content_hash.txt", cfg.UNSC.StateKey)
	assert.Equal(t, "kdn/KDN_INDIVIDUAL_SANCTION_LIST.json", cfg.KDN.IndividualsKey)
	assert.Equal(t, "kdn/KDN_GROUP_SANCTION_LIST.json", cfg.KDN.GroupsKey)
	assert.Equal(t, 11, cfg.KDN.GroupsFirstPage)
	assert.Equal(t, 13, cfg.KDN.GroupsLastPage)
	assert.True(t, cfg.KDN.InsecureTLS)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SANCTIONS_STORAGE_BACKEND", "local")
	t.Setenv("SANCTIONS_STORAGE_BASE_DIR", "/tmp/snapshots")
	t.Setenv("SANCTIONS_HTTP_TIMEOUT_SECONDS", "15")
	t.Setenv("SANCTIONS_KDN_GROUPS_FIRST_PAGE", "9")
	t.Setenv("SANCTIONS_KDN_GROUPS_LAST_PAGE", "12")
	t.Setenv("SANCTIONS_KDN_INSECURE_TLS", "false")
	t.Setenv("SANCTIONS_WORKFLOW_ID", "sanction-update-flow")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/snapshots", cfg.Storage.BaseDir)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 9, cfg.KDN.GroupsFirstPage)
	assert.Equal(t, 12, cfg.KDN.GroupsLastPage)
	assert.False(t, cfg.KDN.InsecureTLS)
	assert.Equal(t, "sanction-update-flow", cfg.Workflow.ID)
}

func TestLoadRejectsBadPageRange(t *testing.T) {
	t.Setenv("SANCTIONS_KDN_GROUPS_FIRST_PAGE", "10")
	t.Setenv("SANCTIONS_KDN_GROUPS_LAST_PAGE", "4")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groups_last_page")

	t.Setenv("SANCTIONS_KDN_GROUPS_FIRST_PAGE", "-1")
	t.Setenv("SANCTIONS_KDN_GROUPS_LAST_PAGE", "13")

	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groups_first_page")
}
