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
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, OrphanPolicyPreserve, cfg.Schedule.OrphanPolicy)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 92, cfg.CheckIns.ReportMaxDays)
}

func TestLoadOrphanPolicyFromEnv(t *testing.T) {
	t.Setenv("ORPHAN_CHECKINS_POLICY", "CASCADE")
	t.Setenv("AGENDA_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, OrphanPolicyCascade, cfg.Schedule.OrphanPolicy)
	assert.Equal(t, 30*time.Second, cfg.Cache.AgendaTTL)
}

func TestLoadRejectsUnknownOrphanPolicy(t *testing.T) {
	t.Setenv("ORPHAN_CHECKINS_POLICY", "archive")

	_, err := Load()
	require.Error(t, err)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Invalid"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "America/Sao_Paulo"
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
	assert.Nil(t, splitAndTrim(""))
}
