package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBConfigDSN(t *testing.T) {
	cfg := &DBConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "engine",
		Password: "secret",
		Name:     "admissions",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal user=engine password=secret dbname=admissions port=5433 sslmode=require",
		cfg.DSN())
}

func TestEnvOr(t *testing.T) {
	t.Setenv("DB_TEST_KEY", "set")
	assert.Equal(t, "set", envOr("DB_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", envOr("DB_TEST_KEY_MISSING", "fallback"))
}
