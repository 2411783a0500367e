package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_DIR", "JWT_SECRET", "DATABASE_URL", "SMTP_PORT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, "587", cfg.SMTPPort)
	require.Equal(t, "http://localhost:8080", cfg.AppBaseURL)

	//JWT_SECRETが無くてもLoadは通る。必須チェックはAPIサーバー側。
	require.Empty(t, cfg.JWTSecret)
	require.Empty(t, cfg.DatabaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATA_DIR", "/var/lib/shop")

	cfg := Load()
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.Equal(t, "/var/lib/shop", cfg.DataDir)
}
