package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigOverridesDefaults(t *testing.T) {
	content := `
addr: 0.0.0.0:9999
jwtSecret: test-secret
triton:
  addr: triton:8001
  modelName: faces
capture:
  intervalMs: 250
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	conf, err := InitConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", conf.Addr)
	assert.Equal(t, "test-secret", conf.JwtSecret)
	assert.Equal(t, "triton:8001", conf.Triton.Addr)
	assert.Equal(t, "faces", conf.Triton.ModelName)
	assert.Equal(t, 250, conf.Capture.IntervalMs)
	// untouched values keep their defaults
	assert.Equal(t, "emosense", conf.S3.Bucket)
	assert.Equal(t, "emosense.samples", conf.NSQ.Topic)
}

func TestInitConfigMissingFile(t *testing.T) {
	_, err := InitConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
