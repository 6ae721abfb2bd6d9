package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ModeAppend, cfg.Sink.Mode)
	assert.Equal(t, DefaultSinkKey, cfg.Sink.Key)
	assert.Equal(t, DefaultMaxAttempts, cfg.Sink.MaxAttempts)
	assert.Equal(t, 3306, cfg.Extract.DB.Port)
}

func TestLoad_ParsesYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logsink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
aws_region: eu-north-1
sink:
  bucket: rds-to-s3-log-summaries-bucket
  mode: snapshot
extract:
  bucket: test.complete.food-delivery
  tables: [location, customer]
  db:
    host: mysqldatabase.example.eu-north-1.rds.amazonaws.com
    name: food_test_db
    user_param: /foodDelivery/rds/username
    password_param: /foodDelivery/rds/password
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-north-1", cfg.AWSRegion)
	assert.Equal(t, "rds-to-s3-log-summaries-bucket", cfg.Sink.Bucket)
	assert.Equal(t, ModeSnapshot, cfg.Sink.Mode)
	assert.Equal(t, []string{"location", "customer"}, cfg.Extract.Tables)
	assert.Equal(t, "/foodDelivery/rds/username", cfg.Extract.DB.UserParam)

	require.NoError(t, cfg.ValidateSink())
	require.NoError(t, cfg.ValidateExtract())
}

func TestValidateSink_RequiresBucket(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	require.Error(t, cfg.ValidateSink())

	cfg.Sink.Bucket = "b"
	require.NoError(t, cfg.ValidateSink())

	cfg.Sink.Mode = "overwrite"
	require.Error(t, cfg.ValidateSink())
}

func TestValidateExtract_RequiresEverything(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	require.Error(t, cfg.ValidateExtract())

	cfg.Extract.Bucket = "b"
	cfg.Extract.Tables = []string{"location"}
	cfg.Extract.DB.Host = "h"
	cfg.Extract.DB.Name = "d"
	require.Error(t, cfg.ValidateExtract(), "credential parameters still missing")

	cfg.Extract.DB.UserParam = "/rds/user"
	cfg.Extract.DB.PasswordParam = "/rds/pass"
	require.NoError(t, cfg.ValidateExtract())
}
