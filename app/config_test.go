package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary config file
	tempFile, err := os.CreateTemp("", "config-*.env")
	if err != nil {
		t.Fatalf("Failed to create temporary config file: %v", err)
	}
	defer os.Remove(tempFile.Name())

	// Write test configuration to the temporary file
	configData := []byte(`
PORT=:8080
ENVIRONMENT=development
VERSION=1.0.0
POSTGRES_HOST=localhost
POSTGRES_PORT=5432
POSTGRES_USER=testuser
POSTGRES_PASSWORD=testpassword
POSTGRES_DB=testdb
RABBITMQ_HOST=rabbitmq.example.com
RABBITMQ_PORT=5672
RABBITMQ_USER=testuser
RABBITMQ_PASSWORD=testpassword
S3_ENDPOINT=https://s3.example.com
S3_BUCKET=inkpost-media
S3_ACCESS_KEY=testkey
S3_SECRET_KEY=testsecret
S3_PUBLIC_BASE=https://media.example.com
LIMITER_RPS=2
LIMITER_BURST=4
LIMITER_ENABLED=true
`)
	if _, err := tempFile.Write(configData); err != nil {
		t.Fatalf("Failed to write test configuration to temporary file: %v", err)
	}

	// Load the config from the temporary file
	config, err := loadConfig(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify the loaded config values
	assert.Equal(t, ":8080", config.Port)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "1.0.0", config.Version)
	assert.Equal(t, "localhost", config.DBHost)
	assert.Equal(t, "5432", config.DBPort)
	assert.Equal(t, "testuser", config.DBUser)
	assert.Equal(t, "testpassword", config.DBPassword)
	assert.Equal(t, "testdb", config.DBName)
	assert.Equal(t, "rabbitmq.example.com", config.MQHost)
	assert.Equal(t, "5672", config.MQPort)
	assert.Equal(t, "testuser", config.MQUser)
	assert.Equal(t, "testpassword", config.MQPassword)
	assert.Equal(t, "https://s3.example.com", config.S3Endpoint)
	assert.Equal(t, "inkpost-media", config.S3Bucket)
	assert.Equal(t, "testkey", config.S3AccessKey)
	assert.Equal(t, "testsecret", config.S3SecretKey)
	assert.Equal(t, "https://media.example.com", config.S3PublicBase)
	assert.Equal(t, float64(2), config.LimiterRPS)
	assert.Equal(t, 4, config.LimiterBurst)
	assert.True(t, config.LimiterEnabled)
}
