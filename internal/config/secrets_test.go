package config

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

func TestParseSecretDataFromString(t *testing.T) {
	result := &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"s3cret","data_source_api_key":"key-123"}`),
	}

	secrets, err := parseSecretData(result)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if secrets.DatabasePassword != "s3cret" {
		t.Errorf("Expected database password 's3cret', got '%s'", secrets.DatabasePassword)
	}
	if secrets.DataSourceAPIKey != "key-123" {
		t.Errorf("Expected API key 'key-123', got '%s'", secrets.DataSourceAPIKey)
	}
}

func TestParseSecretDataFromBinary(t *testing.T) {
	result := &secretsmanager.GetSecretValueOutput{
		SecretBinary: []byte(`{"database_password":"binpw"}`),
	}

	secrets, err := parseSecretData(result)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if secrets.DatabasePassword != "binpw" {
		t.Errorf("Expected database password 'binpw', got '%s'", secrets.DatabasePassword)
	}
}

func TestParseSecretDataEmpty(t *testing.T) {
	_, err := parseSecretData(&secretsmanager.GetSecretValueOutput{})
	if err == nil {
		t.Error("Expected error for empty secret data")
	}
}

func TestParseSecretDataInvalidJSON(t *testing.T) {
	result := &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String("{not json"),
	}
	if _, err := parseSecretData(result); err == nil {
		t.Error("Expected error for malformed secret JSON")
	}
}

func TestOverlaySecretsOnConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Password = "from-yaml"
	cfg.DataSource.APIKey = "from-yaml"

	overlaySecretsOnConfig(cfg, &SecretsOverlay{DatabasePassword: "from-aws"})

	if cfg.Database.Password != "from-aws" {
		t.Errorf("Expected overlaid password 'from-aws', got '%s'", cfg.Database.Password)
	}
	// Empty overlay fields leave the existing value alone.
	if cfg.DataSource.APIKey != "from-yaml" {
		t.Errorf("Expected API key 'from-yaml', got '%s'", cfg.DataSource.APIKey)
	}
}
