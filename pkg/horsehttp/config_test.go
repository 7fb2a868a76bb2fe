package horsehttp

import "testing"

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Addr != ":1337" {
		t.Errorf("Addr = %q, want :1337", config.Addr)
	}
	if config.MaxConns != 4 {
		t.Errorf("MaxConns = %d, want 4", config.MaxConns)
	}
	if config.Logger == nil {
		t.Error("Logger = nil")
	}
	if !config.EnableMetrics {
		t.Error("EnableMetrics = false")
	}
	if config.TracerName != "" {
		t.Errorf("TracerName = %q, want empty", config.TracerName)
	}
}

func TestConfigValidateNormalizesZeroValues(t *testing.T) {
	config := Config{}

	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if config.Addr != ":1337" {
		t.Errorf("Addr = %q, want :1337", config.Addr)
	}
	if config.MaxConns != 4 {
		t.Errorf("MaxConns = %d, want 4", config.MaxConns)
	}
	if config.Logger == nil {
		t.Error("Logger = nil after Validate")
	}
}

func TestConfigValidateKeepsExplicitValues(t *testing.T) {
	config := Config{
		Addr:     "127.0.0.1:8080",
		MaxConns: 16,
		Logger:   newSilentLogger(),
	}
	logger := config.Logger

	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if config.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", config.Addr)
	}
	if config.MaxConns != 16 {
		t.Errorf("MaxConns = %d", config.MaxConns)
	}
	if config.Logger != logger {
		t.Error("Logger replaced")
	}
}

func TestConfigValidateNegativeMaxConns(t *testing.T) {
	config := Config{MaxConns: -3}

	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if config.MaxConns != 4 {
		t.Errorf("MaxConns = %d, want normalized to 4", config.MaxConns)
	}
}
