package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("expected 1h token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 10 || cfg.AuthRateLimit != 10 {
		t.Fatalf("unexpected auth defaults: cost=%d rate=%v", cfg.BcryptCost, cfg.AuthRateLimit)
	}
	if cfg.StoreDriver != DriverMongo {
		t.Fatalf("expected mongo driver, got %s", cfg.StoreDriver)
	}
	if cfg.Mongo.Database != "chat" || cfg.Mongo.Transactions {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if len(cfg.AdminEmails) != 0 {
		t.Fatalf("expected no admin emails, got %v", cfg.AdminEmails)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis must be disabled by default, got %q", cfg.Redis.Addr)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "secret",
		"ENV":                "production",
		"TOKEN_TTL":          "15m",
		"STORE_DRIVER":       "memory",
		"MONGO_TRANSACTIONS": "true",
		"REDIS_ADDR":         "localhost:6379",
		"REDIS_DB":           "2",
		"ADMIN_EMAILS":       "root@example.com,ops@example.com",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.IsDevelopment() {
		t.Fatalf("expected production env")
	}
	if cfg.TokenTTL != 15*time.Minute || cfg.StoreDriver != DriverMemory {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if !cfg.Mongo.Transactions || cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected store overrides: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if len(cfg.AdminEmails) != 2 || cfg.AdminEmails[0] != "root@example.com" || cfg.AdminEmails[1] != "ops@example.com" {
		t.Fatalf("unexpected admin emails: %v", cfg.AdminEmails)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER": "sqlite",
	}))
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"JWT_SECRET", "STORE_DRIVER"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in error, got %v", want, err)
		}
	}
}
