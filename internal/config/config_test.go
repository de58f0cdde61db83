package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("MAX_QUESTIONS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.MaxQuestions != 5 {
		t.Fatalf("expected default question budget 5, got %d", cfg.MaxQuestions)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected default openai model, got %s", cfg.OpenAIModel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("MAX_QUESTIONS", "3")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("NLU_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.MaxQuestions != 3 {
		t.Fatalf("expected question budget override, got %d", cfg.MaxQuestions)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected session TTL override, got %s", cfg.SessionTTL)
	}
	if cfg.NLUTimeout != 5*time.Second {
		t.Fatalf("expected nlu timeout override, got %s", cfg.NLUTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected parsed origins, got %v", cfg.CORSAllowedOrigins)
	}
}
