package main

import (
	"context"
	"testing"

	appconfig "github.com/carebridge/complaint-intake/internal/config"
	"github.com/carebridge/complaint-intake/pkg/logging"
)

func TestBuildLLMClientRequiresAKey(t *testing.T) {
	cfg := &appconfig.Config{}
	if _, _, err := buildLLMClient(context.Background(), cfg, logging.New("error")); err == nil {
		t.Fatal("expected an error with no provider keys configured")
	}
}

func TestBuildLLMClientOpenAIOnly(t *testing.T) {
	cfg := &appconfig.Config{
		OpenAIAPIKey: "sk-test",
		OpenAIModel:  "gpt-4o-mini",
	}
	client, cleanup, err := buildLLMClient(context.Background(), cfg, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()
	if client == nil {
		t.Fatal("expected a client")
	}
}
