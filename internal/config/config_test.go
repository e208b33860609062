package config

import (
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Success", func(t *testing.T) {
		setEnv("LLM_PROVIDER", "")
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")
		setEnv("ADMIN_TELEGRAM_ID", "12")
		setEnv("PORT", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LLMProvider != ProviderGemini {
			t.Errorf("Expected default provider 'gemini', got '%s'", cfg.LLMProvider)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.StoragePrefix != "cookwise-" {
			t.Errorf("Expected StoragePrefix 'cookwise-', got '%s'", cfg.StoragePrefix)
		}
		if cfg.StorageBackend != BackendSQLite {
			t.Errorf("Expected sqlite backend, got '%s'", cfg.StorageBackend)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 34 {
			t.Errorf("Unexpected allowed ids %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 12 {
			t.Errorf("Expected AdminTelegramID 12, got %d", cfg.AdminTelegramID)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected default port 8080, got '%s'", cfg.Port)
		}
		if cfg.GhostEnabled() {
			t.Error("Expected Ghost publishing to be disabled")
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		setEnv("LLM_PROVIDER", "gemini")
		setEnv("GEMINI_API_KEY", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingGroqAPIKey", func(t *testing.T) {
		setEnv("LLM_PROVIDER", "groq")
		setEnv("GROQ_API_KEY", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROQ_API_KEY, got nil")
		}
		expectedError := "GROQ_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		setEnv("LLM_PROVIDER", "groq")
		setEnv("GROQ_API_KEY", "groq_key")
		setEnv("STORAGE_BACKEND", "redis")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unknown backend, got nil")
		}
	})

	t.Run("InvalidAllowedIDs", func(t *testing.T) {
		setEnv("LLM_PROVIDER", "groq")
		setEnv("GROQ_API_KEY", "groq_key")
		setEnv("STORAGE_BACKEND", "file")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for non-numeric user id, got nil")
		}
	})
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateTelegram(); err == nil {
		t.Fatal("Expected an error for missing bot token")
	}
	cfg.TelegramBotToken = "token"
	cfg.TelegramWebhookURL = "https://example.test/webhook"
	if err := cfg.ValidateTelegram(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}
