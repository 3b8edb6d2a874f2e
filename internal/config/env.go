package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables. API keys live in the environment, never in
// settings.yaml, so config files stay shareable.
const (
	EnvGeminiKey       = "GEMINI_API_KEY"
	EnvGoogleSpeechKey = "GOOGLE_SPEECH_API_KEY"
)

// Getenv returns the value of key, or fallback when unset or empty.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GeminiAPIKey returns the Gemini API key from the environment. The
// placeholder value from setup instructions counts as unset.
func GeminiAPIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(EnvGeminiKey))
	if key == "" || key == "your_api_key_here" {
		return "", fmt.Errorf("%s not set; get a key from https://aistudio.google.com/app/apikey", EnvGeminiKey)
	}
	return key, nil
}

// GoogleSpeechKey returns the speech recognition API key, or empty when
// unset. Voice input degrades to text mode without it.
func GoogleSpeechKey() string {
	return strings.TrimSpace(os.Getenv(EnvGoogleSpeechKey))
}
