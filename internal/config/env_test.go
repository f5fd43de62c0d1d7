package config

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("OCR_TEST_SET", "documents")
	t.Setenv("OCR_TEST_EMPTY", "")

	tests := []struct {
		name     string
		key      string
		fallback string
		expected string
	}{
		{name: "set", key: "OCR_TEST_SET", fallback: "x", expected: "documents"},
		{name: "set but empty", key: "OCR_TEST_EMPTY", fallback: "processed/", expected: ""},
		{name: "unset", key: "OCR_TEST_UNSET_VARIABLE", fallback: "processed/", expected: "processed/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetEnv(tt.key, tt.fallback); got != tt.expected {
				t.Errorf("GetEnv(%q, %q) = %q, want %q", tt.key, tt.fallback, got, tt.expected)
			}
		})
	}
}
