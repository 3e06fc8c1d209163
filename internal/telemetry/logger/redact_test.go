package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRedactSensitive_AdminTokenValue(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Log an admin bearer token (should be masked)
	token := "nkat_ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklm"
	l.Info("admin request", "caller", token)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	val, ok := logEntry["caller"].(string)
	if !ok {
		t.Fatal("Expected caller field in log")
	}

	if val == token {
		t.Errorf("Token should be redacted, got original value: %s", val)
	}

	// Should contain the prefix and partial mask
	if val != "nkat_ABC...klm" {
		t.Errorf("Token mask format incorrect, got: %s", val)
	}
}

func TestRedactSensitive_SensitiveKeyName(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Log with sensitive key names (should be redacted regardless of value)
	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"password", "mysecret123", "***REDACTED***"},
		{"encryption_key", "deadbeefdeadbeef", "***REDACTED***"},
		{"auth_token", "bearer-xyz", "***REDACTED***"},
		{"credential", "cred123", "***REDACTED***"},
		{"bearer", "whatever", "***REDACTED***"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			buf.Reset()
			l.Info("test", tt.key, tt.value)

			var logEntry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("Failed to parse JSON log: %v", err)
			}

			val, ok := logEntry[tt.key].(string)
			if !ok {
				t.Fatalf("Expected %s field in log", tt.key)
			}

			if val != tt.expected {
				t.Errorf("Key %q should be redacted to %q, got %q", tt.key, tt.expected, val)
			}
		})
	}
}

func TestRedactSensitive_NormalValues(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Routes and public IDs must stay readable; decision logs are the
	// main diagnostic surface.
	l.Info("restore decided", "route", "orders/detail", "decision_id", "nkdc-0001hzx3e8qjv9p7m2k4c6b5wn")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if route, ok := logEntry["route"].(string); !ok || route != "orders/detail" {
		t.Errorf("Route should not be redacted, got: %v", logEntry["route"])
	}

	if id, ok := logEntry["decision_id"].(string); !ok || id != "nkdc-0001hzx3e8qjv9p7m2k4c6b5wn" {
		t.Errorf("Decision ID (public) should not be redacted, got: %v", logEntry["decision_id"])
	}
}

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "admin token",
			input:    "nkat_ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklm",
			expected: "nkat_ABC...klm",
		},
		{
			name:     "short token",
			input:    "nkat_ABCDEF",
			expected: "nkat_***",
		},
		{
			name:     "unknown nk underscore prefix",
			input:    "nkxx_ABCDEFGHIJKLMNOP",
			expected: "nkxx_ABC...NOP",
		},
		{
			name:     "normal value",
			input:    "normalvalue123",
			expected: "normalvalue123",
		},
		{
			name:     "decision id (not sensitive)",
			input:    "nkdc-0001hzx3e8qjv9p7m2k4c6b5wn",
			expected: "nkdc-0001hzx3e8qjv9p7m2k4c6b5wn",
		},
		{
			name:     "bundle id (not sensitive)",
			input:    "nkbd-0001hzx3e8qjv9p7m2k4c6b5wn",
			expected: "nkbd-0001hzx3e8qjv9p7m2k4c6b5wn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RedactString(tt.input)
			if result != tt.expected {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key       string
		sensitive bool
	}{
		{"password", true},
		{"PASSWORD", true},
		{"secret", true},
		{"token", true},
		{"auth_token", true},
		{"key", true},
		{"encryption_key", true},
		{"credential", true},
		{"auth", true},
		{"bearer", true},
		{"route", false},
		{"decision_id", false},
		{"request_id", false},
		{"entry", false},
		{"outcome", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			result := IsSensitiveKey(tt.key)
			if result != tt.sensitive {
				t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, result, tt.sensitive)
			}
		})
	}
}

func TestIsSensitiveValue(t *testing.T) {
	tests := []struct {
		value     string
		sensitive bool
	}{
		{"nkat_abc123", true},
		{"nkdc-abc123", false}, // Decision ID is public
		{"nkbd-xyz789", false}, // Bundle ID is public
		{"home", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			result := IsSensitiveValue(tt.value)
			if result != tt.sensitive {
				t.Errorf("IsSensitiveValue(%q) = %v, want %v", tt.value, result, tt.sensitive)
			}
		})
	}
}

func TestMaskValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		prefix   string
		expected string
	}{
		{
			name:     "long value",
			value:    "nkat_ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklm",
			prefix:   "nkat_",
			expected: "nkat_ABC...klm",
		},
		{
			name:     "short value",
			value:    "nkat_ABCDEF",
			prefix:   "nkat_",
			expected: "nkat_***",
		},
		{
			name:     "minimal value",
			value:    "nkat_AB",
			prefix:   "nkat_",
			expected: "nkat_***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskValue(tt.value, tt.prefix)
			if result != tt.expected {
				t.Errorf("maskValue(%q, %q) = %q, want %q", tt.value, tt.prefix, result, tt.expected)
			}
		})
	}
}
