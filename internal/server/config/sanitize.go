package config

import "strings"

// Sanitize returns a copy of the config with key material masked, for
// logging the effective configuration at startup.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if sanitized.Security.EncryptionKey != "" {
		sanitized.Security.EncryptionKey = maskSecret(sanitized.Security.EncryptionKey)
	}
	if sanitized.Security.AdminToken != "" {
		sanitized.Security.AdminToken = maskSecret(sanitized.Security.AdminToken)
	}

	return &sanitized
}

// maskSecret masks a secret, keeping two characters of context at each
// end when the value is long enough to afford it.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
