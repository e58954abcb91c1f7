package config

import "strings"

// maskSecret оставляет видимыми только первые и последние 4 символа
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) < 8 {
		return "***"
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}

// MaskedToken returns the bot token with the secret part masked; the bot id stays
// visible for diagnostics.
func (t TelegramConfig) MaskedToken() string {
	botID, secret, ok := strings.Cut(t.Token, ":")
	if !ok {
		return maskSecret(t.Token)
	}
	return botID + ":" + maskSecret(secret)
}
