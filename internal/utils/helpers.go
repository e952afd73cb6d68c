package utils

import "strings"

// StringPtr возвращает указатель на строку.
func StringPtr(s string) *string {
	return &s
}

// Deref возвращает значение указателя или пустую строку.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TruncateString обрезает строку до limit байт, не разрывая руны.
func TruncateString(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut]) + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
