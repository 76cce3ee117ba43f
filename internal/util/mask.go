// Package util junta helpers chicos sin dependencias del dominio.
package util

import "strings"

// MaskEmail deja la primera letra del local part y del primer label del
// dominio: "ursula@gmail.com" -> "u…@g….com". Sin '@' enmascara el valor entero.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	user, dom, ok := strings.Cut(s, "@")
	if !ok || user == "" {
		switch {
		case s == "":
			return ""
		case len(s) <= 3:
			return "***"
		}
		return s[:1] + "…" + s[len(s)-1:]
	}
	user = maskHead(user)
	labels := strings.Split(dom, ".")
	labels[0] = maskHead(labels[0])
	return user + "@" + strings.Join(labels, ".")
}

func maskHead(s string) string {
	if len(s) <= 1 {
		return s
	}
	return s[:1] + "…"
}
