package util

// MaskSecret acorta un valor sensible (sid, token, openid) para logs:
// conserva un prefijo y sufijo cortos y elide el medio.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "…" + s[len(s)-4:]
}
