package services

// MaxFieldLength caps TextPreview and Error in status records, in characters.
const MaxFieldLength = 1000

// Truncate returns at most maxLen characters of s, never splitting a rune.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i]
		}
		n++
	}
	return s
}
