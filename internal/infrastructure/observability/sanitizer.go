package observability

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// PIILevel controls how personal data is written to logs and spans.
type PIILevel string

const (
	// PIILevelNone redacts personal data entirely.
	PIILevelNone PIILevel = "none"
	// PIILevelHashed replaces personal data with a salted hash prefix.
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull writes personal data unchanged.
	PIILevelFull PIILevel = "full"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	ipv4Pattern  = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
)

// Sanitizer scrubs client addresses and free-form testimonial text before they reach telemetry.
// A nil Sanitizer passes values through.
type Sanitizer struct {
	level PIILevel
	salt  string
}

// NewSanitizer builds a Sanitizer. Unknown levels fall back to hashed.
func NewSanitizer(level string, salt string) *Sanitizer {
	l := PIILevel(strings.ToLower(strings.TrimSpace(level)))
	switch l {
	case PIILevelNone, PIILevelHashed, PIILevelFull:
	default:
		l = PIILevelHashed
	}
	return &Sanitizer{level: l, salt: salt}
}

// Level reports the effective level.
func (s *Sanitizer) Level() PIILevel {
	if s == nil {
		return PIILevelFull
	}
	return s.level
}

// SanitizeIP hides a client address.
func (s *Sanitizer) SanitizeIP(ip string) string {
	if s == nil || ip == "" {
		return ip
	}
	switch s.level {
	case PIILevelFull:
		return ip
	case PIILevelNone:
		return "[REDACTED]"
	default:
		return "ip:" + s.hash(ip)
	}
}

// SanitizeText scrubs emails, phone numbers and IPv4 addresses embedded in free text
// such as a testimonial name or location.
func (s *Sanitizer) SanitizeText(input string) string {
	if s == nil {
		return input
	}
	switch s.level {
	case PIILevelFull:
		return input
	case PIILevelNone:
		if input == "" {
			return ""
		}
		return "[REDACTED]"
	}

	result := emailPattern.ReplaceAllStringFunc(input, func(match string) string {
		return fmt.Sprintf("[EMAIL:%s]", s.hash(match))
	})
	result = phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[PHONE:%s]", s.hash(match))
	})
	return ipv4Pattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[IP:%s]", s.hash(match))
	})
}

func (s *Sanitizer) hash(data string) string {
	h := sha256.Sum256([]byte(data + s.salt))
	return hex.EncodeToString(h[:])[:8]
}
