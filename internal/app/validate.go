package app

import (
	"regexp"
	"strings"

	"github.com/dkeye/ephero/internal/domain"
	"github.com/dkeye/ephero/internal/protocol"
)

const DefaultMaxTextLength = 10000

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)vbscript:`),
}

var (
	sanitizeScheme  = regexp.MustCompile(`(?i)javascript:`)
	sanitizeHandler = regexp.MustCompile(`(?i)on\w+\s*=`)
)

func ValidateRoomID(id string) bool {
	return domain.RoomID(id).Valid()
}

func ValidateMessageType(t string) bool {
	return protocol.MessageType(t).Known()
}

// ValidateText rejects empty text, text longer than maxLen bytes, and text
// carrying script or markup injection patterns. maxLen <= 0 selects the
// default.
func ValidateText(text string, maxLen int) bool {
	if maxLen <= 0 {
		maxLen = DefaultMaxTextLength
	}
	if text == "" || len(text) > maxLen {
		return false
	}
	for _, p := range dangerousPatterns {
		if p.MatchString(text) {
			return false
		}
	}
	return true
}

// SanitizeInput strips angle brackets, javascript: schemes and inline event
// handlers.
func SanitizeInput(s string) string {
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	s = sanitizeScheme.ReplaceAllString(s, "")
	s = sanitizeHandler.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
