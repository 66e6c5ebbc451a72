package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRoomID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"DEADBEEF", true},
		{"01234567", true},
		{"deadbeef", false},
		{"DEADBEE", false},
		{"DEADBEEF0", false},
		{"DEADBEEG", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateRoomID(tt.in), tt.in)
	}
}

func TestValidateMessageType(t *testing.T) {
	for _, ok := range []string{"create_room", "join_room", "leave_room", "message", "get_rooms", "create-room", "send-data", "join-room"} {
		assert.True(t, ValidateMessageType(ok), ok)
	}
	for _, bad := range []string{"", "welcome", "error", "JOIN_ROOM", "drop_table"} {
		assert.False(t, ValidateMessageType(bad), bad)
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want bool
	}{
		{"plain", "hello there", 0, true},
		{"ciphertext", "U2FsdGVkX1+abc/def==", 0, true},
		{"empty", "", 0, false},
		{"at limit", strings.Repeat("a", 16), 16, true},
		{"over limit", strings.Repeat("a", 17), 16, false},
		{"over default", strings.Repeat("a", DefaultMaxTextLength+1), 0, false},
		{"script tag", "x<script>alert(1)</script>y", 0, false},
		{"script tag multiline", "<SCRIPT type=x>\nalert(1)\n</script>", 0, false},
		{"javascript scheme", "JavaScript:alert(1)", 0, false},
		{"event handler", `<img src=x onerror = "boom">`, 0, false},
		{"html data uri", "data:text/html;base64,AAAA", 0, false},
		{"vbscript", "vbscript:msgbox", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateText(tt.in, tt.max))
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "bhi/b", SanitizeInput("  <b>hi</b> "))
	assert.Equal(t, "alert(1)", SanitizeInput("javascript:alert(1)"))
	assert.Equal(t, "img src=x \"x\"", SanitizeInput(`<img src=x onerror="x">`))
}
