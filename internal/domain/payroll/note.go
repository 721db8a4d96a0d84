package payroll

import (
	"fmt"
	"strings"
	"time"
)

const noteTimeLayout = "2006-01-02 15:04:05"

// AppendNote adds one audit line to an existing note. Existing lines are
// never rewritten.
func AppendNote(existing *string, at time.Time, action Action, username, text string) *string {
	line := fmt.Sprintf("[%s] %s by %s", at.UTC().Format(noteTimeLayout), strings.ToUpper(string(action)), username)
	if text = strings.TrimSpace(text); text != "" {
		line += ": " + text
	}

	if existing == nil || *existing == "" {
		return &line
	}
	note := *existing + "\n" + line
	return &note
}
