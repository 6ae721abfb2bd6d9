package sink

import (
	"fmt"
	"strings"
	"time"

	"github.com/vuhoang/logsink/pkg/types"
)

// lineTimeLayout matches the line format of the historical log summaries
const lineTimeLayout = "2006-01-02 15:04:05"

// FormatLine renders one event as "<UTC timestamp> - <message>". Tabs in the
// message become single spaces and surrounding whitespace is trimmed.
func FormatLine(ev types.LogEvent) string {
	ts := time.UnixMilli(ev.Timestamp).UTC().Format(lineTimeLayout)
	msg := strings.TrimSpace(strings.ReplaceAll(ev.Message, "\t", " "))
	return fmt.Sprintf("%s - %s", ts, msg)
}

// FormatLines renders every event in arrival order
func FormatLines(events []types.LogEvent) []string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, FormatLine(ev))
	}
	return lines
}

// Render joins the formatted lines into one newline-separated block with no
// trailing newline
func Render(events []types.LogEvent) string {
	return strings.Join(FormatLines(events), "\n")
}
