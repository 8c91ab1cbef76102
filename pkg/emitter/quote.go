package emitter

import "strings"

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

// Quote renders s as a single-quoted script literal. Backslashes, quotes
// and line breaks are escaped so the literal always ends at the closing
// quote and reads back as s.
func Quote(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}
