package importer

import "strings"

// SplitLine splits one CSV record into trimmed fields. A double quote toggles
// quoting and is dropped; commas inside quotes are kept. Malformed quoting is
// tolerated: an unterminated quote simply runs to the end of the line.
func SplitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}
