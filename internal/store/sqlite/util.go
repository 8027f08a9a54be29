package sqlite

import "strings"

func joinComma(parts []string) string {
	return strings.Join(parts, ", ")
}
