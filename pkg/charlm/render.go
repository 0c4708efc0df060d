package charlm

import (
	"slices"
	"strconv"
	"strings"
)

// String renders every window with its table, one line per window, in sorted
// window order. Windows are quoted so control characters stay on one line:
//
//	"abc" : ('a' 3 1 1)
func (m *Model) String() string {
	keys := make([]string, 0, len(m.table))
	for key := range m.table {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(strconv.Quote(key))
		sb.WriteString(" : ")
		sb.WriteString(m.table[key].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
