package sitecounts

import "github.com/leapstack-labs/sitecounts/pkg/core"

// ExcludeEntry returns entries without the entry whose ID is id, wherever it
// appears. Order is preserved and the input is not modified.
func ExcludeEntry(entries []core.Entry, id int64) []core.Entry {
	out := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if id != 0 && e.ID == id {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Truncate returns at most n leading entries.
func Truncate(entries []core.Entry, n int) []core.Entry {
	if n < 0 {
		n = 0
	}
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}
