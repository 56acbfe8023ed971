package lyrics

import "sort"

// Resolve returns the index of the last line whose timestamp is at or before
// t. Lines sharing a timestamp resolve to the later one. ok is false when
// lines is empty or t precedes the first line. Past the last line the last
// index is returned.
func Resolve(lines []Line, t uint64) (index int, ok bool) {
	i := sort.Search(len(lines), func(i int) bool {
		return lines[i].Timestamp > t
	})
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}
