// Package keypoints models pose-annotation tables: a multi-level column
// header keyed by (scorer, individual, bodypart, coordinate), the dense
// coordinate table underneath it, and small categorical helpers the
// annotation UI leans on.
package keypoints

import (
	"fmt"
	"os"
	"strings"
)

// UnsortedUnique returns the unique elements of values in first-seen order.
func UnsortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// EncodeCategories maps each category label to a small integer, assigned in
// first-seen order, and returns the per-element codes alongside the mapping.
func EncodeCategories(categories []string) ([]int, map[string]int) {
	unique := UnsortedUnique(categories)
	codes := make(map[string]int, len(unique))
	for i, c := range unique {
		codes[c] = i
	}
	out := make([]int, len(categories))
	for i, c := range categories {
		out[i] = codes[c]
	}
	return out, codes
}

const (
	winSep  = `\`
	unixSep = "/"
)

// ToOSDirSep rewrites every directory separator in path to the host OS
// convention. On UNIX systems a backslash is a legal filename character, so
// a path mixing both separator styles is ambiguous and rejected.
func ToOSDirSep(path string) (string, error) {
	hasWin := strings.Contains(path, winSep)
	hasUnix := strings.Contains(path, unixSep)
	if hasWin && hasUnix {
		return "", fmt.Errorf("keypoints: %q may not contain both %q and %q", path, winSep, unixSep)
	}
	sep := unixSep
	if hasWin {
		sep = winSep
	}
	return strings.Join(strings.Split(path, sep), string(os.PathSeparator)), nil
}
