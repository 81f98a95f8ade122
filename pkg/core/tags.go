package core

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractTags returns the words following a '#' in content, in order of
// appearance and with duplicates kept. Only word characters are matched,
// so "#project-x" yields "project".
func ExtractTags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// MergeTags appends to existing every trimmed, non-empty tag from extra that
// is not already present. The result never aliases existing.
func MergeTags(existing []string, extra ...string) []string {
	out := make([]string, 0, len(existing)+len(extra))
	seen := make(map[string]bool, len(existing)+len(extra))
	for _, group := range [][]string{existing, extra} {
		for _, tag := range group {
			tag = strings.TrimSpace(tag)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
