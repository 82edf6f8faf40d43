package command

import "regexp"

var tokenSplitRe = regexp.MustCompile(`\S+`)

// tokens splits line on whitespace and remembers each token's byte offset,
// so callers can recover "rest of line from token N onward" for messages
// and reasons that extend to end-of-line rather than being newline-split
// themselves (spec.md §4.3: "reasons and messages extend from a fixed
// argument position to end-of-line").
type tokens struct {
	line string
	idx  [][2]int
	vals []string
}

func tokenize(line string) tokens {
	raw := tokenSplitRe.FindAllStringIndex(line, -1)
	idx := make([][2]int, len(raw))
	vals := make([]string, len(raw))
	for i, p := range raw {
		idx[i] = [2]int{p[0], p[1]}
		vals[i] = line[p[0]:p[1]]
	}
	return tokens{line: line, idx: idx, vals: vals}
}

func (t tokens) len() int { return len(t.vals) }

func (t tokens) at(i int) (string, bool) {
	if i < 0 || i >= len(t.vals) {
		return "", false
	}
	return t.vals[i], true
}

// tailFrom returns the raw line starting at token i's first byte (so
// internal whitespace in a message body is preserved), or "" if i is out
// of range.
func (t tokens) tailFrom(i int) string {
	if i < 0 || i >= len(t.idx) {
		return ""
	}
	return t.line[t.idx[i][0]:]
}
