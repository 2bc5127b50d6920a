package similarity

import "strings"

// DefaultChunkSize is the maximum chunk length in characters.
const DefaultChunkSize = 1000

// Chunk splits text into paragraph-packed chunks of at most size runes.
// Paragraphs are separated by blank lines. A paragraph longer than size is
// split on word boundaries, and a single word longer than size is cut.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var out []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	add := func(piece string, sep string) {
		n := len([]rune(piece))
		if curLen > 0 && curLen+len(sep)+n > size {
			flush()
		}
		if curLen > 0 {
			cur.WriteString(sep)
			curLen += len(sep)
		}
		cur.WriteString(piece)
		curLen += n
	}

	for _, para := range paragraphs(text) {
		if len([]rune(para)) <= size {
			add(para, "\n\n")
			continue
		}
		flush()
		for _, w := range strings.Fields(para) {
			for r := []rune(w); len(r) > 0; {
				n := min(len(r), size)
				add(string(r[:n]), " ")
				r = r[n:]
			}
		}
		flush()
	}
	flush()
	return out
}

func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
