package encode

import (
	"unicode/utf8"

	"github.com/livefir/statichtml/internal/literal"
)

// Split partitions lit into chunks of at most size characters. Run-time
// pieces are never split and count as one character. Empty chunks are
// dropped.
func Split(lit literal.Composite, size int) []literal.Composite {
	if size < 1 {
		size = 1
	}
	var (
		chunks []literal.Composite
		cur    literal.Builder
		units  int
	)
	flush := func() {
		if c := cur.Composite(); len(c) > 0 {
			chunks = append(chunks, c)
		}
		cur = literal.Builder{}
		units = 0
	}

	for _, piece := range lit {
		text, static := piece.(literal.Text)
		if !static {
			if units == size {
				flush()
			}
			cur.WriteValue(piece)
			units++
			continue
		}
		s := string(text)
		for len(s) > 0 {
			if units == size {
				flush()
			}
			// Take as many runes as fit in the current chunk.
			n, i := 0, 0
			for i < len(s) && units+n < size {
				_, w := utf8.DecodeRuneInString(s[i:])
				i += w
				n++
			}
			cur.WriteString(s[:i])
			units += n
			s = s[i:]
		}
	}
	flush()
	return chunks
}
