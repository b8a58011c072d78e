package manifest

// Block is the run of lines belonging to one package. Lines[0] carries the tag.
type Block struct {
	Lines []string
}

// Tags split over at most this many physical lines are rejoined.
const maxTagParts = 3

// Segment splits normalized lines into package blocks, one per line holding a
// package tag, in document order. Lines before the first tag belong to the
// header and are discarded here. A tag broken across lines by the PDF layout is
// rejoined before splitting.
func Segment(lines []string) []Block {
	lines = rejoinSplitTags(lines)
	var blocks []Block
	for _, line := range lines {
		if isTagLine(line) {
			blocks = append(blocks, Block{Lines: []string{line}})
			continue
		}
		if len(blocks) > 0 {
			last := &blocks[len(blocks)-1]
			last.Lines = append(last.Lines, line)
		}
	}
	return blocks
}

func rejoinSplitTags(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if rePartialTag.MatchString(lines[i]) {
			if joined, used := joinTag(lines[i:]); used > 1 {
				out = append(out, joined)
				i += used - 1
				continue
			}
		}
		out = append(out, lines[i])
	}
	return out
}

// joinTag concatenates leading lines until they start with a complete tag.
// It returns the number of lines consumed, or 0 when no tag forms.
func joinTag(lines []string) (string, int) {
	acc := lines[0]
	for n := 1; n < len(lines) && n < maxTagParts; n++ {
		acc += lines[n]
		if reTagPrefix.MatchString(acc) {
			return acc, n + 1
		}
		if !rePartialTag.MatchString(acc) {
			return "", 0
		}
	}
	return "", 0
}
