package textsource

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/encoding/charmap"
)

// readPDFContent walks each page's content stream and rebuilds text lines
// from the text-showing operators.
func readPDFContent(path string) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, 0, fmt.Errorf("pdfcpu read: %w", err)
	}

	var lines []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		lines = append(lines, streamLines(data)...)
	}
	if len(lines) == 0 {
		return nil, ctx.PageCount, fmt.Errorf("no text content found in PDF")
	}
	return lines, ctx.PageCount, nil
}

type streamReader struct {
	lines   []string
	cur     strings.Builder
	pending []string
	nums    []float64
	inArray bool
}

func (s *streamReader) newline() {
	if line := strings.TrimSpace(s.cur.String()); line != "" {
		s.lines = append(s.lines, line)
	}
	s.cur.Reset()
}

func (s *streamReader) show() {
	for _, p := range s.pending {
		s.cur.WriteString(p)
	}
}

func (s *streamReader) operator(op string) {
	switch op {
	case "Tj", "TJ":
		s.show()
	case "'", `"`:
		s.newline()
		s.show()
	case "Td", "TD":
		// a purely horizontal move stays on the same line
		if n := len(s.nums); n >= 2 && s.nums[n-1] == 0 {
			s.cur.WriteByte(' ')
		} else {
			s.newline()
		}
	case "T*", "Tm", "BT", "ET":
		s.newline()
	}
	s.pending = s.pending[:0]
	s.nums = s.nums[:0]
}

// streamLines extracts text lines from a decoded page content stream.
// Literal strings are decoded as WinAnsi; hex strings (CID fonts) are skipped.
func streamLines(data []byte) []string {
	s := &streamReader{}
	winAnsi := charmap.Windows1252.NewDecoder()
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '(':
			str, n := readLiteral(data[i:])
			if dec, err := winAnsi.String(str); err == nil {
				str = dec
			}
			s.pending = append(s.pending, str)
			i += n
		case c == '<' && i+1 < len(data) && data[i+1] == '<', c == '>' && i+1 < len(data) && data[i+1] == '>':
			i += 2
		case c == '<':
			end := strings.IndexByte(string(data[i:]), '>')
			if end < 0 {
				i = len(data)
			} else {
				i += end + 1
			}
		case c == '[':
			s.inArray = true
			i++
		case c == ']':
			s.inArray = false
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case isPDFSpace(c):
			i++
		case c == '/':
			i++
			for i < len(data) && !isPDFSpace(data[i]) && !isPDFDelim(data[i]) {
				i++
			}
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(data) && (data[j] == '.' || (data[j] >= '0' && data[j] <= '9')) {
				j++
			}
			if v, err := strconv.ParseFloat(string(data[i:j]), 64); err == nil {
				s.nums = append(s.nums, v)
				// large negative kerning inside TJ is a word gap
				if s.inArray && v <= -200 {
					s.pending = append(s.pending, " ")
				}
			}
			i = j
		default:
			j := i + 1
			for j < len(data) && !isPDFSpace(data[j]) && !isPDFDelim(data[j]) {
				j++
			}
			s.operator(string(data[i:j]))
			i = j
		}
	}
	s.newline()
	return s.lines
}

// readLiteral decodes a balanced (...) string starting at data[0].
// It returns the string and the number of bytes consumed.
func readLiteral(data []byte) (string, int) {
	var b []byte
	depth := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '\\' && i+1 < len(data):
			i++
			switch e := data[i]; e {
			case 'n':
				b = append(b, '\n')
			case 'r':
				b = append(b, '\r')
			case 't':
				b = append(b, '\t')
			case 'b':
				b = append(b, '\b')
			case 'f':
				b = append(b, '\f')
			case '\r':
				if i+1 < len(data) && data[i+1] == '\n' {
					i++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && i+1 < len(data) && data[i+1] >= '0' && data[i+1] <= '7'; k++ {
						i++
						val = val*8 + int(data[i]-'0')
					}
					b = append(b, byte(val))
				} else {
					b = append(b, e)
				}
			}
		case c == '(':
			depth++
			if depth > 1 {
				b = append(b, c)
			}
		case c == ')':
			depth--
			if depth == 0 {
				return string(b), i + 1
			}
			b = append(b, c)
		default:
			b = append(b, c)
		}
	}
	return string(b), len(data)
}

func isPDFSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
