package sdt

import (
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FieldReader is just a simple reader for basic file formats.
type FieldReader struct {
	Pos    int
	Fields []string
}

// NewFieldReader constructs a new field reader around the given data
func NewFieldReader(data string) *FieldReader {
	return &FieldReader{0, strings.Fields(data)}
}

// Read returns the next space-delimited field/token
func (fr *FieldReader) Read() (string, error) {
	if fr.Pos >= len(fr.Fields) {
		return "", io.EOF
	}
	p := fr.Pos
	fr.Pos++
	return fr.Fields[p], nil
}

// ReadInt reads the next token as an int
func (fr *FieldReader) ReadInt() (int, error) {
	s, err := fr.Read()
	if err != nil {
		return 0, err
	}

	i, err := strconv.ParseInt(s, 10, 0)
	return int(i), err
}

// preprocess removes blank and comment lines (starting with 'c' or '#') and
// returns the remaining text with the count of "real" lines found.
func preprocess(data []byte) (string, int) {
	lines := strings.Split(string(data), "\n")

	newPos := 0
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if len(ln) < 1 || ln[0] == 'c' || ln[0] == '#' {
			continue
		}
		lines[newPos] = ln
		newPos++
	}

	return strings.Join(lines[:newPos], "\n"), newPos
}

// Read parses signal detection counts: one condition per line as
// "hits misses falseAlarms correctRejections".
func Read(r io.Reader) ([]SignalDetection, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "Could not READ signal detection data")
	}

	text, lineCount := preprocess(data)
	if lineCount < 1 {
		return nil, errors.New("No conditions found in data")
	}

	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		if n := len(strings.Fields(ln)); n != 4 {
			return nil, errors.Errorf("Condition %d: expected 4 counts, found %d in %q", i, n, ln)
		}
	}

	fr := NewFieldReader(text)
	out := make([]SignalDetection, lineCount)
	for i := range out {
		counts := make([]int, 4)
		for j := range counts {
			counts[j], err = fr.ReadInt()
			if err != nil {
				return nil, errors.Wrapf(err, "Error reading count %d on condition %d", j, i)
			}
		}

		s, err := New(counts[0], counts[1], counts[2], counts[3])
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid condition %d", i)
		}
		out[i] = *s
	}

	return out, nil
}

// ReadFile reads signal detection counts from the named file
func ReadFile(filename string) ([]SignalDetection, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not open signal detection data %s", filename)
	}
	defer f.Close()

	return Read(f)
}
