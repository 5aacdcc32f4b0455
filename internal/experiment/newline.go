package experiment

import (
	"bufio"
	"io"
)

// crlfKeeper feeds CSV input to encoding/csv so that a CRLF inside a quoted
// field survives parsing. encoding/csv folds every line-ending CRLF into LF,
// so an embedded CRLF is written as CR CR LF, which folds back to CR LF.
// Record terminators outside quotes pass through unchanged.
type crlfKeeper struct {
	src        *bufio.Reader
	out        []byte
	err        error
	inQuotes   bool
	fieldStart bool
}

func newCRLFKeeper(r io.Reader) *crlfKeeper {
	return &crlfKeeper{src: bufio.NewReader(r), fieldStart: true}
}

func (k *crlfKeeper) Read(p []byte) (int, error) {
	for len(k.out) < len(p) && k.err == nil {
		b, err := k.src.ReadByte()
		if err != nil {
			k.err = err
			break
		}
		k.out = k.step(b, k.out)
	}
	if len(k.out) == 0 {
		return 0, k.err
	}
	n := copy(p, k.out)
	k.out = k.out[n:]
	return n, nil
}

// step appends the translation of b to out, tracking quoting the way
// encoding/csv does with LazyQuotes: a quote opens a field only at its start
// and closes it only before a comma, a line ending or the end of input.
func (k *crlfKeeper) step(b byte, out []byte) []byte {
	if k.inQuotes {
		switch b {
		case '"':
			next, _ := k.src.Peek(2)
			switch {
			case len(next) > 0 && next[0] == '"':
				_, _ = k.src.ReadByte()
				return append(out, '"', '"')
			case len(next) == 0, next[0] == ',', next[0] == '\n',
				next[0] == '\r' && (len(next) == 1 || next[1] == '\n'):
				k.inQuotes = false
				k.fieldStart = false
			}
			return append(out, b)
		case '\r':
			if next, _ := k.src.Peek(1); len(next) == 1 && next[0] == '\n' {
				_, _ = k.src.ReadByte()
				return append(out, '\r', '\r', '\n')
			}
		}
		return append(out, b)
	}

	switch b {
	case '"':
		if k.fieldStart {
			k.inQuotes = true
		}
		k.fieldStart = false
	case ',', '\n':
		k.fieldStart = true
	default:
		k.fieldStart = false
	}
	return append(out, b)
}
