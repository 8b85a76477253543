// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decoder reads the bytes of an encoded payload. The header is parsed by
// NewDecoder; Read returns the decoded body and io.EOF once the trailer has
// been consumed. Input after the trailer is left unread.
type Decoder struct {
	br     *bufio.Reader
	header Header
	line   int
	buf    []byte
	padded bool
	err    error
}

// NewDecoder parses the header line from r and returns a Decoder positioned
// at the first body line.
func NewDecoder(r io.Reader) (*Decoder, error) {
	d := &Decoder{br: bufio.NewReader(r)}

	line, err := d.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.line = 1
			return nil, d.malformed("missing %q header", HeaderPrefix)
		}
		return nil, err
	}
	h, err := ParseHeader(line)
	if err != nil {
		return nil, d.malformed("%v", err)
	}
	d.header = h
	return d, nil
}

// Header returns the parsed header.
func (d *Decoder) Header() Header {
	return d.header
}

// Read implements io.Reader over the decoded payload bytes.
func (d *Decoder) Read(p []byte) (int, error) {
	for len(d.buf) == 0 {
		if d.err != nil {
			return 0, d.err
		}
		d.fill()
	}
	n := copy(p, d.buf)
	d.buf = d.buf[n:]
	return n, nil
}

func (d *Decoder) fill() {
	line, err := d.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.err = d.malformed("missing %q trailer", Trailer)
			return
		}
		d.err = err
		return
	}
	if line == Trailer {
		d.err = io.EOF
		return
	}
	if line == "" {
		return
	}
	if d.padded {
		d.err = d.malformed("data after a padded line")
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(line)
	if err != nil {
		d.err = d.malformed("invalid base64: %v", err)
		return
	}
	d.padded = strings.HasSuffix(line, "=")
	d.buf = decoded
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned as is; io.EOF means there was no line left.
func (d *Decoder) readLine() (string, error) {
	s, err := d.br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	d.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}

func (d *Decoder) malformed(format string, args ...any) error {
	return &DecodeError{Line: d.line, Reason: fmt.Sprintf(format, args...)}
}

// Decode reads a complete encoded payload from r.
func Decode(r io.Reader) (Header, []byte, error) {
	d, err := NewDecoder(r)
	if err != nil {
		return Header{}, nil, err
	}
	data, err := io.ReadAll(d)
	if err != nil {
		return d.Header(), nil, err
	}
	return d.Header(), data, nil
}
