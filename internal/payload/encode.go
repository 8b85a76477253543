// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

type (
	// EncodeOption configures Encode and EncodeFile.
	EncodeOption func(*encodeOptions)

	encodeOptions struct {
		lineLength int
	}
)

// WithLineLength sets the number of base64 characters per body line.
// n must be a positive multiple of 4 no larger than MaxLineLength.
func WithLineLength(n int) EncodeOption {
	return func(o *encodeOptions) {
		o.lineLength = n
	}
}

// Encode streams r to w as an encoded payload carrying header h and returns
// the number of payload bytes read from r.
//
// Nothing is written when h or the options are rejected. A read or write
// failure part way through returns an EncodingError; w then holds a partial
// payload and must be discarded by the caller.
func Encode(w io.Writer, r io.Reader, h Header, opts ...EncodeOption) (int64, error) {
	o := encodeOptions{lineLength: DefaultLineLength}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateLineLength(o.lineLength); err != nil {
		return 0, err
	}
	if err := ValidateName(h.Name); err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(h.String() + "\n"); err != nil {
		return 0, &EncodingError{Name: h.Name, Reason: "write header", Err: err}
	}

	// Each full chunk encodes to exactly one line of lineLength characters.
	chunk := make([]byte, o.lineLength/4*3)
	line := make([]byte, o.lineLength+1)

	var total int64
	for {
		n, err := io.ReadFull(r, chunk)
		if n > 0 {
			total += int64(n)
			size := base64.StdEncoding.EncodedLen(n)
			base64.StdEncoding.Encode(line, chunk[:n])
			line[size] = '\n'
			if _, werr := bw.Write(line[:size+1]); werr != nil {
				return total, &EncodingError{Name: h.Name, Reason: "write body", Err: werr}
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return total, &EncodingError{Name: h.Name, Reason: "read source", Err: err}
		}
	}

	if _, err := bw.WriteString(Trailer + "\n"); err != nil {
		return total, &EncodingError{Name: h.Name, Reason: "write trailer", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return total, &EncodingError{Name: h.Name, Reason: "flush", Err: err}
	}
	return total, nil
}

// EncodeFile encodes the regular file at path into w. The payload header
// records name and the file's permission bits.
func EncodeFile(ctx context.Context, w io.Writer, path, name string, opts ...EncodeOption) (Header, int64, error) {
	if err := ctx.Err(); err != nil {
		return Header{}, 0, fmt.Errorf("encode canceled: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return Header{}, 0, classifyOpenError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Header{}, 0, &EncodingError{Name: name, Reason: "stat source", Err: err}
	}
	if !info.Mode().IsRegular() {
		return Header{}, 0, &SourceError{Path: path, Kind: ErrSourceNotFound, Err: errors.New("not a regular file")}
	}

	h := Header{Mode: info.Mode().Perm(), Name: name}
	n, err := Encode(w, f, h, opts...)
	return h, n, err
}

func classifyOpenError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &SourceError{Path: path, Kind: ErrSourceNotFound, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &SourceError{Path: path, Kind: ErrSourcePermission, Err: err}
	default:
		return &EncodingError{Reason: "open source", Err: err}
	}
}
