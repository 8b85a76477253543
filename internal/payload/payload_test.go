// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"testing/iotest"
)

var bodyLinePattern = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)

func allByteValues(repeat int) []byte {
	b := make([]byte, 0, 256*repeat)
	for range repeat {
		for i := range 256 {
			b = append(b, byte(i))
		}
	}
	return b
}

func randomBytes(n int) []byte {
	r := rand.New(rand.NewPCG(1, 2))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.UintN(256))
	}
	return b
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"single byte", []byte{0x42}},
		{"all zero", make([]byte, 1000)},
		{"all 0xFF", bytes.Repeat([]byte{0xFF}, 1000)},
		{"every byte value", allByteValues(3)},
		{"text with newlines", []byte("line one\nline two\r\n\tthird line\n")},
		{"one short of a full line", randomBytes(56)},
		{"exactly one line", randomBytes(57)},
		{"one over a full line", randomBytes(58)},
		{"random", randomBytes(100_000)},
	}

	lineLengths := []int{4, DefaultLineLength, MaxLineLength}

	for _, tt := range tests {
		for _, ll := range lineLengths {
			t.Run(fmt.Sprintf("%s/line length %d", tt.name, ll), func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer
				h := Header{Mode: 0o644, Name: "payload.bin"}
				n, err := Encode(&buf, bytes.NewReader(tt.data), h, WithLineLength(ll))
				if err != nil {
					t.Fatalf("Encode() error = %v", err)
				}
				if n != int64(len(tt.data)) {
					t.Errorf("Encode() = %d bytes, want %d", n, len(tt.data))
				}

				gotHeader, got, err := Decode(&buf)
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				if gotHeader != h {
					t.Errorf("Decode() header = %+v, want %+v", gotHeader, h)
				}
				if !bytes.Equal(got, tt.data) {
					t.Errorf("Decode() returned %d bytes that differ from the %d input bytes (line length %d)", len(got), len(tt.data), ll)
				}
			})
		}
	}
}

func TestEncode_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "four bytes",
			data: []byte{0x00, 0xFF, 0x41, 0x0A},
			want: "begin-base64 644 photo.bin\nAP9BCg==\n====\n",
		},
		{
			name: "empty file",
			data: nil,
			want: "begin-base64 644 photo.bin\n====\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if _, err := Encode(&buf, bytes.NewReader(tt.data), Header{Mode: 0o644, Name: "photo.bin"}); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Encode() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestEncode_BodyAlphabet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := Encode(&buf, bytes.NewReader(allByteValues(20)), Header{Mode: 0o600, Name: "x"}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[0] != "begin-base64 600 x" {
		t.Errorf("header = %q, want %q", lines[0], "begin-base64 600 x")
	}
	if lines[len(lines)-1] != Trailer {
		t.Errorf("last line = %q, want %q", lines[len(lines)-1], Trailer)
	}
	for i, line := range lines[1 : len(lines)-1] {
		if !bodyLinePattern.MatchString(line) {
			t.Errorf("body line %d = %q contains characters outside the base64 alphabet", i+1, line)
		}
		if len(line) > DefaultLineLength {
			t.Errorf("body line %d has %d characters, want at most %d", i+1, len(line), DefaultLineLength)
		}
	}
}

func TestEncode_InvalidLineLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -4, 3, 6, 77, MaxLineLength + 4} {
		var buf bytes.Buffer
		_, err := Encode(&buf, strings.NewReader("data"), Header{Mode: 0o644, Name: "x"}, WithLineLength(n))
		if !errors.Is(err, ErrInvalidLineLength) {
			t.Errorf("Encode(line length %d) error = %v, want ErrInvalidLineLength", n, err)
		}
		if buf.Len() != 0 {
			t.Errorf("Encode(line length %d) wrote %d bytes, want none", n, buf.Len())
		}
	}
}

func TestEncode_ReadError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk on fire")
	var buf bytes.Buffer
	_, err := Encode(&buf, iotest.ErrReader(cause), Header{Mode: 0o644, Name: "x"})
	if !errors.Is(err, ErrEncoding) {
		t.Errorf("Encode() error = %v, want ErrEncoding", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Encode() error = %v, want it to wrap the read error", err)
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain", "photo.bin", false},
		{"path", "/tmp/out/photo.bin", false},
		{"spaces", "my photo.bin", false},
		{"unicode", "фото.bin", false},
		{"empty", "", true},
		{"newline", "photo\n.bin", true},
		{"carriage return", "photo.bin\r", true},
		{"nul", "photo\x00.bin", true},
		{"tab", "photo\t.bin", true},
		{"delete", "photo\x7f", true},
		{"invalid utf-8", "photo\xff", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateName(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				var encErr *EncodingError
				if !errors.As(err, &encErr) {
					t.Errorf("error should be *EncodingError, got %T", err)
				}
				if !errors.Is(err, ErrEncoding) {
					t.Errorf("error should match ErrEncoding, got %v", err)
				}
			}
		})
	}
}

func TestEncode_RejectsNameBeforeWriting(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := Encode(&buf, strings.NewReader("data"), Header{Mode: 0o644, Name: "bad\nname"})
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("Encode() error = %v, want ErrEncoding", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Encode() wrote %q, want nothing", buf.String())
	}
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		want    Header
		wantErr bool
	}{
		{line: "begin-base64 644 photo.bin", want: Header{Mode: 0o644, Name: "photo.bin"}},
		{line: "begin-base64 755 my script.sh", want: Header{Mode: 0o755, Name: "my script.sh"}},
		{line: "begin-base64 000 x", want: Header{Mode: 0, Name: "x"}},
		{line: "begin 644 photo.bin", wantErr: true},
		{line: "begin-base64 644", wantErr: true},
		{line: "begin-base64 999 x", wantErr: true},
		{line: "begin-base64 1000 x", wantErr: true},
		{line: "begin-base64 644 ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			got, err := ParseHeader(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHeader(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHeader(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"wrong header", "begin 644 x\n====\n"},
		{"missing trailer", "begin-base64 644 x\nAP9BCg==\n"},
		{"invalid base64", "begin-base64 644 x\nA*9B\n====\n"},
		{"truncated quantum", "begin-base64 644 x\nAP9\n====\n"},
		{"data after padding", "begin-base64 644 x\nAP9BCg==\nAAAA\n====\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Decode() error = %v, want ErrMalformed", err)
			}
			var decErr *DecodeError
			if !errors.As(err, &decErr) || decErr.Line < 1 {
				t.Errorf("Decode() error = %#v, want *DecodeError with a line number", err)
			}
		})
	}
}

func TestDecode_ToleratesCRLFAndTrailingInput(t *testing.T) {
	t.Parallel()

	input := "begin-base64 644 photo.bin\r\nAP9BCg==\r\n====\r\nEMBEDSCRIPT_PAYLOAD_EOF\n"
	h, got, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if h.Name != "photo.bin" {
		t.Errorf("Decode() name = %q, want %q", h.Name, "photo.bin")
	}
	if want := []byte{0x00, 0xFF, 0x41, 0x0A}; !bytes.Equal(got, want) {
		t.Errorf("Decode() = %v, want %v", got, want)
	}
}

func TestEncodeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "photo.bin")
	data := []byte{0x00, 0xFF, 0x41, 0x0A}
	if err := os.WriteFile(src, data, 0o640); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	if err := os.Chmod(src, 0o640); err != nil {
		t.Fatalf("failed to chmod source: %v", err)
	}

	var buf bytes.Buffer
	h, n, err := EncodeFile(context.Background(), &buf, src, "restored.bin")
	if err != nil {
		t.Fatalf("EncodeFile() error = %v", err)
	}
	if n != int64(len(data)) {
		t.Errorf("EncodeFile() = %d bytes, want %d", n, len(data))
	}
	if want := (Header{Mode: 0o640, Name: "restored.bin"}); h != want {
		t.Errorf("EncodeFile() header = %+v, want %+v", h, want)
	}
	if !strings.HasPrefix(buf.String(), "begin-base64 640 restored.bin\n") {
		t.Errorf("EncodeFile() output = %q, want header for restored.bin", buf.String())
	}
}

func TestEncodeFile_SourceErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := EncodeFile(context.Background(), &bytes.Buffer{}, filepath.Join(dir, "nope"), "nope")
		if !errors.Is(err, ErrSourceNotFound) {
			t.Errorf("EncodeFile() error = %v, want ErrSourceNotFound", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("EncodeFile() error = %v, want it to wrap fs.ErrNotExist", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := EncodeFile(context.Background(), &bytes.Buffer{}, dir, "dir")
		if !errors.Is(err, ErrSourceNotFound) {
			t.Errorf("EncodeFile() error = %v, want ErrSourceNotFound", err)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		t.Parallel()

		if os.Geteuid() == 0 {
			t.Skip("root can read files regardless of mode")
		}
		src := filepath.Join(dir, "secret.bin")
		if err := os.WriteFile(src, []byte("x"), 0o000); err != nil {
			t.Fatalf("failed to write source: %v", err)
		}
		_, _, err := EncodeFile(context.Background(), &bytes.Buffer{}, src, "secret.bin")
		if !errors.Is(err, ErrSourcePermission) {
			t.Errorf("EncodeFile() error = %v, want ErrSourcePermission", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := EncodeFile(ctx, &bytes.Buffer{}, filepath.Join(dir, "nope"), "nope")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("EncodeFile() error = %v, want context.Canceled", err)
		}
	})
}
