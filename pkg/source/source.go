// Package source loads statute text from files and standard input,
// decoding legacy Japanese encodings and rejecting invalid text before it
// reaches the extractor.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidEncoding is returned when input is not valid text in the
// requested encoding.
var ErrInvalidEncoding = errors.New("input is not valid text")

var (
	utf8BOM         = []byte("\uFEFF")
	replacementChar = []byte("\uFFFD")
)

// Encoding names accepted by Decode.
const (
	EncodingUTF8      = "utf-8"
	EncodingShiftJIS  = "shift_jis"
	EncodingEUCJP     = "euc-jp"
	EncodingISO2022JP = "iso-2022-jp"
)

// SupportedEncodings lists the encoding names Decode accepts.
var SupportedEncodings = []string{EncodingUTF8, EncodingShiftJIS, EncodingEUCJP, EncodingISO2022JP}

// lookupEncoding maps a name (case-insensitive, with common aliases) to
// its decoder.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "shift_jis", "shift-jis", "sjis", "cp932":
		return japanese.ShiftJIS, nil
	case "euc-jp", "eucjp":
		return japanese.EUCJP, nil
	case "iso-2022-jp", "jis":
		return japanese.ISO2022JP, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// ValidateEncoding reports whether name is an encoding Decode accepts.
func ValidateEncoding(name string) error {
	_, err := lookupEncoding(name)
	return err
}

// Decode converts data in the named encoding to a UTF-8 string. A UTF-8
// byte order mark is removed. Invalid input yields ErrInvalidEncoding.
func Decode(data []byte, encodingName string) (string, error) {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return "", err
	}

	if enc == unicode.UTF8BOM {
		if !utf8.Valid(bytes.TrimPrefix(data, utf8BOM)) {
			return "", fmt.Errorf("%w: not valid UTF-8", ErrInvalidEncoding)
		}
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("%w: decoding %s: %v", ErrInvalidEncoding, encodingName, err)
	}
	// Decoders substitute U+FFFD for undecodable bytes.
	if bytes.Count(decoded, replacementChar) > bytes.Count(data, replacementChar) {
		return "", fmt.Errorf("%w: undecodable bytes for %s", ErrInvalidEncoding, encodingName)
	}

	return normalizeNewlines(string(decoded)), nil
}

// ReadFile reads and decodes the file at path.
func ReadFile(path, encodingName string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	text, err := Decode(data, encodingName)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// Read reads and decodes all of r.
func Read(r io.Reader, encodingName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return Decode(data, encodingName)
}

func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
