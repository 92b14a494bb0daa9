package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

const valueField = "value"

var (
	errNotObject      = errors.New("body is not a JSON object")
	errMissingValue   = errors.New(`missing field "value"`)
	errDuplicateValue = errors.New(`duplicate field "value"`)
	errLoneSurrogate  = errors.New("value contains an unpaired surrogate escape")
)

// decodeValue reads the whole body and extracts the "value" field.
//
// The field name must match exactly and appear once; encoding/json's
// case-insensitive matching would otherwise accept "Value" or "VALUE".
// Other fields are skipped. The value must be a JSON string whose \u escapes
// form valid UTF-16, since a lone surrogate would be stored as U+FFFD.
func decodeValue(body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("body is not valid utf-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", errNotObject
	}

	var raw json.RawMessage
	seen := false
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("decode body: %w", err)
		}
		name, _ := tok.(string)

		var field json.RawMessage
		if err := dec.Decode(&field); err != nil {
			return "", fmt.Errorf("decode field %q: %w", name, err)
		}
		if name != valueField {
			continue
		}
		if seen {
			return "", errDuplicateValue
		}
		seen = true
		raw = field
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return "", fmt.Errorf("decode body: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return "", fmt.Errorf("decode body: trailing data after object")
	}

	if !seen {
		return "", errMissingValue
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("decode value: %w", err)
	}
	if v == nil {
		return "", errMissingValue
	}
	if hasLoneSurrogate(raw) {
		return "", errLoneSurrogate
	}
	return *v, nil
}

// hasLoneSurrogate reports whether the JSON string literal raw contains a
// \uXXXX escape for a surrogate half that is not part of a valid pair.
// raw must already be a well-formed JSON string.
func hasLoneSurrogate(raw []byte) bool {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			continue
		}
		if i+1 >= len(raw) || raw[i+1] != 'u' {
			i++ // skip the escaped character
			continue
		}
		r, ok := hexRune(raw, i+2)
		if !ok {
			return true
		}
		i += 5
		if !utf16.IsSurrogate(r) {
			continue
		}
		if r >= 0xDC00 {
			return true // low half with no preceding high half
		}
		if i+2 >= len(raw) || raw[i+1] != '\\' || raw[i+2] != 'u' {
			return true
		}
		lo, ok := hexRune(raw, i+3)
		if !ok || utf16.DecodeRune(r, lo) == utf8.RuneError {
			return true
		}
		i += 6
	}
	return false
}

// hexRune parses the four hex digits of a \u escape starting at raw[at].
func hexRune(raw []byte, at int) (rune, bool) {
	if at+4 > len(raw) {
		return 0, false
	}
	n, err := strconv.ParseUint(string(raw[at:at+4]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
