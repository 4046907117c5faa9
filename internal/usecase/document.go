package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/labellens/backend/internal/domain"
)

// nonFiniteLiterals maps the bare literals NaN, Infinity and -Infinity to the
// quoted placeholders they are rewritten to before decoding. The NUL bytes
// keep the placeholders apart from any text a model would write.
var nonFiniteLiterals = []struct {
	literal string
	quoted  string // placeholder as JSON text
	decoded string // placeholder as decoded by encoding/json
	value   float64
}{
	{"-Infinity", `"\u0000-Inf\u0000"`, "\x00-Inf\x00", math.Inf(-1)},
	{"Infinity", `"\u0000+Inf\u0000"`, "\x00+Inf\x00", math.Inf(1)},
	{"NaN", `"\u0000NaN\u0000"`, "\x00NaN\x00", math.NaN()},
}

// DecodeDocument decodes JSON text into ordered values: objects become
// domain.Object, arrays []any and numbers float64. Numbers too large for a
// float64 decode to +Inf or -Inf instead of failing, and the bare literals
// NaN, Infinity and -Infinity are accepted as the matching float64 values.
func DecodeDocument(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(quoteNonFinite(data)))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after top-level value")
		}
		return nil, err
	}

	return value, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("invalid number %q: %w", t, err)
		}
		return f, nil
	case string:
		for _, nf := range nonFiniteLiterals {
			if t == nf.decoded {
				return nf.value, nil
			}
		}
		return t, nil
	default:
		// bool or nil
		return t, nil
	}
}

// quoteNonFinite replaces NaN, Infinity and -Infinity outside of strings with
// quoted placeholders that decodeValue turns back into floats
func quoteNonFinite(data []byte) []byte {
	var out bytes.Buffer
	inString, escaped := false, false

	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out.WriteByte(c)
			continue
		}
		if matched := matchNonFinite(data, i); matched >= 0 {
			nf := nonFiniteLiterals[matched]
			out.WriteString(nf.quoted)
			i += len(nf.literal) - 1
			continue
		}
		out.WriteByte(c)
	}
	return out.Bytes()
}

// matchNonFinite returns the index in nonFiniteLiterals of the literal that
// starts at data[i] as a whole word, or -1
func matchNonFinite(data []byte, i int) int {
	if i > 0 && isWordByte(data[i-1]) {
		return -1
	}
	for idx, nf := range nonFiniteLiterals {
		end := i + len(nf.literal)
		if !bytes.HasPrefix(data[i:], []byte(nf.literal)) {
			continue
		}
		if end < len(data) && isWordByte(data[end]) {
			continue
		}
		return idx
	}
	return -1
}

func isNonFinitePlaceholder(s string) bool {
	for _, nf := range nonFiniteLiterals {
		if s == nf.decoded {
			return true
		}
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '+' || c == '-' ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func decodeObject(dec *json.Decoder) (domain.Object, error) {
	obj := domain.Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok || isNonFinitePlaceholder(key) {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj = obj.Set(key, value)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}
