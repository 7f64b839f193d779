/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package export

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// Value is a decoded JSON value that keeps object keys in document order.
type Value struct {
	Kind   Kind
	Bool   bool
	Number json.Number
	String string
	Items  []Value
	Keys   []string
	Fields map[string]Value
}

// Parse decodes a single JSON document.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New("unexpected data after JSON document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Value{Kind: Null}, nil
	case bool:
		return Value{Kind: Bool, Bool: t}, nil
	case json.Number:
		return Value{Kind: Number, Number: t}, nil
	case string:
		return Value{Kind: String, String: t}, nil
	case json.Delim:
		switch t {
		case '[':
			v := Value{Kind: Array}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				v.Items = append(v.Items, item)
			}
			_, err := dec.Token()
			return v, err
		case '{':
			v := Value{Kind: Object, Fields: map[string]Value{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key := keyTok.(string)
				field, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if _, seen := v.Fields[key]; !seen {
					v.Keys = append(v.Keys, key)
				}
				v.Fields[key] = field
			}
			_, err := dec.Token()
			return v, err
		}
	}
	return Value{}, errors.Errorf("unexpected JSON token %v", tok)
}

// Float returns the numeric value, ok is false for non numbers.
func (v Value) Float() (float64, bool) {
	if v.Kind != Number {
		return 0, false
	}
	f, err := v.Number.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Text renders the value as a CSV cell.
func (v Value) Text() string {
	switch v.Kind {
	case Null:
		return ""
	case Bool:
		return strconv.FormatBool(v.Bool)
	case Number:
		return v.Number.String()
	case String:
		return v.String
	}

	var b strings.Builder
	v.writeJSON(&b)
	return b.String()
}

func (v Value) writeJSON(b *strings.Builder) {
	switch v.Kind {
	case Null:
		b.WriteString("null")
	case Bool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case Number:
		b.WriteString(v.Number.String())
	case String:
		quoted, _ := json.Marshal(v.String)
		b.Write(quoted)
	case Array:
		b.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			item.writeJSON(b)
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, key := range v.Keys {
			if i > 0 {
				b.WriteByte(',')
			}
			quoted, _ := json.Marshal(key)
			b.Write(quoted)
			b.WriteByte(':')
			v.Fields[key].writeJSON(b)
		}
		b.WriteByte('}')
	}
}
