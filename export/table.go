/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package export

import (
	"math"
	"strings"
	"time"
)

// Separator joins nested object keys into column names.
const Separator = "."

// ReadableSuffix marks columns derived from epoch seconds.
const ReadableSuffix = "_readable"

var timeMarkers = []string{"time", "date", "epoch"}

// earliest and latest epoch seconds that render as a four digit year
const (
	minEpoch = -62135596800
	maxEpoch = 253402300799
)

// Table is a flat view of a JSON payload, one row per top-level element. Columns keep
// first-seen order.
type Table struct {
	Columns []string
	Rows    []map[string]Value
	seen    map[string]bool
}

func newTable() *Table {
	return &Table{seen: map[string]bool{}}
}

func (t *Table) addColumn(name string) {
	if !t.seen[name] {
		t.seen[name] = true
		t.Columns = append(t.Columns, name)
	}
}

// Cells returns row i in column order.
func (t *Table) Cells(i int) []string {
	cells := make([]string, len(t.Columns))
	for j, column := range t.Columns {
		cells[j] = t.Rows[i][column].Text()
	}
	return cells
}

// Flatten turns an array of objects, or a single object, into a table. Nested objects
// become dotted columns; arrays stay in one cell as JSON.
func Flatten(v Value) *Table {
	t := newTable()

	switch v.Kind {
	case Null:
	case Array:
		for _, item := range v.Items {
			t.addRow(item)
		}
	default:
		t.addRow(v)
	}

	return t
}

func (t *Table) addRow(item Value) {
	row := map[string]Value{}
	if item.Kind == Object {
		t.flattenObject("", item, row)
	} else {
		t.addColumn("value")
		row["value"] = item
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) flattenObject(prefix string, obj Value, row map[string]Value) {
	for _, key := range obj.Keys {
		name := key
		if prefix != "" {
			name = prefix + Separator + key
		}

		field := obj.Fields[key]
		if field.Kind == Object && len(field.Keys) > 0 {
			t.flattenObject(name, field, row)
			continue
		}

		t.addColumn(name)
		row[name] = field
	}
}

// IsTimeColumn matches column names that may hold epoch seconds.
func IsTimeColumn(name string) bool {
	for _, marker := range timeMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

func (t *Table) hasNumber(column string) bool {
	for _, row := range t.Rows {
		if row[column].Kind == Number {
			return true
		}
	}
	return false
}

// AddReadableColumns appends a <column>_readable column for every time-like column that
// holds numbers. Values that are not valid epoch seconds become empty cells.
func AddReadableColumns(t *Table) {
	columns := append([]string(nil), t.Columns...)
	for _, column := range columns {
		if !IsTimeColumn(column) || !t.hasNumber(column) {
			continue
		}

		derived := column + ReadableSuffix
		t.addColumn(derived)
		for _, row := range t.Rows {
			row[derived] = readable(row[column])
		}
	}
}

func readable(v Value) Value {
	if v.Kind != Number {
		return Value{Kind: Null}
	}

	var ts time.Time
	if sec, err := v.Number.Int64(); err == nil {
		if sec < minEpoch || sec > maxEpoch {
			return Value{Kind: Null}
		}
		ts = time.Unix(sec, 0)
	} else {
		f, ok := v.Float()
		if !ok || math.IsNaN(f) || f < minEpoch || f > maxEpoch {
			return Value{Kind: Null}
		}
		whole := math.Floor(f)
		ts = time.Unix(int64(whole), int64((f-whole)*1e9))
	}

	return Value{Kind: String, String: ts.UTC().Format(time.RFC3339Nano)}
}
