/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nethesis/edge-downloader/models"
)

const filenameTimeLayout = "20060102_150405"

// Build flattens a JSON payload into a CSV export named after the endpoint.
func Build(endpointName string, payload []byte, now time.Time) (*models.Export, error) {
	v, err := Parse(payload)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode payload")
	}

	t := Flatten(v)
	AddReadableColumns(t)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, errors.Wrap(err, "cannot write csv")
	}

	return &models.Export{
		Filename: Filename(endpointName, now),
		Data:     buf.Bytes(),
		Rows:     len(t.Rows),
		Columns:  len(t.Columns),
	}, nil
}

// WriteCSV writes a header row followed by one record per table row.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Columns); err != nil {
		return err
	}

	for i := range t.Rows {
		if err := writer.Write(t.Cells(i)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Filename is <endpoint_name>_<YYYYMMDD_HHMMSS>.csv.
func Filename(endpointName string, now time.Time) string {
	name := strings.ToLower(strings.ReplaceAll(endpointName, " ", "_"))
	return name + "_" + now.Format(filenameTimeLayout) + ".csv"
}
