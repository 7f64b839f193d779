/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeOK
	OutcomeConfigError
	OutcomeAuthError
	OutcomeValidationError
	OutcomeTransportError
	OutcomeAPIError
	OutcomeEmpty
	OutcomeUnexpected
)

// Outcome is the result of one user action as shown by the interface.
type Outcome struct {
	Kind     OutcomeKind
	Messages []string
	Export   *Export
}

// Level maps the outcome to the banner style used by the views.
func (o Outcome) Level() string {
	switch o.Kind {
	case OutcomeOK:
		return "success"
	case OutcomeEmpty:
		return "info"
	case OutcomeConfigError, OutcomeAuthError, OutcomeValidationError,
		OutcomeTransportError, OutcomeAPIError, OutcomeUnexpected:
		return "error"
	case OutcomeNone:
		return ""
	}
	return "error"
}

func (o Outcome) IsError() bool {
	return o.Level() == "error"
}

// Export is one CSV artifact produced by a successful fetch.
type Export struct {
	Filename string
	Data     []byte
	Rows     int
	Columns  int
}
