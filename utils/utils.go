/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package utils

import (
	"github.com/nethesis/edge-downloader/logs"
)

// Contains reports whether value is one of values.
func Contains(value string, values []string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func LogError(err error) {
	logs.Logs.Output(2, "[ERR] "+err.Error())
}
