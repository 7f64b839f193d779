/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package logs

import (
	"fmt"
	"io"
	"log"
	"os"
)

var Logs = log.New(os.Stderr, "edge-downloader ", log.Ldate|log.Ltime|log.Lshortfile)

func Init(name string) {
	Logs = log.New(os.Stderr, name+" ", log.Ldate|log.Ltime|log.Lshortfile)
}

// SetOutput redirects the operator log stream, tests use it to capture lines.
func SetOutput(w io.Writer) {
	Logs.SetOutput(w)
}

func Log(message string) {
	Logs.Output(2, message)
}

func Logf(format string, args ...interface{}) {
	Logs.Output(2, fmt.Sprintf(format, args...))
}
