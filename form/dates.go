/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package form

import (
	"time"
)

const DateLayout = "2006-01-02"

// DateRange is a pair of calendar days interpreted in UTC. Start after End is allowed
// and passed through to the API unchanged.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange keeps only the calendar day of start and end.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: day(start), End: day(end)}
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days is end minus start in whole days.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start) / (24 * time.Hour))
}

// StartEpoch is the first second of the start day.
func (r DateRange) StartEpoch() int64 {
	return r.Start.Unix()
}

// EndEpoch is the last whole second of the end day.
func (r DateRange) EndEpoch() int64 {
	return r.End.Add(24*time.Hour - time.Microsecond).Unix()
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + "/" + r.End.Format(DateLayout)
}

// GranularityOptions returns the bucket sizes offered for a span of days.
func GranularityOptions(days int) []string {
	switch {
	case days < 1:
		return []string{"1m", "5m", "15m", "1h", "daily"}
	case days <= 7:
		return []string{"15m", "1h", "daily"}
	default:
		return []string{"1h", "daily"}
	}
}
