package domain

import "time"

// ImportStats holds statistics from an import
type ImportStats struct {
	Containers       int
	DocumentsAdded   int
	DocumentsUpdated int
	DocumentsKept    int
	DocumentsGone    int
	LoadFailures     int
	Duration         time.Duration
}
