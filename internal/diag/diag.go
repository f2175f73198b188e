// Package diag carries the non-fatal diagnostics produced while sizing the
// heap, and formats byte counts for humans.
package diag

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SevInfo    Severity = iota // Informational (a value was adjusted ergonomically)
	SevWarning                 // Inconsistent configuration was overridden
	SevFatal                   // Configuration cannot be used, the process must stop
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Code identifies the kind of diagnostic.
type Code string

const (
	CodeSurvivorRatio Code = "inconsistent-survivor-ratio"
	CodeHeapAdjusted  Code = "heap-size-adjusted"
	CodeAlignment     Code = "space-alignment-raised"
	CodeNoWorkers     Code = "no-parallel-workers"
)

// Diagnostic is a single message emitted during initialization.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
}

var printer = message.NewPrinter(language.English)

// Bytes formats n with digit grouping and, when n is a whole number of a
// binary unit, that unit as well.
//
// Example:
//
//	Bytes(512)     = "512 bytes"
//	Bytes(2097152) = "2,097,152 bytes (2 MiB)"
func Bytes(n uint64) string {
	exact := printer.Sprintf("%d bytes", n)
	units := []struct {
		shift uint
		name  string
	}{
		{40, "TiB"},
		{30, "GiB"},
		{20, "MiB"},
		{10, "KiB"},
	}
	for _, u := range units {
		size := uint64(1) << u.shift
		if n >= size && n%size == 0 {
			return printer.Sprintf("%s (%d %s)", exact, n/size, u.name)
		}
	}
	return exact
}
