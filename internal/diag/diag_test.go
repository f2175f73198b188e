package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "INFO", SevInfo.String())
	assert.Equal(t, "WARNING", SevWarning.String())
	assert.Equal(t, "FATAL", SevFatal.String())
	assert.Equal(t, "UNKNOWN", Severity(42).String())
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SevWarning, Code: CodeSurvivorRatio, Message: "3 vs 5"}
	assert.Equal(t, "WARNING inconsistent-survivor-ratio: 3 vs 5", d.String())
}

func TestBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 bytes"},
		{512, "512 bytes"},
		{4096, "4,096 bytes (4 KiB)"},
		{1 << 21, "2,097,152 bytes (2 MiB)"},
		{3 << 30, "3,221,225,472 bytes (3 GiB)"},
		{1<<20 + 1, "1,048,577 bytes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bytes(tt.in))
	}
}
