package sizing

import (
	"bytes"
	"testing"

	"github.com/joshuapare/heapkit/internal/osmem"
)

const (
	kb = 1 << 10
	mb = 1 << 20
	gb = 1 << 30
)

// testHost returns a host with 4KB base pages, the given physical memory
// and, optionally, large pages. The first large size is the default one.
func testHost(phys uint64, large ...uint64) osmem.Info {
	var def uint64
	if len(large) > 0 {
		def = large[0]
	}
	return osmem.Info{
		PageSize:       4 * kb,
		LargePageSize:  def,
		Sizes:          osmem.NewPageSizes(append([]uint64{4 * kb}, large...)...),
		PhysicalMemory: phys,
	}
}

// newTestPolicy builds a Policy with four workers and a captured error stream.
func newTestPolicy(t testing.TB, cfg Config, host osmem.Info) (*Policy, *bytes.Buffer) {
	t.Helper()
	var stderr bytes.Buffer
	p := NewPolicy(cfg, &Options{
		Pages:       host,
		Workers:     FixedWorkers(4),
		ErrorStream: &stderr,
	})
	return p, &stderr
}
