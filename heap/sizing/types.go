package sizing

import (
	"io"
	"log/slog"
	"math/bits"
	"os"

	"github.com/joshuapare/heapkit/heap/flags"
	"github.com/joshuapare/heapkit/internal/osmem"
)

const (
	// WordSize is the size of a heap word in bytes.
	WordSize = bits.UintSize / 8

	// SpaceAlignmentWords is the default generation alignment in words.
	SpaceAlignmentWords = 64 * 1024

	// MinRegionPages is the fewest pages a minimum heap must hold: one eden,
	// two survivors and one old region.
	MinRegionPages = 4

	// DefaultCardSize is the card table granularity in bytes.
	DefaultCardSize = 512
)

const (
	mib = 1 << 20

	// Heap size floors.
	minMaxHeapBytes     = 2 * mib
	minInitialHeapBytes = 1 * mib
	minMinHeapBytes     = 1 * mib

	// defaultMinHeapCap bounds the ergonomic minimum heap.
	defaultMinHeapCap = 8 * mib

	// fallbackMaxHeapBytes is used when physical memory is unknown.
	fallbackMaxHeapBytes = 128 * mib
)

// Words is a size measured in heap words.
type Words uint64

// Bytes returns the size in bytes.
func (w Words) Bytes() uint64 { return uint64(w) * WordSize }

// WordsOf converts a byte count to words, rounding down.
func WordsOf(bytes uint64) Words { return Words(bytes / WordSize) }

// PageSource reports the host's page geometry. *osmem.Info satisfies it.
type PageSource interface {
	// PageSizeForRegionAligned returns the page size a region of regionSize
	// bytes holding at least minPages pages must be backed with.
	PageSizeForRegionAligned(regionSize, minPages uint64, useLarge bool) uint64

	// VMPageSize returns the base page size.
	VMPageSize() uint64

	// LargePage returns the default large page size, or 0.
	LargePage() uint64

	// TotalMemory returns physical memory in bytes, or 0 when unknown.
	TotalMemory() uint64
}

// Config is the provenance-tagged input to a Policy.
type Config struct {
	// Heap sizes in words.
	// Default: derived from physical memory
	MinHeapSize     flags.Value[Words]
	InitialHeapSize flags.Value[Words]
	MaxHeapSize     flags.Value[Words]

	// SurvivorRatio is the unified eden/survivor ratio knob.
	// Default: 8
	SurvivorRatio flags.Value[uint]

	// InitialSurvivorRatio is the young/survivor ratio the heap starts with.
	// Default: 8
	InitialSurvivorRatio flags.Value[uint]

	// MinSurvivorRatio bounds how small survivors may shrink.
	// Default: 5
	MinSurvivorRatio flags.Value[uint]

	// NewRatio is the old/young generation ratio.
	// Default: 2
	NewRatio flags.Value[uint]

	// ParallelGCThreads is the collector worker count; consulted by
	// DefaultWorkers when configured.
	// Default: derived from the CPU count
	ParallelGCThreads flags.Value[uint]

	// CardSize is the card table granularity in bytes, a power of two.
	// Default: 512
	CardSize uint64

	// RegionGranularity is an extra heap alignment imposed by a regionized
	// layout, a power of two. Zero means none.
	// Default: 0
	RegionGranularity uint64

	// UseLargePages lets the heap be backed by large pages.
	// Default: false
	UseLargePages bool

	// MaxRAMFraction divides physical memory for the default maximum heap.
	// Default: 4
	MaxRAMFraction uint64

	// InitialRAMFraction divides physical memory for the default initial heap.
	// Default: 64
	InitialRAMFraction uint64
}

// DefaultConfig returns a Config with every value at its built-in default.
func DefaultConfig() Config {
	return Config{
		MinHeapSize:          flags.DefaultValue[Words](0),
		InitialHeapSize:      flags.DefaultValue[Words](0),
		MaxHeapSize:          flags.DefaultValue[Words](0),
		SurvivorRatio:        flags.DefaultValue[uint](8),
		InitialSurvivorRatio: flags.DefaultValue[uint](8),
		MinSurvivorRatio:     flags.DefaultValue[uint](5),
		NewRatio:             flags.DefaultValue[uint](2),
		ParallelGCThreads:    flags.DefaultValue[uint](0),
		CardSize:             DefaultCardSize,
		MaxRAMFraction:       4,
		InitialRAMFraction:   64,
	}
}

// Options configures a Policy's collaborators.
type Options struct {
	// Pages supplies page geometry.
	// Default: osmem.Probe()
	Pages PageSource

	// Workers supplies the parallel worker count.
	// Default: DefaultWorkers for Config.ParallelGCThreads
	Workers WorkerPolicy

	// Logger receives structured records of every adjustment.
	// Default: discard
	Logger *slog.Logger

	// ErrorStream receives human-readable warnings and the fatal diagnostic.
	// Default: os.Stderr
	ErrorStream io.Writer
}

// DefaultOptions returns Options probing the running host.
func DefaultOptions() *Options {
	return &Options{
		Pages:       osmem.Probe(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ErrorStream: os.Stderr,
	}
}

// SizeParameters is the finalized heap geometry. It is produced by a Policy
// and read-only afterwards.
type SizeParameters struct {
	MinHeapSize     flags.Value[Words]
	InitialHeapSize flags.Value[Words]
	MaxHeapSize     flags.Value[Words]

	// SpaceAlignment is the generation alignment in bytes.
	SpaceAlignment uint64

	// HeapAlignment is the whole-heap alignment in bytes, a multiple of
	// SpaceAlignment.
	HeapAlignment uint64

	SurvivorRatio        flags.Value[uint]
	InitialSurvivorRatio flags.Value[uint]
	MinSurvivorRatio     flags.Value[uint]
	NewRatio             flags.Value[uint]

	// ParallelWorkers is the collector worker count.
	ParallelWorkers uint

	// Passes is how many base sizing passes ran (1 or 2).
	Passes int
}
