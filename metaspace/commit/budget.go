package commit

import (
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/joshuapare/heapkit/internal/align"
	"github.com/joshuapare/heapkit/internal/invariant"
)

const (
	// Unlimited is the ceiling used when no maximum size is configured.
	Unlimited = math.MaxUint64

	// DefaultInitialThreshold is the GC threshold a Budget starts with.
	DefaultInitialThreshold = 21 << 20

	// DefaultGranule is the commit granule used by CeilingFromMaxSize
	// and ThresholdPolicy.
	DefaultGranule = 64 << 10
)

// Options configures a Budget.
type Options struct {
	// Ceiling is the hard cap in bytes. Zero means Unlimited.
	// Default: Unlimited
	Ceiling uint64

	// InitialThreshold is the GC threshold in bytes until the collection
	// policy publishes another one. Zero means the default.
	// Default: 21 MiB
	InitialThreshold uint64

	// Logger receives a debug record for every decision.
	// Default: discard
	Logger *slog.Logger
}

// DefaultOptions returns Options with an unlimited ceiling and the default
// initial threshold.
func DefaultOptions() *Options {
	return &Options{
		Ceiling:          Unlimited,
		InitialThreshold: DefaultInitialThreshold,
	}
}

// CeilingFromMaxSize turns a configured maximum metadata size into a hard
// ceiling: a whole number of granules, or Unlimited when maxSize is zero.
func CeilingFromMaxSize(maxSize, granule uint64) (uint64, error) {
	if !align.IsPowerOfTwo(granule) {
		return 0, ErrBadGranule
	}
	if maxSize == 0 {
		return Unlimited, nil
	}
	return align.Down(maxSize, granule), nil
}

// Outcome tags a Grant.
type Outcome uint8

const (
	// Denied means nothing was committed; the caller should collect or
	// escalate before retrying.
	Denied Outcome = iota

	// Granted means Grant.Amount bytes were committed.
	Granted
)

func (o Outcome) String() string {
	switch o {
	case Denied:
		return "denied"
	case Granted:
		return "granted"
	default:
		return "unknown"
	}
}

// Grant is the result of an increase request.
type Grant struct {
	Outcome Outcome
	// Amount is the number of bytes committed: preferred, min, or 0.
	Amount uint64
	// Committed is the budget's committed total right after the decision.
	Committed uint64
}

// Granted reports whether anything was committed.
func (g Grant) Granted() bool { return g.Outcome == Granted }

// Stats counts decisions made by a Budget.
type Stats struct {
	Grants        uint64 // requests granted their preferred size
	PartialGrants uint64 // requests granted only their minimum size
	Denials       uint64
	Decreases     uint64
	HighWater     uint64 // largest committed total observed
}

// Budget is the process-wide commit account of a metadata arena. Create one
// with New and pass it to every caller; there is no package-level instance.
type Budget struct {
	mu        sync.Mutex
	committed uint64 // guarded by mu
	stats     Stats  // guarded by mu

	threshold atomic.Uint64
	ceiling   uint64
	log       *slog.Logger
}

// New creates a Budget with nothing committed.
func New(opts *Options) *Budget {
	if opts == nil {
		opts = DefaultOptions()
	}
	b := &Budget{
		ceiling: opts.Ceiling,
		log:     opts.Logger,
	}
	if b.ceiling == 0 {
		b.ceiling = Unlimited
	}
	if b.log == nil {
		b.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	threshold := opts.InitialThreshold
	if threshold == 0 {
		threshold = DefaultInitialThreshold
	}
	b.threshold.Store(threshold)
	return b
}

// TryIncrease asks to commit preferred bytes, or at least min bytes. It takes
// the budget's lock itself; callers already holding it use Held.TryIncrease.
func (b *Budget) TryIncrease(minSize, preferredSize uint64) Grant {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tryIncreaseLocked(minSize, preferredSize)
}

// Decrease uncommits size bytes. size must not exceed the committed total.
func (b *Budget) Decrease(size uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.decreaseLocked(size)
}

// Lock acquires the budget's lock and returns the handle that carries the
// locked operations. The caller must call Unlock on it.
func (b *Budget) Lock() *Held {
	b.mu.Lock()
	return &Held{b: b}
}

// Committed returns the bytes currently committed.
func (b *Budget) Committed() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.committed
}

// Threshold returns the current GC threshold.
func (b *Budget) Threshold() uint64 { return b.threshold.Load() }

// SetThreshold publishes a new GC threshold. Requests decided after
// SetThreshold returns see the new value.
func (b *Budget) SetThreshold(v uint64) {
	old := b.threshold.Swap(v)
	b.log.Debug("gc threshold published", "old", old, "new", v)
}

// Ceiling returns the hard cap.
func (b *Budget) Ceiling() uint64 { return b.ceiling }

// AllowedExpansion returns how many more bytes could be committed right now
// before hitting either cap.
func (b *Budget) AllowedExpansion() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	limit := b.limit()
	if b.committed >= limit {
		return 0
	}
	return limit - b.committed
}

// Stats returns a snapshot of the decision counters.
func (b *Budget) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// limit is the tighter of the two caps. Caller holds mu.
func (b *Budget) limit() uint64 {
	return min(b.threshold.Load(), b.ceiling)
}

// fits reports whether committing n more bytes stays within limit without
// overflowing. Caller holds mu.
func (b *Budget) fits(n, limit uint64) bool {
	return b.committed <= limit && n <= limit-b.committed
}

func (b *Budget) tryIncreaseLocked(minSize, preferredSize uint64) Grant {
	invariant.Check(preferredSize > 0, "preferred size must be positive")
	invariant.Check(minSize <= preferredSize,
		"min size %d above preferred size %d", minSize, preferredSize)

	limit := b.limit()
	var amount uint64
	switch {
	case b.fits(preferredSize, limit):
		amount = preferredSize
		b.stats.Grants++
	case minSize > 0 && b.fits(minSize, limit):
		amount = minSize
		b.stats.PartialGrants++
	default:
		b.stats.Denials++
		b.log.Debug("commit denied",
			"min", minSize, "preferred", preferredSize,
			"committed", b.committed, "limit", limit)
		return Grant{Outcome: Denied, Committed: b.committed}
	}

	b.committed += amount
	invariant.Check(b.committed <= b.ceiling,
		"committed %d exceeds ceiling %d", b.committed, b.ceiling)
	b.stats.HighWater = max(b.stats.HighWater, b.committed)
	b.log.Debug("commit granted",
		"amount", amount, "committed", b.committed, "limit", limit)
	return Grant{Outcome: Granted, Amount: amount, Committed: b.committed}
}

func (b *Budget) decreaseLocked(size uint64) {
	invariant.Check(size <= b.committed,
		"decrease %d exceeds committed %d", size, b.committed)
	b.committed -= size
	b.stats.Decreases++
	b.log.Debug("commit decreased", "size", size, "committed", b.committed)
}

// Held is proof that the caller holds a Budget's lock. It is obtained from
// Budget.Lock and is valid until Unlock.
type Held struct {
	b        *Budget
	released bool
}

// TryIncrease is Budget.TryIncrease for a caller that already holds the lock.
// It never reacquires it.
func (h *Held) TryIncrease(minSize, preferredSize uint64) Grant {
	h.check()
	return h.b.tryIncreaseLocked(minSize, preferredSize)
}

// Decrease is Budget.Decrease for a caller that already holds the lock.
func (h *Held) Decrease(size uint64) {
	h.check()
	h.b.decreaseLocked(size)
}

// Committed returns the committed total as seen under the lock.
func (h *Held) Committed() uint64 {
	h.check()
	return h.b.committed
}

// Unlock releases the lock. The handle is unusable afterwards.
func (h *Held) Unlock() {
	h.check()
	h.released = true
	h.b.mu.Unlock()
}

func (h *Held) check() {
	invariant.Check(!h.released, "commit budget handle used after Unlock")
}
