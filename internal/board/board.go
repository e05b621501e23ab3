// Package board holds the most recent analysed prediction board.
//
// Loads may overlap. Each Load takes a generation token before fetching and
// its result becomes current only if no newer Load started in the meantime,
// so a slow response can never replace a fresher one.
package board

import (
	"context"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/notiabet/internal/analysis"
	"github.com/yourusername/notiabet/internal/logger"
	"github.com/yourusername/notiabet/internal/metrics"
	"github.com/yourusername/notiabet/internal/ml"
	"github.com/yourusername/notiabet/internal/timebucket"
)

// DefaultTTL is how long a fetched board is served from cache.
const DefaultTTL = 60 * time.Second

// Fetcher retrieves predictions. *ml.Client satisfies it.
type Fetcher interface {
	GetPredictions(ctx context.Context, day timebucket.DayKey, sportsbook string) *ml.Result
	DefaultSportsbook() string
}

// Snapshot is one analysed fetch.
type Snapshot struct {
	Day         timebucket.DayKey      `json:"day"`
	Sportsbook  string                 `json:"sportsbook"`
	Source      ml.Source              `json:"source"`
	Outcome     ml.Outcome             `json:"outcome"`
	GeneratedAt string                 `json:"generated_at"`
	FetchedAt   time.Time              `json:"fetched_at"`
	Sequence    uint64                 `json:"sequence"`
	Generation  uint64                 `json:"generation"`
	Games       []analysis.GameInsight `json:"games"`
	Summary     analysis.Summary       `json:"summary"`
}

// Board owns the current snapshot and a per (day, sportsbook) cache.
type Board struct {
	fetcher Fetcher
	opts    analysis.Options
	cache   *cache.Cache
	log     *logger.ServerLogger
	stale   *logger.RetrievalLogger
	now     func() time.Time

	mu         sync.RWMutex
	generation uint64
	current    *Snapshot
}

// New creates a board. A non-positive ttl means DefaultTTL.
func New(fetcher Fetcher, opts analysis.Options, ttl time.Duration, log *logrus.Logger) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{
		fetcher: fetcher,
		opts:    opts,
		cache:   cache.New(ttl, ttl*2),
		log:     logger.NewServerLogger(log),
		stale:   logger.NewRetrievalLogger(log),
		now:     time.Now,
	}
}

// Load fetches and analyses a board. Only live snapshots are cached;
// current reports whether the snapshot also became the current board.
func (b *Board) Load(ctx context.Context, day timebucket.DayKey, sportsbook string) (*Snapshot, bool) {
	b.mu.Lock()
	b.generation++
	generation := b.generation
	b.mu.Unlock()

	res := b.fetcher.GetPredictions(ctx, day, sportsbook)
	snap := b.build(res, generation)

	// Fallback and mock boards are never cached; the next request asks the client again.
	if res.Source == ml.SourceLive {
		b.cache.SetDefault(cacheKey(snap.Day, snap.Sportsbook), snap)
	}

	b.mu.Lock()
	latest := b.generation
	current := generation == latest
	if current {
		b.current = snap
	}
	b.mu.Unlock()

	if !current {
		b.stale.LogStaleResult(snap.Day.String(), generation, latest)
	}
	b.log.LogBoardRefresh(snap.Day.String(), snap.Sportsbook, string(snap.Source), len(snap.Games), current)
	metrics.RecordBoardLoad(string(snap.Source), snap.Summary.Games, snap.Summary.ValuePicks, current)

	return snap, current
}

// Get returns the cached board for day and sportsbook, loading it on a miss.
func (b *Board) Get(ctx context.Context, day timebucket.DayKey, sportsbook string) *Snapshot {
	if snap, ok := b.Cached(day, sportsbook); ok {
		return snap
	}
	snap, _ := b.Load(ctx, day, sportsbook)
	return snap
}

// Cached returns an unexpired board without fetching. An unknown day or empty
// sportsbook is resolved the same way the fetcher resolves it.
func (b *Board) Cached(day timebucket.DayKey, sportsbook string) (*Snapshot, bool) {
	if !day.IsKnown() && b.opts.Calendar != nil {
		day = b.opts.Calendar.Today()
	}
	if sportsbook == "" {
		sportsbook = b.fetcher.DefaultSportsbook()
	}

	v, found := b.cache.Get(cacheKey(day, sportsbook))
	metrics.RecordCacheLookup(found)
	if !found {
		return nil, false
	}
	snap, ok := v.(*Snapshot)
	return snap, ok
}

// Current returns the most recently started load that has resolved, or nil.
func (b *Board) Current() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Generation returns the token of the most recently started load.
func (b *Board) Generation() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.generation
}

// Invalidate drops every cached board. The current snapshot is kept.
func (b *Board) Invalidate() {
	b.cache.Flush()
}

// OnlyDay returns a copy of the snapshot holding just the games whose start
// time falls on the snapshot's day. The receiver is not modified.
func (s *Snapshot) OnlyDay() *Snapshot {
	out := *s
	out.Games = analysis.ForDay(s.Games, s.Day)
	out.Summary = analysis.Summarize(out.Games)
	return &out
}

func (b *Board) build(res *ml.Result, generation uint64) *Snapshot {
	games := analysis.AnalyzeAll(res.Predictions, b.opts)
	return &Snapshot{
		Day:         res.Day,
		Sportsbook:  res.Sportsbook,
		Source:      res.Source,
		Outcome:     res.Outcome,
		GeneratedAt: res.GeneratedAt,
		FetchedAt:   b.now().UTC(),
		Sequence:    res.Sequence,
		Generation:  generation,
		Games:       games,
		Summary:     analysis.Summarize(games),
	}
}

func cacheKey(day timebucket.DayKey, sportsbook string) string {
	return string(day) + ":" + sportsbook
}
