// Package pool is a minimal buffer-pool manager driving an LRU-K replacer.
// It maps pages to frames, counts pins and picks victims through the
// replacer. Page contents are not modelled: a Loader only signals that a
// page is ready in its frame.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/IvanBrykalov/lruk/replacer"
)

// PageID names a page on the (simulated) backing store.
type PageID uint64

var (
	// ErrNoFreeFrame is returned by Fetch when every frame is pinned.
	ErrNoFreeFrame = errors.New("pool: no free frame")
	// ErrNotResident is returned for pages that are not in the pool.
	ErrNotResident = errors.New("pool: page not resident")
	// ErrNotPinned is returned by Unpin for a page with no pins.
	ErrNotPinned = errors.New("pool: page not pinned")
	// ErrPinned is returned by Drop for a page that is still pinned.
	ErrPinned = errors.New("pool: page is pinned")
)

// Loader brings page into frame. It runs without the pool lock held and
// at most once at a time per page.
type Loader func(ctx context.Context, page PageID, frame replacer.FrameID) error

// Options configures a Pool. Zero values fall back to defaults in New():
//   - K <= 0      => 2
//   - nil Loader  => pages are ready immediately
//   - nil Logger  => discard
type Options struct {
	Frames  int
	K       int
	Loader  Loader
	Metrics replacer.Metrics // forwarded to the replacer
	Logger  *slog.Logger
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Hits, Misses uint64
	Resident     int
	Free         int
	Replacer     replacer.Stats
}

type slot struct {
	page  PageID
	pins  int
	fresh bool // loaded; the load already counted as the first access
}

// Pool is safe for concurrent use.
type Pool struct {
	// ---- guarded by mu ----
	mu    sync.Mutex
	table map[PageID]replacer.FrameID
	slots []slot
	free  []replacer.FrameID

	rep   replacer.Replacer
	loads singleflight.Group
	load  Loader
	log   *slog.Logger

	hits, misses atomic.Uint64
}

// New builds a pool of opt.Frames frames, all initially free.
func New(opt Options) (*Pool, error) {
	if opt.K <= 0 {
		opt.K = 2
	}
	if opt.Loader == nil {
		opt.Loader = func(context.Context, PageID, replacer.FrameID) error { return nil }
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}
	rep, err := replacer.New(replacer.Options{
		Capacity: opt.Frames,
		K:        opt.K,
		Metrics:  opt.Metrics,
		Logger:   opt.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}

	free := make([]replacer.FrameID, opt.Frames)
	for i := range free {
		// Pop from the end hands out frame 0 first.
		free[i] = replacer.FrameID(opt.Frames - 1 - i)
	}
	return &Pool{
		table: make(map[PageID]replacer.FrameID, opt.Frames),
		slots: make([]slot, opt.Frames),
		free:  free,
		rep:   rep,
		load:  opt.Loader,
		log:   opt.Logger.With(slog.String("component", "pool")),
	}, nil
}

// Fetch pins page and returns its frame, loading it on a miss. Concurrent
// misses on the same page share one load. Returns ErrNoFreeFrame when
// every frame is pinned.
func (p *Pool) Fetch(ctx context.Context, page PageID) (replacer.FrameID, error) {
	missed := false
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		p.mu.Lock()
		if f, ok := p.table[page]; ok {
			err := p.pinLocked(f)
			p.mu.Unlock()
			if err != nil {
				return 0, err
			}
			if !missed {
				p.hits.Add(1)
			}
			return f, nil
		}
		p.mu.Unlock()

		if !missed {
			missed = true
			p.misses.Add(1)
		}

		// The installed page is evictable until we pin it, so another
		// fetcher may reclaim it first; the loop then loads it again.
		ch := p.loads.DoChan(strconv.FormatUint(uint64(page), 10), func() (any, error) {
			return nil, p.install(ctx, page)
		})
		select {
		case res := <-ch:
			if res.Err != nil {
				// A follower must not fail because the leader's ctx ended.
				if isContextErr(res.Err) && ctx.Err() == nil {
					continue
				}
				return 0, res.Err
			}
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Unpin releases one pin; the frame becomes evictable at zero pins.
func (p *Pool) Unpin(page PageID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.table[page]
	if !ok {
		return fmt.Errorf("%w: page %d", ErrNotResident, page)
	}
	s := &p.slots[f]
	if s.pins == 0 {
		return fmt.Errorf("%w: page %d", ErrNotPinned, page)
	}
	s.pins--
	if s.pins == 0 {
		return p.rep.SetEvictable(f, true)
	}
	return nil
}

// Drop discards an unpinned page and returns its frame to the free list.
func (p *Pool) Drop(page PageID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.table[page]
	if !ok {
		return fmt.Errorf("%w: page %d", ErrNotResident, page)
	}
	if err := p.rep.Remove(f); err != nil {
		if errors.Is(err, replacer.ErrNotEvictable) {
			return fmt.Errorf("%w: page %d", ErrPinned, page)
		}
		return err
	}
	delete(p.table, page)
	p.slots[f] = slot{}
	p.free = append(p.free, f)
	return nil
}

// Stats returns pool and replacer counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	s := Stats{Resident: len(p.table), Free: len(p.free)}
	p.mu.Unlock()

	s.Hits = p.hits.Load()
	s.Misses = p.misses.Load()
	s.Replacer = p.rep.Stats()
	return s
}

// -------------------- internals --------------------

// pinLocked records the access and pins frame f. The first pin after a load
// skips RecordAccess because install already counted the fault.
func (p *Pool) pinLocked(f replacer.FrameID) error {
	s := &p.slots[f]
	if s.fresh {
		s.fresh = false
	} else if err := p.rep.RecordAccess(f); err != nil {
		return err
	}
	s.pins++
	if s.pins == 1 {
		return p.rep.SetEvictable(f, false)
	}
	return nil
}

// install claims a frame for page, runs the loader without the lock and
// publishes the page. A frame being loaded is unknown to the replacer, so
// it cannot be chosen as a victim meanwhile.
func (p *Pool) install(ctx context.Context, page PageID) error {
	p.mu.Lock()
	if _, ok := p.table[page]; ok {
		p.mu.Unlock()
		return nil
	}
	f, err := p.claimLocked()
	if err != nil {
		p.mu.Unlock()
		return err
	}
	p.slots[f] = slot{page: page}
	p.mu.Unlock()

	if err := p.load(ctx, page, f); err != nil {
		p.mu.Lock()
		p.slots[f] = slot{}
		p.free = append(p.free, f)
		p.mu.Unlock()
		p.log.Warn("page load failed", slog.Uint64("page", uint64(page)), slog.Any("err", err))
		return fmt.Errorf("pool: load page %d: %w", page, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.table[page] = f
	p.slots[f].fresh = true
	return p.rep.RecordAccess(f)
}

// claimLocked takes a free frame or evicts one through the replacer.
func (p *Pool) claimLocked() (replacer.FrameID, error) {
	if n := len(p.free); n > 0 {
		f := p.free[n-1]
		p.free = p.free[:n-1]
		return f, nil
	}
	f, ok := p.rep.Evict()
	if !ok {
		return 0, ErrNoFreeFrame
	}
	old := p.slots[f].page
	delete(p.table, old)
	p.slots[f] = slot{}
	p.log.Debug("page evicted", slog.Uint64("page", uint64(old)), slog.Int("frame", int(f)))
	return f, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
