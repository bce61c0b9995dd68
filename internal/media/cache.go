// Package media loads image and video textures for planes. Decoding runs on worker goroutines;
// GPU uploads and readiness callbacks happen on the render goroutine in Cache.Poll.
package media

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"pixels/internal/catalog"

	rl "github.com/gen2brain/raylib-go/raylib"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultWorkers        = 4
	DefaultIdleCapacity   = 256
	DefaultMaxTextureSize = 1024
	resultBuffer          = 64
)

var (
	// ErrUnsupported is returned (wrapped) for files that are neither a decodable image nor a video.
	ErrUnsupported = errors.New("unsupported media")
	// ErrEvicted settles a handle dropped from the cache before its decode finished.
	ErrEvicted = errors.New("evicted before ready")
)

// Decoded is what a Loader hands back for one media item.
type Decoded struct {
	// Image is the first (or only) frame, already fitted to the max texture size.
	Image *image.RGBA
	// Play streams further frames into out until ctx is done, then releases the source.
	// Nil for still images.
	Play func(ctx context.Context, out chan<- *image.RGBA)
	// Close releases the source when Play will not be called. May be nil.
	Close func()
}

func (d *Decoded) discard() {
	if d != nil && d.Close != nil {
		d.Close()
	}
}

// Loader fetches and decodes one media item. It runs on a worker goroutine.
type Loader interface {
	Load(ctx context.Context, item catalog.MediaItem) (*Decoded, error)
}

// Uploader owns GPU textures. It is only called on the render goroutine.
type Uploader interface {
	Upload(img *image.RGBA, video bool) (rl.Texture2D, error)
	Update(tex rl.Texture2D, img *image.RGBA)
	Unload(tex rl.Texture2D)
}

// Options sizes a Cache. Zero fields take the defaults.
type Options struct {
	Workers      int
	IdleCapacity int
}

// Stats is a snapshot of the cache for the debug overlay.
type Stats struct {
	Entries   int
	Ready     int
	Pending   int
	Failed    int
	Idle      int
	Playing   int
	Decodes   int64
	Evictions int
}

type result struct {
	h   *Handle
	dec *Decoded
	err error
}

// Cache maps media URLs to shared Handles. Entries are reference counted; an entry nobody
// references waits in an idle LRU and its texture is unloaded when it falls off the end.
type Cache struct {
	log    *slog.Logger
	loader Loader
	up     Uploader
	sem    *semaphore.Weighted

	entries map[string]*Handle
	idle    *lru.Cache[string, *Handle]
	playing map[*Handle]struct{}
	results chan result

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	wg        sync.WaitGroup
	decodes   atomic.Int64
	evictions int
	closed    bool
}

// NewCache returns a cache decoding through loader and uploading through up.
func NewCache(loader Loader, up Uploader, opts Options, log *slog.Logger) *Cache {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.IdleCapacity <= 0 {
		opts.IdleCapacity = DefaultIdleCapacity
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		log:     log,
		loader:  loader,
		up:      up,
		sem:     semaphore.NewWeighted(int64(opts.Workers)),
		entries: make(map[string]*Handle),
		playing: make(map[*Handle]struct{}),
		results: make(chan result, resultBuffer),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	idle, err := lru.NewWithEvict(opts.IdleCapacity, c.evict)
	if err != nil {
		panic(err)
	}
	c.idle = idle
	return c
}

// Get returns the handle for item.URL, starting a decode the first time the URL is seen.
// If the handle is already settled, onReady runs before Get returns; otherwise it runs once from
// Poll when the decode settles, whether it succeeded or not. onReady may be nil.
func (c *Cache) Get(item catalog.MediaItem, onReady func(*Handle)) *Handle {
	if h, ok := c.entries[item.URL]; ok {
		if onReady != nil {
			if h.Settled() {
				onReady(h)
			} else {
				h.waiters = append(h.waiters, onReady)
			}
		}
		if h.refs == 0 {
			// Touch so a handle being asked for again is not the next to go.
			c.idle.Get(item.URL)
		}
		return h
	}

	ctx, cancel := context.WithCancel(c.ctx)
	h := &Handle{item: item, ctx: ctx, cancel: cancel}
	if onReady != nil {
		h.waiters = append(h.waiters, onReady)
	}
	c.entries[item.URL] = h
	if c.closed {
		h.settle(Failed, ErrEvicted)
		return h
	}
	c.idle.Add(item.URL, h)

	c.wg.Add(1)
	go c.decode(h)
	return h
}

// Peek returns the handle for url without creating one or touching its recency.
func (c *Cache) Peek(url string) (*Handle, bool) {
	h, ok := c.entries[url]
	return h, ok
}

// Acquire marks h as in use; it will not be evicted until every Acquire is matched by Release.
func (c *Cache) Acquire(h *Handle) {
	h.refs++
	if h.refs == 1 {
		// The evict callback sees refs > 0 and leaves the handle alone.
		c.idle.Remove(h.item.URL)
	}
}

// Release drops one reference. The last release parks the handle in the idle LRU.
func (c *Cache) Release(h *Handle) {
	if h.refs <= 0 {
		return
	}
	h.refs--
	if h.refs == 0 && c.entries[h.item.URL] == h {
		c.idle.Add(h.item.URL, h)
	}
}

func (c *Cache) decode(h *Handle) {
	defer c.wg.Done()
	if err := c.sem.Acquire(h.ctx, 1); err != nil {
		c.deliver(result{h: h, err: err})
		return
	}
	dec, err := c.loader.Load(h.ctx, h.item)
	c.sem.Release(1)
	c.decodes.Add(1)
	if err == nil && (dec == nil || dec.Image == nil) {
		dec.discard()
		dec, err = nil, ErrUnsupported
	}
	c.deliver(result{h: h, dec: dec, err: err})
}

func (c *Cache) deliver(r result) {
	select {
	case c.results <- r:
	case <-c.done:
		r.dec.discard()
	}
}

// Poll applies finished decodes: uploads textures, settles handles, fires their callbacks and
// copies the latest frame of every playing video into its texture. It returns the number of
// handles settled.
func (c *Cache) Poll() int {
	n := 0
drain:
	for {
		select {
		case r := <-c.results:
			c.settle(r)
			n++
		default:
			break drain
		}
	}
	for h := range c.playing {
		select {
		case img := <-h.frames:
			c.up.Update(h.tex, img)
		default:
		}
	}
	return n
}

func (c *Cache) settle(r result) {
	h := r.h
	if c.entries[h.item.URL] != h || h.Settled() {
		r.dec.discard()
		return
	}
	if r.err != nil {
		c.fail(h, r.err)
		return
	}
	video := r.dec.Play != nil
	tex, err := c.up.Upload(r.dec.Image, video)
	if err != nil {
		r.dec.discard()
		c.fail(h, err)
		return
	}
	h.tex = tex
	b := r.dec.Image.Bounds()
	h.width, h.height = b.Dx(), b.Dy()
	if video {
		h.frames = make(chan *image.RGBA, 1)
		c.playing[h] = struct{}{}
		play, frames, ctx := r.dec.Play, h.frames, h.ctx
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			play(ctx, frames)
		}()
	} else {
		r.dec.discard()
	}
	c.log.Debug("media ready", "url", h.item.URL, "width", h.width, "height", h.height, "video", video)
	h.settle(Ready, nil)
}

func (c *Cache) fail(h *Handle, err error) {
	if !errors.Is(err, context.Canceled) {
		c.log.Warn("media failed", "url", h.item.URL, "err", err)
	}
	h.settle(Failed, err)
}

// evict is the idle LRU's eviction callback. It also fires for Remove, so a handle that has been
// re-acquired in the meantime is skipped.
func (c *Cache) evict(url string, h *Handle) {
	if h.refs > 0 || c.entries[url] != h {
		return
	}
	delete(c.entries, url)
	c.release(h)
	c.evictions++
}

func (c *Cache) release(h *Handle) {
	h.cancel()
	switch h.state {
	case Ready:
		delete(c.playing, h)
		c.up.Unload(h.tex)
		h.tex = rl.Texture2D{}
		h.state = Failed
		h.err = ErrEvicted
	case Pending:
		h.settle(Failed, ErrEvicted)
	}
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats returns counters for the debug overlay.
func (c *Cache) Stats() Stats {
	s := Stats{
		Entries:   len(c.entries),
		Idle:      c.idle.Len(),
		Playing:   len(c.playing),
		Decodes:   c.decodes.Load(),
		Evictions: c.evictions,
	}
	for _, h := range c.entries {
		switch h.state {
		case Ready:
			s.Ready++
		case Failed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}

// Close stops all decodes and playback, waits for the workers and unloads every texture.
func (c *Cache) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	close(c.done)
	c.wg.Wait()
drain:
	for {
		select {
		case r := <-c.results:
			r.dec.discard()
		default:
			break drain
		}
	}
	for url, h := range c.entries {
		delete(c.entries, url)
		c.release(h)
	}
	c.idle.Purge()
}
