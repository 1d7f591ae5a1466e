package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// poolKey identifies renderers built from equivalent options
type poolKey struct {
	style     string
	width     int
	emoji     bool
	newlines  bool
	tableWrap bool
}

func keyOf(opts Options) poolKey {
	return poolKey{
		style:     normalizeStyle(opts.Style),
		width:     opts.Width,
		emoji:     opts.EnableEmoji,
		newlines:  opts.PreserveNewLines,
		tableWrap: opts.TableWrap,
	}
}

// renderers lends out glamour renderers. A TermRenderer is not safe for
// concurrent Render calls, so each borrowed renderer has a single user
// until it is returned.
type renderers struct {
	mu    sync.Mutex
	pools map[poolKey]*sync.Pool
}

var shared = &renderers{pools: make(map[poolKey]*sync.Pool)}

func (r *renderers) pool(key poolKey) *sync.Pool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[key]
	if !ok {
		p = &sync.Pool{}
		r.pools[key] = p
	}
	return p
}

// borrow returns a renderer for opts and the func that gives it back
func (r *renderers) borrow(opts Options) (*glamour.TermRenderer, func(), error) {
	p := r.pool(keyOf(opts))

	tr, ok := p.Get().(*glamour.TermRenderer)
	if !ok {
		var err error
		if tr, err = newTermRenderer(opts); err != nil {
			return nil, nil, err
		}
	}
	return tr, func() { p.Put(tr) }, nil
}

func (r *renderers) reset() {
	r.mu.Lock()
	r.pools = make(map[poolKey]*sync.Pool)
	r.mu.Unlock()
}

func (r *renderers) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pools)
}

// newTermRenderer builds a renderer; the style may be a name or a JSON file
func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(normalizeStyle(opts.Style)),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops every pooled renderer.
func ClearCache() {
	shared.reset()
}

// CacheSize returns the number of distinct option sets seen.
func CacheSize() int {
	return shared.size()
}
