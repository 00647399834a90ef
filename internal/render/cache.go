package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// glamour.TermRenderer is not safe for concurrent Render calls, so each
// distinct option set gets a sync.Pool of renderers instead of one shared
// instance.
var renderers sync.Map // poolKey -> *sync.Pool

// poolKey holds the options that change how a renderer is built.
// The HTML policy is applied before rendering and is not part of it.
type poolKey struct {
	style            string
	width            int
	emoji            bool
	preserveNewLines bool
	tableWrap        bool
	inlineTableLinks bool
}

func keyOf(opts Options) poolKey {
	return poolKey{
		style:            opts.Style,
		width:            opts.Width,
		emoji:            opts.EnableEmoji,
		preserveNewLines: opts.PreserveNewLines,
		tableWrap:        opts.TableWrap,
		inlineTableLinks: opts.InlineTableLinks,
	}
}

func poolFor(opts Options) *sync.Pool {
	key := keyOf(opts)
	if p, ok := renderers.Load(key); ok {
		return p.(*sync.Pool)
	}
	p, _ := renderers.LoadOrStore(key, &sync.Pool{
		New: func() any {
			r, err := createRenderer(opts)
			if err != nil {
				return nil
			}
			return r
		},
	})
	return p.(*sync.Pool)
}

// acquire returns a pooled renderer, building one directly when the pool
// cannot so the caller gets the construction error.
func acquire(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := poolFor(opts).Get().(*glamour.TermRenderer); ok && r != nil {
		return r, nil
	}
	return createRenderer(opts)
}

func release(opts Options, r *glamour.TermRenderer) {
	if r != nil {
		poolFor(opts).Put(r)
	}
}

// createRenderer builds a TermRenderer. Built-in theme names map to style
// configs; anything else is read as a JSON style file path.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}

	if style, ok := BuiltinStyle(opts.Style); ok {
		rendererOpts = append(rendererOpts, glamour.WithStyles(style))
	} else {
		rendererOpts = append(rendererOpts, glamour.WithStylePath(opts.Style))
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops every renderer pool.
func ClearCache() {
	renderers.Clear()
}

// CacheSize returns the number of distinct option sets with a pool.
func CacheSize() int {
	n := 0
	renderers.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
