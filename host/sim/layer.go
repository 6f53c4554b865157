package sim

import (
	"sync"

	"github.com/gogpu/xr"
	"github.com/gogpu/xr/render"
)

// Layer is a compositor layer holding one framebuffer allocated from the
// graphics context. It implements xr.Layer.
type Layer struct {
	session *Session
	alloc   xr.TargetAllocator
	opts    xr.LayerOptions

	mu     sync.Mutex
	target render.Target
}

// FramebufferSize returns the framebuffer size.
func (l *Layer) FramebufferSize() (width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.target == nil {
		return 0, 0
	}
	return l.target.Width(), l.target.Height()
}

// DrawTarget returns the framebuffer for f. It fails with
// xr.ErrFrameExpired for a frame whose tick returned or that another
// session delivered.
func (l *Layer) DrawTarget(f xr.Frame) (render.Target, error) {
	sf, ok := f.(*Frame)
	if !ok || sf.session != l.session || sf.expired.Load() {
		return nil, xr.ErrFrameExpired
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.target == nil {
		return nil, xr.ErrSessionEnded
	}
	return l.target, nil
}

// Target returns the framebuffer outside a frame, for presentation.
// It is nil once the session ended.
func (l *Layer) Target() render.Target {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

func (l *Layer) release() {
	l.mu.Lock()
	t := l.target
	l.target = nil
	l.mu.Unlock()
	if t != nil {
		l.alloc.ReleaseTarget(t)
	}
}

var _ xr.Layer = (*Layer)(nil)
