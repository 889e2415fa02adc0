// Package frame arbitrates the fixed pool of physical user-page frames.
// The table is a single server goroutine, so every operation on table
// state is serialised; page eviction callbacks run inside the loop and
// must not re-enter the table.
package frame

import (
	log "github.com/sirupsen/logrus"

	"github.com/kwalsh/corefs/metrics"
)

// Page is the view of the page layer a frame needs: asked to evict, a
// page writes itself back and unmaps, or refuses.
type Page interface {
	Evict() bool
}

// PagePool supplies the kernel addresses of the user page pool at boot.
type PagePool interface {
	GetPage() (uintptr, bool)
}

// A Frame is one physical user page. A frame lives in exactly one of the
// table's two lists; a free frame has no page and is not pinned.
type Frame struct {
	kaddr  uintptr
	page   Page
	pinned bool
}

// Kaddr returns the kernel address of the backing page. Immutable after
// boot.
func (f *Frame) Kaddr() uintptr {
	return f.kaddr
}

// Page returns the virtual page installed in the frame. Callers must
// hold the frame pinned to rely on the answer.
func (f *Frame) Page() Page {
	return f.page
}

type FrameTable interface {
	// Alloc returns a pinned frame with no page installed. It never
	// fails: with the pool exhausted it evicts, and if nothing can be
	// evicted it panics.
	Alloc() *Frame
	// Free resets the frame and returns it to the free list.
	Free(f *Frame)
	Pin(f *Frame)
	Unpin(f *Frame)
	// SetPage installs the back-reference to the page occupying f.
	SetPage(f *Frame, p Page)
	// Evict tries to reclaim an allocated frame in place. It fails if
	// the frame is pinned or its page refuses. On success the frame is
	// no longer on the allocated list and the caller owns it.
	Evict(f *Frame) bool
	// Stats reports the lengths of the free and allocated lists.
	Stats() (free, allocated int)
	Shutdown() error
}

type server_FrameTable struct {
	free      []*Frame // freed frames; Alloc pops the most recent
	allocated []*Frame // insertion order; eviction scans from the front

	in  chan reqFrameTable
	out chan resFrameTable
}

// NewFrameTable builds the table by draining the user page pool.
func NewFrameTable(pool PagePool) FrameTable {
	ft := &server_FrameTable{
		in:  make(chan reqFrameTable),
		out: make(chan resFrameTable),
	}
	for {
		upage, ok := pool.GetPage()
		if !ok {
			break
		}
		ft.free = append(ft.free, &Frame{kaddr: upage})
	}
	log.WithField("frames", len(ft.free)).Info("frame table initialised")

	go ft.loop()
	return ft
}

func (ft *server_FrameTable) loop() {
	alive := true
	for alive {
		req := <-ft.in
		switch req := req.(type) {
		case req_FrameTable_Alloc:
			var f *Frame
			if n := len(ft.free); n > 0 {
				f = ft.free[n-1]
				ft.free = ft.free[:n-1]
			} else {
				f = ft.pickAndEvict()
			}
			if f == nil {
				// Out of memory. The wrapper raises the panic on the
				// caller's side so the server survives for inspection.
				ft.out <- res_FrameTable_Alloc{nil}
				continue
			}
			f.page = nil
			f.pinned = true
			ft.allocated = append(ft.allocated, f)
			metrics.FrameAllocs.Inc()
			ft.out <- res_FrameTable_Alloc{f}
		case req_FrameTable_Free:
			f := req.frame
			f.page = nil
			f.pinned = false
			ft.rmAllocated(f)
			ft.free = append(ft.free, f)
			ft.out <- res_FrameTable_Free{}
		case req_FrameTable_Pin:
			req.frame.pinned = true
			ft.out <- res_FrameTable_Pin{}
		case req_FrameTable_Unpin:
			req.frame.pinned = false
			ft.out <- res_FrameTable_Unpin{}
		case req_FrameTable_SetPage:
			req.frame.page = req.page
			ft.out <- res_FrameTable_SetPage{}
		case req_FrameTable_Evict:
			ft.out <- res_FrameTable_Evict{ft.evict(req.frame)}
		case req_FrameTable_Stats:
			ft.out <- res_FrameTable_Stats{len(ft.free), len(ft.allocated)}
		case req_FrameTable_Shutdown:
			alive = false
			ft.out <- res_FrameTable_Shutdown{nil}
		}
	}
}

// evict reclaims a single allocated frame. The page's Evict callback
// runs while the table is blocked, so it must not call back in.
func (ft *server_FrameTable) evict(f *Frame) bool {
	if f.pinned {
		return false
	}
	if f.page != nil && !f.page.Evict() {
		return false
	}
	f.page = nil
	ft.rmAllocated(f)
	metrics.FrameEvictions.Inc()
	return true
}

// pickAndEvict scans the allocated list in insertion order and reclaims
// the first frame that lets go, or nil if every frame is pinned or
// refuses.
func (ft *server_FrameTable) pickAndEvict() *Frame {
	for _, f := range ft.allocated {
		if ft.evict(f) {
			return f
		}
	}
	return nil
}

func (ft *server_FrameTable) rmAllocated(f *Frame) {
	for i, g := range ft.allocated {
		if g == f {
			ft.allocated = append(ft.allocated[:i], ft.allocated[i+1:]...)
			return
		}
	}
}
