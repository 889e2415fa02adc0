// Package bcache implements the fixed-size associative sector cache
// that mediates all device I/O. Each of the 64 slots runs a small state
// machine; accessors that find a slot with an in-flight device operation
// wait on the slot's condition until it completes.
package bcache

import (
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kwalsh/corefs/common"
	"github.com/kwalsh/corefs/metrics"
)

type state int

const (
	READY state = iota
	PENDING_WRITE
	BEING_WRITTEN
	BEING_READ
	EVICTED
)

// A sector holds the cached image of one device sector. The slot lock
// guards every field; state transitions away from READY mark exactly one
// thread as owner of the in-flight device operation. Slot locks are leaf
// locks: no thread holds two at once, and the cache lock is never
// acquired while one is held.
type sector struct {
	m       sync.Mutex
	ioDone  *sync.Cond // an in-flight read/write finished
	accDone *sync.Cond // numAccessors dropped to zero

	buffer       [common.SECTOR_SIZE]byte
	idx          int // sector currently held, NO_SECTOR if unassigned
	isMeta       bool
	dirty        bool
	state        state
	numAccessors int
}

// SectorCache is the process-wide cache over a single block device. The
// cache lock guards only the sector-to-slot assignment and the clock
// hand; everything per-slot is guarded by the slot itself.
type SectorCache struct {
	dev common.BlockDevice

	m         sync.Mutex
	slotFreed *sync.Cond // some slot may have become claimable
	assign    map[int]*sector
	slots     []*sector
	hand      int
	closed    bool
}

func NewSectorCache(dev common.BlockDevice, numslots int) common.BlockCache {
	c := &SectorCache{
		dev:    dev,
		assign: make(map[int]*sector, numslots),
		slots:  make([]*sector, numslots),
	}
	c.slotFreed = sync.NewCond(&c.m)
	for i := 0; i < numslots; i++ {
		s := &sector{idx: common.NO_SECTOR, state: EVICTED}
		s.ioDone = sync.NewCond(&s.m)
		s.accDone = sync.NewCond(&s.m)
		c.slots[i] = s
	}
	return c
}

func (c *SectorCache) IoAt(sectorIdx int, buf []byte, isMeta bool, offset, size int, isWrite bool) error {
	return c.ioAt(sectorIdx, buf, isMeta, offset, size, isWrite, common.NO_SECTOR)
}

func (c *SectorCache) IoAtNext(sectorIdx int, buf []byte, isMeta bool, offset, size int, isWrite bool, sectorNext int) error {
	return c.ioAt(sectorIdx, buf, isMeta, offset, size, isWrite, sectorNext)
}

func (c *SectorCache) ioAt(sectorIdx int, buf []byte, isMeta bool, offset, size int, isWrite bool, sectorNext int) error {
	if sectorIdx < 0 || sectorIdx >= c.dev.Sectors() {
		return common.EINVAL
	}
	if offset < 0 || size <= 0 || offset+size > common.SECTOR_SIZE || size > len(buf) {
		return common.EINVAL
	}

	// A write that covers the whole sector need not load the stale
	// device contents first.
	readIn := !(isWrite && offset == 0 && size == common.SECTOR_SIZE)

	s, err := c.acquire(sectorIdx, isMeta, readIn)
	if err != nil {
		return err
	}

	if isWrite {
		copy(s.buffer[offset:offset+size], buf[:size])
	} else {
		copy(buf[:size], s.buffer[offset:offset+size])
	}
	c.release(s, isWrite)

	if sectorNext != common.NO_SECTOR {
		go c.readAhead(sectorNext, isMeta, s)
	}
	return nil
}

// acquire pins the slot holding sectorIdx as an accessor, loading the
// sector into a reclaimed slot on a miss. On return the slot is READY
// and numAccessors includes the caller.
func (c *SectorCache) acquire(sectorIdx int, isMeta bool, readIn bool) (*sector, error) {
	for {
		c.m.Lock()
		if c.closed {
			c.m.Unlock()
			return nil, common.EINVAL
		}
		if s, ok := c.assign[sectorIdx]; ok {
			c.m.Unlock()
			s.m.Lock()
			for s.state == BEING_READ || s.state == BEING_WRITTEN || s.state == PENDING_WRITE {
				s.ioDone.Wait()
			}
			if s.idx != sectorIdx || s.state != READY {
				// Repurposed or evicted while we waited.
				s.m.Unlock()
				continue
			}
			s.numAccessors++
			s.isMeta = s.isMeta || isMeta
			s.m.Unlock()
			metrics.CacheHits.Inc()
			return s, nil
		}

		s := c.pickVictim()
		if s == nil {
			// Every slot is either in flight or has accessors.
			log.WithField("sector", sectorIdx).Debug("sector cache full, waiting for a free slot")
			c.slotFreed.Wait()
			c.m.Unlock()
			continue
		}
		return c.claim(s, sectorIdx, isMeta, readIn)
	}
}

// claim repurposes the victim slot for sectorIdx. Called with both the
// cache lock and the slot lock held; the slot is READY with no
// accessors, or EVICTED. The new assignment is published before any
// device I/O so later accessors of sectorIdx queue on this slot rather
// than racing to load a second copy.
func (c *SectorCache) claim(s *sector, sectorIdx int, isMeta bool, readIn bool) (*sector, error) {
	oldidx := s.idx
	needWriteback := s.state == READY && s.dirty

	if oldidx != common.NO_SECTOR {
		metrics.CacheEvictions.Inc()
	}
	c.assign[sectorIdx] = s
	s.idx = sectorIdx
	s.isMeta = isMeta
	s.numAccessors = 0

	if needWriteback {
		// A dirty victim sequences through BEING_WRITTEN before it can
		// be reused; the buffer still holds the old sector's bytes and
		// the in-flight state keeps everyone else out.
		s.state = BEING_WRITTEN
		s.m.Unlock()
		c.m.Unlock()
		werr := c.dev.WriteSector(oldidx, s.buffer[:])
		metrics.CacheWritebacks.Inc()
		c.m.Lock()
		s.m.Lock()
		s.dirty = false
		if werr != nil {
			if old, ok := c.assign[oldidx]; ok && old == s {
				delete(c.assign, oldidx)
			}
			c.undoClaim(s, sectorIdx)
			return nil, errors.Wrapf(werr, "write back sector %d", oldidx)
		}
	}
	if oldidx != common.NO_SECTOR {
		if old, ok := c.assign[oldidx]; ok && old == s && oldidx != sectorIdx {
			delete(c.assign, oldidx)
		}
	}

	if !readIn {
		for i := range s.buffer {
			s.buffer[i] = 0
		}
		s.state = READY
		s.numAccessors = 1
		s.ioDone.Broadcast()
		s.m.Unlock()
		c.m.Unlock()
		metrics.CacheMisses.Inc()
		return s, nil
	}

	s.state = BEING_READ
	s.m.Unlock()
	c.m.Unlock()
	rerr := c.dev.ReadSector(sectorIdx, s.buffer[:])
	c.m.Lock()
	s.m.Lock()
	if rerr != nil {
		c.undoClaim(s, sectorIdx)
		return nil, errors.Wrapf(rerr, "read sector %d", sectorIdx)
	}
	s.state = READY
	s.numAccessors = 1
	s.ioDone.Broadcast()
	s.m.Unlock()
	c.slotFreed.Broadcast()
	c.m.Unlock()
	metrics.CacheMisses.Inc()
	return s, nil
}

// undoClaim returns a slot to the unassigned pool after a failed device
// operation. Called with the cache lock and the slot lock held; releases
// both.
func (c *SectorCache) undoClaim(s *sector, sectorIdx int) {
	if cur, ok := c.assign[sectorIdx]; ok && cur == s {
		delete(c.assign, sectorIdx)
	}
	s.idx = common.NO_SECTOR
	s.dirty = false
	s.state = EVICTED
	s.ioDone.Broadcast()
	s.m.Unlock()
	c.slotFreed.Broadcast()
	c.m.Unlock()
}

// release drops an accessor reference, recording whether the buffer was
// written.
func (c *SectorCache) release(s *sector, wrote bool) {
	s.m.Lock()
	if wrote {
		s.dirty = true
	}
	s.numAccessors--
	if s.numAccessors == 0 {
		s.accDone.Broadcast()
	}
	s.m.Unlock()

	c.m.Lock()
	c.slotFreed.Broadcast()
	c.m.Unlock()
}

// pickVictim chooses a slot to reclaim: unassigned slots first, then
// idle clean non-metadata slots, then idle clean metadata, then idle
// dirty. Slots with accessors or in-flight I/O are never chosen. Called
// with the cache lock held; on success the chosen slot's lock is held.
func (c *SectorCache) pickVictim() *sector {
	n := len(c.slots)
	for pass := 0; pass < 4; pass++ {
		for i := 0; i < n; i++ {
			s := c.slots[(c.hand+i)%n]
			s.m.Lock()
			ok := false
			switch pass {
			case 0:
				ok = s.state == EVICTED
			case 1:
				ok = s.state == READY && s.numAccessors == 0 && !s.dirty && !s.isMeta
			case 2:
				ok = s.state == READY && s.numAccessors == 0 && !s.dirty
			case 3:
				ok = s.state == READY && s.numAccessors == 0
			}
			if ok {
				c.hand = (c.hand + i + 1) % n
				return s
			}
			s.m.Unlock()
		}
	}
	return nil
}

// readAhead loads sectorNext into the cache without blocking anyone.
// Best effort: it claims only unassigned or idle clean slots, never the
// slot the synchronous operation just used, and silently drops the load
// on contention.
func (c *SectorCache) readAhead(sectorNext int, isMeta bool, exclude *sector) {
	if sectorNext < 0 || sectorNext >= c.dev.Sectors() {
		return
	}
	c.m.Lock()
	if c.closed {
		c.m.Unlock()
		return
	}
	if _, ok := c.assign[sectorNext]; ok {
		c.m.Unlock()
		return
	}

	var victim *sector
	n := len(c.slots)
	for i := 0; i < n && victim == nil; i++ {
		s := c.slots[(c.hand+i)%n]
		if s == exclude {
			continue
		}
		s.m.Lock()
		if s.state == EVICTED || (s.state == READY && s.numAccessors == 0 && !s.dirty) {
			c.hand = (c.hand + i + 1) % n
			victim = s
		} else {
			s.m.Unlock()
		}
	}
	if victim == nil {
		c.m.Unlock()
		return
	}

	if victim.idx != common.NO_SECTOR {
		delete(c.assign, victim.idx)
		metrics.CacheEvictions.Inc()
	}
	c.assign[sectorNext] = victim
	victim.idx = sectorNext
	victim.isMeta = isMeta
	victim.numAccessors = 0
	victim.state = BEING_READ
	victim.m.Unlock()
	c.m.Unlock()

	err := c.dev.ReadSector(sectorNext, victim.buffer[:])
	c.m.Lock()
	victim.m.Lock()
	if err != nil {
		log.WithField("sector", sectorNext).WithError(err).Warn("read-ahead failed")
		c.undoClaim(victim, sectorNext)
		return
	}
	victim.state = READY
	victim.ioDone.Broadcast()
	victim.m.Unlock()
	c.slotFreed.Broadcast()
	c.m.Unlock()
	metrics.CacheReadaheads.Inc()
}

// WriteAll flushes every dirty sector synchronously. Dirty slots are
// marked PENDING_WRITE once their accessors drain, then written back
// concurrently; the call returns when the device holds every flushed
// sector.
func (c *SectorCache) WriteAll() error {
	g := new(errgroup.Group)
	for _, s := range c.slots {
		s.m.Lock()
		if s.idx == common.NO_SECTOR || !s.dirty || s.state != READY {
			s.m.Unlock()
			continue
		}
		for s.numAccessors > 0 {
			s.accDone.Wait()
		}
		if s.idx == common.NO_SECTOR || !s.dirty || s.state != READY {
			s.m.Unlock()
			continue
		}
		s.state = PENDING_WRITE
		s.m.Unlock()
		s := s
		g.Go(func() error { return c.flushSlot(s) })
	}
	return g.Wait()
}

// flushSlot picks up a PENDING_WRITE slot and performs the writeback.
func (c *SectorCache) flushSlot(s *sector) error {
	s.m.Lock()
	if s.state != PENDING_WRITE {
		s.m.Unlock()
		return nil
	}
	s.state = BEING_WRITTEN
	idx := s.idx
	s.m.Unlock()

	err := c.dev.WriteSector(idx, s.buffer[:])
	metrics.CacheWritebacks.Inc()

	s.m.Lock()
	if err == nil {
		s.dirty = false
	}
	s.state = READY
	s.ioDone.Broadcast()
	s.m.Unlock()

	c.m.Lock()
	c.slotFreed.Broadcast()
	c.m.Unlock()

	if err != nil {
		return errors.Wrapf(err, "flush sector %d", idx)
	}
	return nil
}

// Shutdown flushes the cache and refuses further operations.
func (c *SectorCache) Shutdown() error {
	err := c.WriteAll()
	c.m.Lock()
	c.closed = true
	c.m.Unlock()
	return err
}
