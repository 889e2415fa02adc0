// Package inode tracks the open inodes of the filesystem. The table is
// a server goroutine owning a fixed set of slots; at most one in-memory
// inode exists per on-disk inode, so the per-inode directory lock is
// shared by every handle automatically.
package inode

import (
	"bytes"
	"encoding/binary"

	log "github.com/sirupsen/logrus"

	"github.com/kwalsh/corefs/common"
)

type server_InodeTbl struct {
	bcache common.BlockCache
	alloc  common.AllocTbl
	slots  []*common.Inode

	in  chan reqInodeTbl
	out chan resInodeTbl
}

func NewInodeTbl(bcache common.BlockCache, alloc common.AllocTbl, size int) common.InodeTbl {
	itable := &server_InodeTbl{
		bcache: bcache,
		alloc:  alloc,
		slots:  make([]*common.Inode, size),
		in:     make(chan reqInodeTbl),
		out:    make(chan resInodeTbl),
	}

	for i := 0; i < size; i++ {
		itable.slots[i] = &common.Inode{Sector: common.NO_SECTOR}
	}

	go itable.loop()
	return itable
}

// Create writes a fresh on-disk inode at the given sector. No data
// sectors are assigned; unwritten positions read as zeros.
func Create(cache common.BlockCache, sector int, length int, isDir bool) error {
	if length < 0 || length > common.MAX_FILE_SIZE {
		return common.EFBIG
	}
	din := &common.DiskInode{
		Magic:  common.INODE_MAGIC,
		Length: uint32(length),
	}
	if isDir {
		din.Dir = 1
	}
	return writeDisk(cache, sector, din)
}

func (itable *server_InodeTbl) loop() {
	alive := true
	for alive {
		req := <-itable.in
		switch req := req.(type) {
		case req_InodeTbl_OpenInode:
			slotIndex := itable.findSlot(req.sector)
			if slotIndex == -1 {
				itable.out <- res_InodeTbl_OpenInode{nil, common.ENFILE}
				continue
			}
			rip := itable.slots[slotIndex]
			if rip.Count > 0 {
				rip.Count++
				itable.out <- res_InodeTbl_OpenInode{rip, nil}
				continue
			}
			din, err := readDisk(itable.bcache, req.sector)
			if err != nil {
				itable.out <- res_InodeTbl_OpenInode{nil, err}
				continue
			}
			rip.DiskInode = din
			rip.Bcache = itable.bcache
			rip.Alloc = itable.alloc
			rip.Sector = req.sector
			rip.Count = 1
			rip.Dirty = false
			rip.Removed = false
			itable.out <- res_InodeTbl_OpenInode{rip, nil}
		case req_InodeTbl_DupInode:
			rip := req.inode
			rip.Count++
			itable.out <- res_InodeTbl_DupInode{rip}
		case req_InodeTbl_PutInode:
			rip := req.inode
			if rip == nil {
				itable.out <- res_InodeTbl_PutInode{}
				continue
			}
			rip.Count--
			if rip.Count == 0 {
				if rip.Removed {
					// Last handle to an unlinked inode: give back its
					// data sectors and the inode sector itself.
					common.Truncate(rip, 0)
					if err := itable.alloc.FreeSector(rip.Sector); err != nil {
						log.WithField("sector", rip.Sector).WithError(err).Warn("could not free inode sector")
					}
					rip.Sector = common.NO_SECTOR
					rip.DiskInode = nil
				} else if rip.Dirty {
					itable.writeInode(rip)
				}
			}
			itable.out <- res_InodeTbl_PutInode{}
		case req_InodeTbl_FlushInode:
			if req.inode != nil && req.inode.Dirty {
				itable.writeInode(req.inode)
			}
			itable.out <- res_InodeTbl_FlushInode{}
		case req_InodeTbl_OpenCount:
			itable.out <- res_InodeTbl_OpenCount{req.inode.Count}
		case req_InodeTbl_MarkRemoved:
			req.inode.Removed = true
			itable.out <- res_InodeTbl_MarkRemoved{}
		case req_InodeTbl_Shutdown:
			busy := false
			for _, rip := range itable.slots {
				if rip.Count > 0 {
					busy = true
				}
			}
			if busy {
				itable.out <- res_InodeTbl_Shutdown{common.EBUSY}
				continue
			}
			alive = false
			itable.out <- res_InodeTbl_Shutdown{nil}
		}
	}
}

// findSlot returns the slot holding the given sector, an unused slot if
// it is not present, or -1 if the table is full.
func (itable *server_InodeTbl) findSlot(sector int) int {
	slotIndex := -1
	for i, rip := range itable.slots {
		if rip.Count > 0 {
			if rip.Sector == sector {
				return i
			}
		} else if slotIndex == -1 {
			slotIndex = i
		}
	}
	return slotIndex
}

func (itable *server_InodeTbl) writeInode(rip *common.Inode) {
	if err := writeDisk(itable.bcache, rip.Sector, rip.DiskInode); err != nil {
		log.WithField("sector", rip.Sector).WithError(err).Error("could not write inode")
		return
	}
	rip.Dirty = false
}

func writeDisk(cache common.BlockCache, sector int, din *common.DiskInode) error {
	buf := new(bytes.Buffer)
	buf.Grow(common.SECTOR_SIZE)
	if err := binary.Write(buf, binary.LittleEndian, din); err != nil {
		return err
	}
	return cache.IoAt(sector, buf.Bytes(), true, 0, common.SECTOR_SIZE, true)
}

func readDisk(cache common.BlockCache, sector int) (*common.DiskInode, error) {
	var buf [common.SECTOR_SIZE]byte
	if err := cache.IoAt(sector, buf[:], true, 0, common.SECTOR_SIZE, false); err != nil {
		return nil, err
	}
	din := new(common.DiskInode)
	if err := binary.Read(bytes.NewReader(buf[:]), binary.LittleEndian, din); err != nil {
		return nil, err
	}
	if din.Magic != common.INODE_MAGIC {
		return nil, common.EINVAL
	}
	return din, nil
}
