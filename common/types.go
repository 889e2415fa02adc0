package common

import "sync"

// DiskInode is the on-disk inode record. It fills its sector exactly:
// four header words plus the direct sector table.
type DiskInode struct {
	Magic  uint32
	Dir    uint32 // nonzero if the inode is a directory
	Length uint32 // length of the data in bytes
	Nlink  uint32 // written as zero and not maintained
	Direct [NR_DIRECT_SECTORS]uint32
}

// Inode is an open inode. There is at most one Inode per on-disk inode;
// every handle opened for the same sector shares it, which is what makes
// the directory lock a per-inode lock rather than a per-handle one.
type Inode struct {
	*DiskInode

	Bcache BlockCache
	Alloc  AllocTbl

	Sector  int // sector holding the on-disk inode
	Count   int // open handles, managed by the inode table
	Dirty   bool
	Removed bool // free the inode and its sectors on final close

	dirlock sync.Mutex
}

// DirLock returns the lock shared by every directory handle over this
// inode. Handles borrow it; its lifetime is the inode's table slot.
func (rip *Inode) DirLock() *sync.Mutex {
	return &rip.dirlock
}

func (rip *Inode) IsDirectory() bool {
	return rip.Dir != 0
}

// BlockDevice is a sector-addressed raw device.
type BlockDevice interface {
	ReadSector(sector int, buf []byte) error
	WriteSector(sector int, buf []byte) error
	Sectors() int
	Close() error
}

// BlockCache mediates all sector I/O. IoAt performs a partial-sector
// transfer against the cached image of the sector, loading it from the
// device on first touch and marking it dirty on writes. IoAtNext
// additionally schedules a best-effort asynchronous read of sectorNext
// once the synchronous transfer completes.
type BlockCache interface {
	IoAt(sector int, buf []byte, isMeta bool, offset, size int, isWrite bool) error
	IoAtNext(sector int, buf []byte, isMeta bool, offset, size int, isWrite bool, sectorNext int) error
	WriteAll() error
	Shutdown() error
}

// AllocTbl hands out device sectors from the on-disk free map.
type AllocTbl interface {
	AllocSector() (int, error)
	FreeSector(sector int) error
	Shutdown() error
}

// InodeTbl tracks the open inodes of the filesystem.
type InodeTbl interface {
	OpenInode(sector int) (*Inode, error)
	DupInode(rip *Inode) *Inode
	PutInode(rip *Inode)
	FlushInode(rip *Inode)
	OpenCount(rip *Inode) int
	MarkRemoved(rip *Inode)
	Shutdown() error
}
