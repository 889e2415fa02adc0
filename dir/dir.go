// Package dir interprets directory inodes as ordered arrays of
// name-to-sector entries. All handles over the same inode share the
// inode's lock, so mutations and consistent scans serialise per
// directory no matter how many handles exist.
package dir

import (
	"io"
	"strings"
	"sync"

	"github.com/kwalsh/corefs/common"
	"github.com/kwalsh/corefs/inode"
)

// A Dir is a handle over a directory inode plus a private read cursor.
// The lock is borrowed from the inode.
type Dir struct {
	inode  *common.Inode
	itable common.InodeTbl
	lock   *sync.Mutex
	pos    int
}

// Create makes an empty directory backed by a fresh inode at the given
// sector. The caller enters the `.` and `..` slots.
func Create(cache common.BlockCache, sector int) error {
	return inode.Create(cache, sector, 0, true)
}

// Open takes ownership of the inode and returns a directory handle over
// it, or closes the inode and fails if it is not a directory. The read
// cursor starts past the `.` and `..` slots.
func Open(itable common.InodeTbl, rip *common.Inode) (*Dir, error) {
	if rip == nil {
		return nil, common.ENOENT
	}
	if !rip.IsDirectory() {
		itable.PutInode(rip)
		return nil, common.ENOTDIR
	}
	return &Dir{
		inode:  rip,
		itable: itable,
		lock:   rip.DirLock(),
		pos:    2 * common.DIR_ENTRY_SIZE,
	}, nil
}

// OpenRoot opens the directory at the well-known root sector.
func OpenRoot(itable common.InodeTbl) (*Dir, error) {
	rip, err := itable.OpenInode(common.ROOT_DIR_SECTOR)
	if err != nil {
		return nil, err
	}
	return Open(itable, rip)
}

// Reopen returns an independent handle over the same inode.
func (dirp *Dir) Reopen() (*Dir, error) {
	return Open(dirp.itable, dirp.itable.DupInode(dirp.inode))
}

// Close releases the handle's inode.
func (dirp *Dir) Close() {
	if dirp != nil {
		dirp.itable.PutInode(dirp.inode)
	}
}

// Inode returns the inode backing this handle.
func (dirp *Dir) Inode() *common.Inode {
	return dirp.inode
}

// lookup scans the entry array for an in-use entry with the given name.
// The caller holds the directory lock.
func (dirp *Dir) lookup(name string) (*dirEntry, int, bool) {
	for ofs := 0; ; ofs += common.DIR_ENTRY_SIZE {
		e, ok := readEntry(dirp.inode, ofs)
		if !ok {
			return nil, 0, false
		}
		if e.InUse != 0 && e.name() == name {
			return e, ofs, true
		}
	}
}

// Lookup searches the directory for an entry with the given name and
// returns its opened inode. The caller must close it.
func (dirp *Dir) Lookup(name string) (*common.Inode, error) {
	dirp.lock.Lock()
	defer dirp.lock.Unlock()

	e, _, ok := dirp.lookup(name)
	if !ok {
		return nil, common.ENOENT
	}
	return dirp.itable.OpenInode(int(e.Sector))
}

// Add enters a name referring to the inode at the given sector. The
// lowest free slot is reused; with none free the entry is appended at
// end of file.
func (dirp *Dir) Add(name string, inodeSector int) error {
	if name == "" || strings.ContainsRune(name, '/') {
		return common.EINVAL
	}
	if len(name) > common.NAME_MAX {
		return common.ENAMETOOLONG
	}

	dirp.lock.Lock()
	defer dirp.lock.Unlock()

	if _, _, ok := dirp.lookup(name); ok {
		return common.EEXIST
	}

	// Find the first slot not in use. A short read can only happen at
	// end of file, where the new entry goes.
	ofs := 0
	for {
		e, ok := readEntry(dirp.inode, ofs)
		if !ok || e.InUse == 0 {
			break
		}
		ofs += common.DIR_ENTRY_SIZE
	}

	e := &dirEntry{Sector: uint32(inodeSector), InUse: 1}
	e.setName(name)
	if err := writeEntry(dirp.inode, ofs, e); err != nil {
		return err
	}
	dirp.itable.FlushInode(dirp.inode)
	return nil
}

// Remove erases the entry with the given name and marks its inode for
// deletion on final close. A directory entry is only removed when its
// inode is open nowhere else and it holds no entries besides `.` and
// `..`.
func (dirp *Dir) Remove(name string) error {
	if name == "." || name == ".." {
		return common.EINVAL
	}

	dirp.lock.Lock()
	defer dirp.lock.Unlock()

	e, ofs, ok := dirp.lookup(name)
	if !ok {
		return common.ENOENT
	}

	rip, err := dirp.itable.OpenInode(int(e.Sector))
	if err != nil {
		return err
	}

	if rip.IsDirectory() {
		probe, err := Open(dirp.itable, rip)
		if err != nil {
			return err
		}
		// Only the probe handle may have it open, and it must be
		// empty. The parent lock is held, so no new entry for this
		// name can race the check.
		if dirp.itable.OpenCount(rip) > 1 {
			probe.Close()
			return common.EBUSY
		}
		if !probe.Empty() {
			probe.Close()
			return common.ENOTEMPTY
		}
		e.InUse = 0
		if err := writeEntry(dirp.inode, ofs, e); err != nil {
			probe.Close()
			return err
		}
		dirp.itable.MarkRemoved(rip)
		probe.Close()
		return nil
	}

	e.InUse = 0
	if err := writeEntry(dirp.inode, ofs, e); err != nil {
		dirp.itable.PutInode(rip)
		return err
	}
	dirp.itable.MarkRemoved(rip)
	dirp.itable.PutInode(rip)
	return nil
}

// ReadDir returns the name of the next in-use entry, advancing the
// cursor. io.EOF signals the end of the directory.
func (dirp *Dir) ReadDir() (string, error) {
	dirp.lock.Lock()
	defer dirp.lock.Unlock()

	for {
		e, ok := readEntry(dirp.inode, dirp.pos)
		if !ok {
			return "", io.EOF
		}
		dirp.pos += common.DIR_ENTRY_SIZE
		if e.InUse != 0 {
			return e.name(), nil
		}
	}
}

// Empty reports whether the directory holds no in-use entries besides
// `.` and `..`.
func (dirp *Dir) Empty() bool {
	dirp.lock.Lock()
	defer dirp.lock.Unlock()

	for ofs := 0; ; ofs += common.DIR_ENTRY_SIZE {
		e, ok := readEntry(dirp.inode, ofs)
		if !ok {
			return true
		}
		if e.InUse != 0 && e.name() != "." && e.name() != ".." {
			return false
		}
	}
}
