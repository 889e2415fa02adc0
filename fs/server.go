// Package fs ties the sector cache, the allocator, the inode table and
// the directory layer into a filesystem with per-process working
// directories. The FileSystem itself is a server goroutine; Process
// handles post requests to it.
package fs

import (
	log "github.com/sirupsen/logrus"

	"github.com/kwalsh/corefs/alloctbl"
	"github.com/kwalsh/corefs/bcache"
	"github.com/kwalsh/corefs/common"
	"github.com/kwalsh/corefs/device"
	"github.com/kwalsh/corefs/dir"
	"github.com/kwalsh/corefs/inode"
)

const ROOT_PROCESS = 0

// StatInfo describes an inode to callers.
type StatInfo struct {
	Sector int
	IsDir  bool
	Length int
}

type FileSystem struct {
	dev    common.BlockDevice
	bcache common.BlockCache
	alloc  common.AllocTbl
	itable common.InodeTbl

	procs      map[int]*Process
	pidcounter int

	in  chan reqFS
	out chan resFS
}

// OpenFileSystemFile mounts the filesystem held in a disk image file.
func OpenFileSystemFile(filename string) (*FileSystem, *Process, error) {
	dev, err := device.NewFileDevice(filename)
	if err != nil {
		return nil, nil, err
	}
	return NewFileSystem(dev)
}

// NewFileSystem mounts the filesystem on the given device and returns
// it along with the root process, whose working directory is the root
// directory.
func NewFileSystem(dev common.BlockDevice) (*FileSystem, *Process, error) {
	fs := new(FileSystem)
	fs.dev = dev
	fs.bcache = bcache.NewSectorCache(dev, common.NR_CACHE_SECTORS)
	fs.alloc = alloctbl.NewAllocTbl(fs.bcache, dev.Sectors())
	fs.itable = inode.NewInodeTbl(fs.bcache, fs.alloc, common.NR_INODES)

	root, err := dir.OpenRoot(fs.itable)
	if err != nil {
		log.WithError(err).Error("could not open root directory; is the device formatted?")
		fs.itable.Shutdown()
		fs.alloc.Shutdown()
		fs.bcache.Shutdown()
		return nil, nil, err
	}

	fs.procs = make(map[int]*Process)
	fs.procs[ROOT_PROCESS] = &Process{
		pid: ROOT_PROCESS,
		cwd: root,
		fs:  fs,
	}
	fs.pidcounter = ROOT_PROCESS + 1

	fs.in = make(chan reqFS)
	fs.out = make(chan resFS)

	go fs.loop()

	return fs, fs.procs[ROOT_PROCESS], nil
}

// Format writes an empty filesystem onto the device: a fresh free map
// with the map and root sectors taken, and a root directory holding
// only `.` and `..`.
func Format(dev common.BlockDevice) error {
	cache := bcache.NewSectorCache(dev, common.NR_CACHE_SECTORS)

	var fmap [common.SECTOR_SIZE]byte
	fmap[0] = 1<<common.FREE_MAP_SECTOR | 1<<common.ROOT_DIR_SECTOR
	if err := cache.IoAt(common.FREE_MAP_SECTOR, fmap[:], true, 0, common.SECTOR_SIZE, true); err != nil {
		return err
	}
	if err := dir.Create(cache, common.ROOT_DIR_SECTOR); err != nil {
		return err
	}

	alloc := alloctbl.NewAllocTbl(cache, dev.Sectors())
	itable := inode.NewInodeTbl(cache, alloc, common.NR_INODES)
	root, err := dir.OpenRoot(itable)
	if err != nil {
		return err
	}
	if err := root.Add(".", common.ROOT_DIR_SECTOR); err != nil {
		return err
	}
	if err := root.Add("..", common.ROOT_DIR_SECTOR); err != nil {
		return err
	}
	root.Close()

	if err := itable.Shutdown(); err != nil {
		return err
	}
	if err := alloc.Shutdown(); err != nil {
		return err
	}
	return cache.Shutdown()
}

func (fs *FileSystem) loop() {
	alive := true
	for alive {
		req := <-fs.in
		switch req := req.(type) {
		case req_FS_Fork:
			proc, err := fs.do_fork(req.proc)
			fs.out <- res_FS_Fork{proc, err}
		case req_FS_Exit:
			fs.do_exit(req.proc)
			fs.out <- res_FS_Exit{}
		case req_FS_Chdir:
			err := fs.do_chdir(req.proc, req.path)
			fs.out <- res_FS_Chdir{err}
		case req_FS_Mkdir:
			err := fs.do_mkdir(req.proc, req.path)
			fs.out <- res_FS_Mkdir{err}
		case req_FS_Rmdir:
			err := fs.do_rmdir(req.proc, req.path)
			fs.out <- res_FS_Rmdir{err}
		case req_FS_Creat:
			err := fs.do_creat(req.proc, req.path)
			fs.out <- res_FS_Creat{err}
		case req_FS_Unlink:
			err := fs.do_unlink(req.proc, req.path)
			fs.out <- res_FS_Unlink{err}
		case req_FS_ReadDir:
			names, err := fs.do_readdir(req.proc, req.path)
			fs.out <- res_FS_ReadDir{names, err}
		case req_FS_Stat:
			info, err := fs.do_stat(req.proc, req.path)
			fs.out <- res_FS_Stat{info, err}
		case req_FS_Sync:
			fs.out <- res_FS_Sync{fs.bcache.WriteAll()}
		case req_FS_Shutdown:
			err := fs.do_shutdown()
			if err == nil {
				alive = false
			}
			fs.out <- res_FS_Shutdown{err}
		}
	}
}
