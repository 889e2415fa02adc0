package fs

import (
	"io"

	"github.com/kwalsh/corefs/common"
	"github.com/kwalsh/corefs/dir"
	"github.com/kwalsh/corefs/inode"
)

func (fs *FileSystem) do_fork(proc *Process) (*Process, error) {
	cwd, err := proc.cwd.Reopen()
	if err != nil {
		return nil, err
	}

	child := &Process{
		pid: fs.pidcounter,
		cwd: cwd,
		fs:  fs,
	}
	fs.procs[child.pid] = child
	fs.pidcounter++
	return child, nil
}

func (fs *FileSystem) do_exit(proc *Process) {
	proc.cwd.Close()
	proc.cwd = nil
	delete(fs.procs, proc.pid)
}

// openDirAt opens the directory at the given path, resolving the final
// component too.
func (fs *FileSystem) openDirAt(proc *Process, path string) (*dir.Dir, error) {
	parent, err := dir.OpenDirs(proc.cwd, path)
	if err != nil {
		return nil, err
	}
	name := dir.ParseFilename(path)
	if name == "" {
		// The path was the root, or empty: the parent is the target.
		return parent, nil
	}
	rip, err := parent.Lookup(name)
	parent.Close()
	if err != nil {
		return nil, err
	}
	return dir.Open(fs.itable, rip)
}

func (fs *FileSystem) do_chdir(proc *Process, path string) error {
	newdir, err := fs.openDirAt(proc, path)
	if err != nil {
		return err
	}
	proc.cwd.Close()
	proc.cwd = newdir
	return nil
}

func (fs *FileSystem) do_mkdir(proc *Process, path string) error {
	parent, err := dir.OpenDirs(proc.cwd, path)
	if err != nil {
		return err
	}
	defer parent.Close()

	name := dir.ParseFilename(path)
	if name == "" {
		return common.EINVAL
	}

	sector, err := fs.alloc.AllocSector()
	if err != nil {
		return err
	}
	if err := dir.Create(fs.bcache, sector); err != nil {
		fs.alloc.FreeSector(sector)
		return err
	}

	// Enter . and .. in the new directory before linking it, so a
	// half-made directory is never reachable.
	crip, err := fs.itable.OpenInode(sector)
	if err != nil {
		fs.alloc.FreeSector(sector)
		return err
	}
	child, err := dir.Open(fs.itable, crip)
	if err != nil {
		fs.alloc.FreeSector(sector)
		return err
	}
	if err := child.Add(".", sector); err == nil {
		err = child.Add("..", parent.Inode().Sector)
	}
	if err == nil {
		err = parent.Add(name, sector)
	}
	if err != nil {
		// Releases the directory's data sectors and the inode sector.
		fs.itable.MarkRemoved(crip)
		child.Close()
		return err
	}
	child.Close()
	return nil
}

func (fs *FileSystem) do_creat(proc *Process, path string) error {
	parent, err := dir.OpenDirs(proc.cwd, path)
	if err != nil {
		return err
	}
	defer parent.Close()

	name := dir.ParseFilename(path)
	if name == "" {
		return common.EINVAL
	}

	sector, err := fs.alloc.AllocSector()
	if err != nil {
		return err
	}
	if err := inode.Create(fs.bcache, sector, 0, false); err != nil {
		fs.alloc.FreeSector(sector)
		return err
	}
	if err := parent.Add(name, sector); err != nil {
		fs.alloc.FreeSector(sector)
		return err
	}
	return nil
}

func (fs *FileSystem) do_unlink(proc *Process, path string) error {
	parent, err := dir.OpenDirs(proc.cwd, path)
	if err != nil {
		return err
	}
	defer parent.Close()

	return parent.Remove(dir.ParseFilename(path))
}

func (fs *FileSystem) do_rmdir(proc *Process, path string) error {
	parent, err := dir.OpenDirs(proc.cwd, path)
	if err != nil {
		return err
	}
	defer parent.Close()

	name := dir.ParseFilename(path)
	rip, err := parent.Lookup(name)
	if err != nil {
		return err
	}
	isdir := rip.IsDirectory()
	fs.itable.PutInode(rip)
	if !isdir {
		return common.ENOTDIR
	}

	return parent.Remove(name)
}

func (fs *FileSystem) do_readdir(proc *Process, path string) ([]string, error) {
	dirp, err := fs.openDirAt(proc, path)
	if err != nil {
		return nil, err
	}
	defer dirp.Close()

	var names []string
	for {
		name, err := dirp.ReadDir()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
}

func (fs *FileSystem) do_stat(proc *Process, path string) (*StatInfo, error) {
	parent, err := dir.OpenDirs(proc.cwd, path)
	if err != nil {
		return nil, err
	}

	var rip *common.Inode
	name := dir.ParseFilename(path)
	if name == "" {
		rip = fs.itable.DupInode(parent.Inode())
	} else {
		rip, err = parent.Lookup(name)
	}
	parent.Close()
	if err != nil {
		return nil, err
	}

	info := &StatInfo{
		Sector: rip.Sector,
		IsDir:  rip.IsDirectory(),
		Length: int(rip.Length),
	}
	fs.itable.PutInode(rip)
	return info, nil
}

// do_shutdown flushes everything and stops the subsystem servers. Every
// process except the root one must have exited.
func (fs *FileSystem) do_shutdown() error {
	for pid := range fs.procs {
		if pid != ROOT_PROCESS {
			return common.EBUSY
		}
	}
	if proc := fs.procs[ROOT_PROCESS]; proc != nil {
		proc.cwd.Close()
		proc.cwd = nil
		delete(fs.procs, ROOT_PROCESS)
	}

	if err := fs.bcache.WriteAll(); err != nil {
		return err
	}
	if err := fs.itable.Shutdown(); err != nil {
		return err
	}
	if err := fs.alloc.Shutdown(); err != nil {
		return err
	}
	// The device stays open; its lifetime belongs to the caller that
	// supplied it.
	return fs.bcache.Shutdown()
}
