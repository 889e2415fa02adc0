package fs

import (
	"github.com/kwalsh/corefs/dir"
)

// A Process is a client of the filesystem with its own working
// directory, inherited on Fork and closed on Exit.
type Process struct {
	pid int
	cwd *dir.Dir
	fs  *FileSystem
}

func (proc *Process) Pid() int {
	return proc.pid
}

func (proc *Process) Fork() (*Process, error) {
	proc.fs.in <- req_FS_Fork{proc}
	result := (<-proc.fs.out).(res_FS_Fork)
	return result.Arg0, result.Arg1
}
func (proc *Process) Exit() {
	proc.fs.in <- req_FS_Exit{proc}
	<-proc.fs.out
	return
}
func (proc *Process) Chdir(path string) error {
	proc.fs.in <- req_FS_Chdir{proc, path}
	result := (<-proc.fs.out).(res_FS_Chdir)
	return result.Arg0
}
func (proc *Process) Mkdir(path string) error {
	proc.fs.in <- req_FS_Mkdir{proc, path}
	result := (<-proc.fs.out).(res_FS_Mkdir)
	return result.Arg0
}
func (proc *Process) Rmdir(path string) error {
	proc.fs.in <- req_FS_Rmdir{proc, path}
	result := (<-proc.fs.out).(res_FS_Rmdir)
	return result.Arg0
}
func (proc *Process) Creat(path string) error {
	proc.fs.in <- req_FS_Creat{proc, path}
	result := (<-proc.fs.out).(res_FS_Creat)
	return result.Arg0
}
func (proc *Process) Unlink(path string) error {
	proc.fs.in <- req_FS_Unlink{proc, path}
	result := (<-proc.fs.out).(res_FS_Unlink)
	return result.Arg0
}
func (proc *Process) ReadDir(path string) ([]string, error) {
	proc.fs.in <- req_FS_ReadDir{proc, path}
	result := (<-proc.fs.out).(res_FS_ReadDir)
	return result.Arg0, result.Arg1
}
func (proc *Process) Stat(path string) (*StatInfo, error) {
	proc.fs.in <- req_FS_Stat{proc, path}
	result := (<-proc.fs.out).(res_FS_Stat)
	return result.Arg0, result.Arg1
}
func (proc *Process) Sync() error {
	proc.fs.in <- req_FS_Sync{}
	result := (<-proc.fs.out).(res_FS_Sync)
	return result.Arg0
}
func (proc *Process) Shutdown() error {
	proc.fs.in <- req_FS_Shutdown{}
	result := (<-proc.fs.out).(res_FS_Shutdown)
	return result.Arg0
}
