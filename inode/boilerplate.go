package inode

import (
	"github.com/kwalsh/corefs/common"
)

type req_InodeTbl_OpenInode struct {
	sector int
}
type res_InodeTbl_OpenInode struct {
	Arg0 *common.Inode
	Arg1 error
}
type req_InodeTbl_DupInode struct {
	inode *common.Inode
}
type res_InodeTbl_DupInode struct {
	Arg0 *common.Inode
}
type req_InodeTbl_PutInode struct {
	inode *common.Inode
}
type res_InodeTbl_PutInode struct{}
type req_InodeTbl_FlushInode struct {
	inode *common.Inode
}
type res_InodeTbl_FlushInode struct{}
type req_InodeTbl_OpenCount struct {
	inode *common.Inode
}
type res_InodeTbl_OpenCount struct {
	Arg0 int
}
type req_InodeTbl_MarkRemoved struct {
	inode *common.Inode
}
type res_InodeTbl_MarkRemoved struct{}
type req_InodeTbl_Shutdown struct{}
type res_InodeTbl_Shutdown struct {
	Arg0 error
}

// Interface types and implementations
type reqInodeTbl interface {
	is_reqInodeTbl()
}
type resInodeTbl interface {
	is_resInodeTbl()
}

func (r req_InodeTbl_OpenInode) is_reqInodeTbl()   {}
func (r res_InodeTbl_OpenInode) is_resInodeTbl()   {}
func (r req_InodeTbl_DupInode) is_reqInodeTbl()    {}
func (r res_InodeTbl_DupInode) is_resInodeTbl()    {}
func (r req_InodeTbl_PutInode) is_reqInodeTbl()    {}
func (r res_InodeTbl_PutInode) is_resInodeTbl()    {}
func (r req_InodeTbl_FlushInode) is_reqInodeTbl()  {}
func (r res_InodeTbl_FlushInode) is_resInodeTbl()  {}
func (r req_InodeTbl_OpenCount) is_reqInodeTbl()   {}
func (r res_InodeTbl_OpenCount) is_resInodeTbl()   {}
func (r req_InodeTbl_MarkRemoved) is_reqInodeTbl() {}
func (r res_InodeTbl_MarkRemoved) is_resInodeTbl() {}
func (r req_InodeTbl_Shutdown) is_reqInodeTbl()    {}
func (r res_InodeTbl_Shutdown) is_resInodeTbl()    {}

// Type check request/response types
var _ reqInodeTbl = req_InodeTbl_OpenInode{}
var _ resInodeTbl = res_InodeTbl_OpenInode{}
var _ reqInodeTbl = req_InodeTbl_DupInode{}
var _ resInodeTbl = res_InodeTbl_DupInode{}
var _ reqInodeTbl = req_InodeTbl_PutInode{}
var _ resInodeTbl = res_InodeTbl_PutInode{}
var _ reqInodeTbl = req_InodeTbl_FlushInode{}
var _ resInodeTbl = res_InodeTbl_FlushInode{}
var _ reqInodeTbl = req_InodeTbl_OpenCount{}
var _ resInodeTbl = res_InodeTbl_OpenCount{}
var _ reqInodeTbl = req_InodeTbl_MarkRemoved{}
var _ resInodeTbl = res_InodeTbl_MarkRemoved{}
var _ reqInodeTbl = req_InodeTbl_Shutdown{}
var _ resInodeTbl = res_InodeTbl_Shutdown{}

func (itable *server_InodeTbl) OpenInode(sector int) (*common.Inode, error) {
	itable.in <- req_InodeTbl_OpenInode{sector}
	result := (<-itable.out).(res_InodeTbl_OpenInode)
	return result.Arg0, result.Arg1
}
func (itable *server_InodeTbl) DupInode(rip *common.Inode) *common.Inode {
	itable.in <- req_InodeTbl_DupInode{rip}
	result := (<-itable.out).(res_InodeTbl_DupInode)
	return result.Arg0
}
func (itable *server_InodeTbl) PutInode(rip *common.Inode) {
	itable.in <- req_InodeTbl_PutInode{rip}
	<-itable.out
	return
}
func (itable *server_InodeTbl) FlushInode(rip *common.Inode) {
	itable.in <- req_InodeTbl_FlushInode{rip}
	<-itable.out
	return
}
func (itable *server_InodeTbl) OpenCount(rip *common.Inode) int {
	itable.in <- req_InodeTbl_OpenCount{rip}
	result := (<-itable.out).(res_InodeTbl_OpenCount)
	return result.Arg0
}
func (itable *server_InodeTbl) MarkRemoved(rip *common.Inode) {
	itable.in <- req_InodeTbl_MarkRemoved{rip}
	<-itable.out
	return
}
func (itable *server_InodeTbl) Shutdown() error {
	itable.in <- req_InodeTbl_Shutdown{}
	result := (<-itable.out).(res_InodeTbl_Shutdown)
	return result.Arg0
}
