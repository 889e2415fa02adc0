package frame

type req_FrameTable_Alloc struct{}
type res_FrameTable_Alloc struct {
	Arg0 *Frame
}
type req_FrameTable_Free struct {
	frame *Frame
}
type res_FrameTable_Free struct{}
type req_FrameTable_Pin struct {
	frame *Frame
}
type res_FrameTable_Pin struct{}
type req_FrameTable_Unpin struct {
	frame *Frame
}
type res_FrameTable_Unpin struct{}
type req_FrameTable_SetPage struct {
	frame *Frame
	page  Page
}
type res_FrameTable_SetPage struct{}
type req_FrameTable_Evict struct {
	frame *Frame
}
type res_FrameTable_Evict struct {
	Arg0 bool
}
type req_FrameTable_Stats struct{}
type res_FrameTable_Stats struct {
	Arg0 int
	Arg1 int
}
type req_FrameTable_Shutdown struct{}
type res_FrameTable_Shutdown struct {
	Arg0 error
}

// Interface types and implementations
type reqFrameTable interface {
	is_reqFrameTable()
}
type resFrameTable interface {
	is_resFrameTable()
}

func (r req_FrameTable_Alloc) is_reqFrameTable()    {}
func (r res_FrameTable_Alloc) is_resFrameTable()    {}
func (r req_FrameTable_Free) is_reqFrameTable()     {}
func (r res_FrameTable_Free) is_resFrameTable()     {}
func (r req_FrameTable_Pin) is_reqFrameTable()      {}
func (r res_FrameTable_Pin) is_resFrameTable()      {}
func (r req_FrameTable_Unpin) is_reqFrameTable()    {}
func (r res_FrameTable_Unpin) is_resFrameTable()    {}
func (r req_FrameTable_SetPage) is_reqFrameTable()  {}
func (r res_FrameTable_SetPage) is_resFrameTable()  {}
func (r req_FrameTable_Evict) is_reqFrameTable()    {}
func (r res_FrameTable_Evict) is_resFrameTable()    {}
func (r req_FrameTable_Stats) is_reqFrameTable()    {}
func (r res_FrameTable_Stats) is_resFrameTable()    {}
func (r req_FrameTable_Shutdown) is_reqFrameTable() {}
func (r res_FrameTable_Shutdown) is_resFrameTable() {}

// Type check request/response types
var _ reqFrameTable = req_FrameTable_Alloc{}
var _ resFrameTable = res_FrameTable_Alloc{}
var _ reqFrameTable = req_FrameTable_Free{}
var _ resFrameTable = res_FrameTable_Free{}
var _ reqFrameTable = req_FrameTable_Pin{}
var _ resFrameTable = res_FrameTable_Pin{}
var _ reqFrameTable = req_FrameTable_Unpin{}
var _ resFrameTable = res_FrameTable_Unpin{}
var _ reqFrameTable = req_FrameTable_SetPage{}
var _ resFrameTable = res_FrameTable_SetPage{}
var _ reqFrameTable = req_FrameTable_Evict{}
var _ resFrameTable = res_FrameTable_Evict{}
var _ reqFrameTable = req_FrameTable_Stats{}
var _ resFrameTable = res_FrameTable_Stats{}
var _ reqFrameTable = req_FrameTable_Shutdown{}
var _ resFrameTable = res_FrameTable_Shutdown{}

func (ft *server_FrameTable) Alloc() *Frame {
	ft.in <- req_FrameTable_Alloc{}
	result := (<-ft.out).(res_FrameTable_Alloc)
	if result.Arg0 == nil {
		panic("out of frames: all frames are pinned")
	}
	return result.Arg0
}
func (ft *server_FrameTable) Free(f *Frame) {
	ft.in <- req_FrameTable_Free{f}
	<-ft.out
	return
}
func (ft *server_FrameTable) Pin(f *Frame) {
	ft.in <- req_FrameTable_Pin{f}
	<-ft.out
	return
}
func (ft *server_FrameTable) Unpin(f *Frame) {
	ft.in <- req_FrameTable_Unpin{f}
	<-ft.out
	return
}
func (ft *server_FrameTable) SetPage(f *Frame, p Page) {
	ft.in <- req_FrameTable_SetPage{f, p}
	<-ft.out
	return
}
func (ft *server_FrameTable) Evict(f *Frame) bool {
	ft.in <- req_FrameTable_Evict{f}
	result := (<-ft.out).(res_FrameTable_Evict)
	return result.Arg0
}
func (ft *server_FrameTable) Stats() (int, int) {
	ft.in <- req_FrameTable_Stats{}
	result := (<-ft.out).(res_FrameTable_Stats)
	return result.Arg0, result.Arg1
}
func (ft *server_FrameTable) Shutdown() error {
	ft.in <- req_FrameTable_Shutdown{}
	result := (<-ft.out).(res_FrameTable_Shutdown)
	return result.Arg0
}
