package alloctbl

type req_AllocTbl_AllocSector struct{}
type res_AllocTbl_AllocSector struct {
	Arg0 int
	Arg1 error
}
type req_AllocTbl_FreeSector struct {
	sector int
}
type res_AllocTbl_FreeSector struct {
	Arg0 error
}
type req_AllocTbl_Shutdown struct{}
type res_AllocTbl_Shutdown struct {
	Arg0 error
}

// Interface types and implementations
type reqAllocTbl interface {
	is_reqAllocTbl()
}
type resAllocTbl interface {
	is_resAllocTbl()
}

func (r req_AllocTbl_AllocSector) is_reqAllocTbl() {}
func (r res_AllocTbl_AllocSector) is_resAllocTbl() {}
func (r req_AllocTbl_FreeSector) is_reqAllocTbl()  {}
func (r res_AllocTbl_FreeSector) is_resAllocTbl()  {}
func (r req_AllocTbl_Shutdown) is_reqAllocTbl()    {}
func (r res_AllocTbl_Shutdown) is_resAllocTbl()    {}

// Type check request/response types
var _ reqAllocTbl = req_AllocTbl_AllocSector{}
var _ resAllocTbl = res_AllocTbl_AllocSector{}
var _ reqAllocTbl = req_AllocTbl_FreeSector{}
var _ resAllocTbl = res_AllocTbl_FreeSector{}
var _ reqAllocTbl = req_AllocTbl_Shutdown{}
var _ resAllocTbl = res_AllocTbl_Shutdown{}

func (alloc *server_AllocTbl) AllocSector() (int, error) {
	alloc.in <- req_AllocTbl_AllocSector{}
	result := (<-alloc.out).(res_AllocTbl_AllocSector)
	return result.Arg0, result.Arg1
}
func (alloc *server_AllocTbl) FreeSector(sector int) error {
	alloc.in <- req_AllocTbl_FreeSector{sector}
	result := (<-alloc.out).(res_AllocTbl_FreeSector)
	return result.Arg0
}
func (alloc *server_AllocTbl) Shutdown() error {
	alloc.in <- req_AllocTbl_Shutdown{}
	result := (<-alloc.out).(res_AllocTbl_Shutdown)
	return result.Arg0
}
