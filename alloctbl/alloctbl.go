// Package alloctbl hands out device sectors from the on-disk free map,
// a bitmap kept in the free-map sector and read and written through the
// sector cache. One bit per sector, set means allocated.
package alloctbl

import (
	"github.com/kwalsh/corefs/common"
)

type server_AllocTbl struct {
	cache    common.BlockCache
	nsectors int // sectors on the device, bounded by the map's capacity
	search   int // start searching for free sectors here

	in  chan reqAllocTbl
	out chan resAllocTbl
}

func NewAllocTbl(cache common.BlockCache, nsectors int) common.AllocTbl {
	if max := common.SECTOR_SIZE * 8; nsectors > max {
		nsectors = max
	}
	alloc := &server_AllocTbl{
		cache:    cache,
		nsectors: nsectors,
		in:       make(chan reqAllocTbl),
		out:      make(chan resAllocTbl),
	}

	go alloc.loop()
	return alloc
}

func (alloc *server_AllocTbl) loop() {
	alive := true
	for alive {
		req := <-alloc.in
		switch req := req.(type) {
		case req_AllocTbl_AllocSector:
			sector, err := alloc.allocBit()
			if err != nil {
				alloc.out <- res_AllocTbl_AllocSector{common.NO_SECTOR, err}
				continue
			}
			alloc.search = sector
			alloc.out <- res_AllocTbl_AllocSector{sector, nil}
		case req_AllocTbl_FreeSector:
			err := alloc.freeBit(req.sector)
			if err == nil && req.sector < alloc.search {
				alloc.search = req.sector
			}
			alloc.out <- res_AllocTbl_FreeSector{err}
		case req_AllocTbl_Shutdown:
			alive = false
			alloc.out <- res_AllocTbl_Shutdown{nil}
		}
	}
}

// allocBit finds the lowest free bit at or after the search hint,
// wrapping once, sets it and writes the map back.
func (alloc *server_AllocTbl) allocBit() (int, error) {
	var fmap [common.SECTOR_SIZE]byte
	err := alloc.cache.IoAt(common.FREE_MAP_SECTOR, fmap[:], true, 0, common.SECTOR_SIZE, false)
	if err != nil {
		return common.NO_SECTOR, err
	}

	for n := 0; n < alloc.nsectors; n++ {
		bit := (alloc.search + n) % alloc.nsectors
		if fmap[bit/8]&(1<<(uint(bit)%8)) == 0 {
			fmap[bit/8] |= 1 << (uint(bit) % 8)
			err = alloc.cache.IoAt(common.FREE_MAP_SECTOR, fmap[bit/8:bit/8+1], true, bit/8, 1, true)
			if err != nil {
				return common.NO_SECTOR, err
			}
			return bit, nil
		}
	}
	return common.NO_SECTOR, common.ENOSPC
}

func (alloc *server_AllocTbl) freeBit(sector int) error {
	if sector <= common.ROOT_DIR_SECTOR || sector >= alloc.nsectors {
		return common.EINVAL
	}
	var b [1]byte
	err := alloc.cache.IoAt(common.FREE_MAP_SECTOR, b[:], true, sector/8, 1, false)
	if err != nil {
		return err
	}
	b[0] &^= 1 << (uint(sector) % 8)
	return alloc.cache.IoAt(common.FREE_MAP_SECTOR, b[:], true, sector/8, 1, true)
}
