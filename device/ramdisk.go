package device

import (
	"github.com/kwalsh/corefs/common"
)

// A ramdisk device backed by a byte slice, one request at a time through
// the server loop so concurrent callers see sector-atomic transfers.
type ramdiskDevice struct {
	data    []byte
	sectors int
	in      chan m_dev_req
}

func NewRamdiskDevice(data []byte) (common.BlockDevice, error) {
	if len(data) == 0 || len(data)%common.SECTOR_SIZE != 0 {
		return nil, common.EINVAL
	}
	dev := &ramdiskDevice{
		data:    data,
		sectors: len(data) / common.SECTOR_SIZE,
		in:      make(chan m_dev_req),
	}
	go dev.loop()
	return dev, nil
}

func (dev *ramdiskDevice) loop() {
	for req := range dev.in {
		switch req.call {
		case devRead:
			pos := req.sector * common.SECTOR_SIZE
			copy(req.buf, dev.data[pos:pos+common.SECTOR_SIZE])
			req.res <- nil
		case devWrite:
			pos := req.sector * common.SECTOR_SIZE
			copy(dev.data[pos:pos+common.SECTOR_SIZE], req.buf)
			req.res <- nil
		case devClose:
			req.res <- nil
			close(dev.in)
			return
		}
	}
}

func (dev *ramdiskDevice) do(call callNumber, sector int, buf []byte) error {
	if call != devClose {
		if sector < 0 || sector >= dev.sectors {
			return common.EINVAL
		}
		if len(buf) < common.SECTOR_SIZE {
			return common.EINVAL
		}
	}
	res := make(chan error)
	dev.in <- m_dev_req{call, sector, buf, res}
	return <-res
}

func (dev *ramdiskDevice) ReadSector(sector int, buf []byte) error {
	return dev.do(devRead, sector, buf)
}

func (dev *ramdiskDevice) WriteSector(sector int, buf []byte) error {
	return dev.do(devWrite, sector, buf)
}

func (dev *ramdiskDevice) Sectors() int {
	return dev.sectors
}

func (dev *ramdiskDevice) Close() error {
	return dev.do(devClose, 0, nil)
}
