package device

import (
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/kwalsh/corefs/common"
)

// A block device backed by a file on the host filesystem.
type fileDevice struct {
	file    *os.File
	sectors int
	m       sync.Mutex
}

func NewFileDevice(filename string) (common.BlockDevice, error) {
	file, err := os.OpenFile(filename, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open disk image %q", filename)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "stat disk image %q", filename)
	}
	if info.Size() == 0 || info.Size()%common.SECTOR_SIZE != 0 {
		file.Close()
		return nil, errors.Errorf("disk image %q is not sector aligned (%d bytes)", filename, info.Size())
	}
	return &fileDevice{
		file:    file,
		sectors: int(info.Size() / common.SECTOR_SIZE),
	}, nil
}

func (dev *fileDevice) ReadSector(sector int, buf []byte) error {
	if sector < 0 || sector >= dev.sectors || len(buf) < common.SECTOR_SIZE {
		return common.EINVAL
	}
	dev.m.Lock()
	defer dev.m.Unlock()
	if _, err := dev.file.ReadAt(buf[:common.SECTOR_SIZE], int64(sector)*common.SECTOR_SIZE); err != nil {
		return errors.Wrapf(err, "read sector %d", sector)
	}
	return nil
}

func (dev *fileDevice) WriteSector(sector int, buf []byte) error {
	if sector < 0 || sector >= dev.sectors || len(buf) < common.SECTOR_SIZE {
		return common.EINVAL
	}
	dev.m.Lock()
	defer dev.m.Unlock()
	if _, err := dev.file.WriteAt(buf[:common.SECTOR_SIZE], int64(sector)*common.SECTOR_SIZE); err != nil {
		return errors.Wrapf(err, "write sector %d", sector)
	}
	return nil
}

func (dev *fileDevice) Sectors() int {
	return dev.sectors
}

func (dev *fileDevice) Close() error {
	return dev.file.Close()
}
