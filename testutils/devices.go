package testutils

import (
	"sync/atomic"
	"testing"

	"github.com/kwalsh/corefs/common"
	"github.com/kwalsh/corefs/device"
)

// NewTestDevice returns a ramdisk with the given number of sectors,
// each sector filled with its own sector number, so tests can tell at a
// glance which sector a buffer came from.
func NewTestDevice(t *testing.T, sectors int) common.BlockDevice {
	data := make([]byte, sectors*common.SECTOR_SIZE)
	for i := 0; i < sectors; i++ {
		for j := 0; j < common.SECTOR_SIZE; j++ {
			data[i*common.SECTOR_SIZE+j] = byte(i)
		}
	}
	dev, err := device.NewRamdiskDevice(data)
	if err != nil {
		t.Fatalf("failed to create ramdisk device: %s", err)
	}
	return dev
}

// NewBlankDevice returns a zero-filled ramdisk, suitable for formatting.
func NewBlankDevice(t *testing.T, sectors int) common.BlockDevice {
	dev, err := device.NewRamdiskDevice(make([]byte, sectors*common.SECTOR_SIZE))
	if err != nil {
		t.Fatalf("failed to create ramdisk device: %s", err)
	}
	return dev
}

// A BlockingDevice blocks on every read. It announces each blocked read
// on HasBlocked and waits to be released on Unblock, letting tests
// script device-level concurrency.
type BlockingDevice struct {
	common.BlockDevice
	HasBlocked chan bool
	Unblock    chan bool
}

func NewBlockingDevice(rdev common.BlockDevice) *BlockingDevice {
	return &BlockingDevice{
		BlockDevice: rdev,
		HasBlocked:  make(chan bool),
		Unblock:     make(chan bool),
	}
}

func (dev *BlockingDevice) ReadSector(sector int, buf []byte) error {
	dev.HasBlocked <- true
	<-dev.Unblock
	return dev.BlockDevice.ReadSector(sector, buf)
}

// A CountingDevice counts the sector transfers that reach the device,
// so tests can prove an access was served from the cache.
type CountingDevice struct {
	common.BlockDevice
	Reads  atomic.Int64
	Writes atomic.Int64
}

func NewCountingDevice(rdev common.BlockDevice) *CountingDevice {
	return &CountingDevice{BlockDevice: rdev}
}

func (dev *CountingDevice) ReadSector(sector int, buf []byte) error {
	dev.Reads.Add(1)
	return dev.BlockDevice.ReadSector(sector, buf)
}

func (dev *CountingDevice) WriteSector(sector int, buf []byte) error {
	dev.Writes.Add(1)
	return dev.BlockDevice.WriteSector(sector, buf)
}
