package dir

import (
	"bytes"
	"encoding/binary"

	"github.com/kwalsh/corefs/common"
)

// dirEntry is one on-disk directory slot: the sector of the entry's
// inode, a null-padded name and the in-use flag. Encoded little-endian
// it occupies exactly DIR_ENTRY_SIZE bytes.
type dirEntry struct {
	Sector uint32
	Name   [common.NAME_MAX + 1]byte
	InUse  uint8
}

func (e *dirEntry) name() string {
	n := bytes.IndexByte(e.Name[:], 0)
	if n < 0 {
		n = len(e.Name)
	}
	return string(e.Name[:n])
}

func (e *dirEntry) setName(name string) {
	for i := range e.Name {
		e.Name[i] = 0
	}
	copy(e.Name[:common.NAME_MAX], name)
}

// readEntry decodes the slot at byte offset 'ofs' of the directory's
// inode. A short read means end of directory.
func readEntry(rip *common.Inode, ofs int) (*dirEntry, bool) {
	var buf [common.DIR_ENTRY_SIZE]byte
	n, err := common.ReadAt(rip, buf[:], ofs)
	if err != nil || n < common.DIR_ENTRY_SIZE {
		return nil, false
	}
	e := new(dirEntry)
	if err := binary.Read(bytes.NewReader(buf[:]), binary.LittleEndian, e); err != nil {
		return nil, false
	}
	return e, true
}

// writeEntry commits a full slot at byte offset 'ofs'. Anything short of
// a whole entry is a failure.
func writeEntry(rip *common.Inode, ofs int, e *dirEntry) error {
	buf := new(bytes.Buffer)
	buf.Grow(common.DIR_ENTRY_SIZE)
	if err := binary.Write(buf, binary.LittleEndian, e); err != nil {
		return err
	}
	n, err := common.WriteAt(rip, buf.Bytes(), ofs)
	if err != nil {
		return err
	}
	if n != common.DIR_ENTRY_SIZE {
		return common.EIO
	}
	return nil
}
