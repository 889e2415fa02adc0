package common

import "io"

// SectorFor returns the device sector backing byte position 'pos' of the
// given inode, or NO_SECTOR if the position is a hole or beyond the
// mapped area.
func SectorFor(rip *Inode, pos int) int {
	if pos < 0 || pos >= MAX_FILE_SIZE {
		return NO_SECTOR
	}
	s := rip.Direct[pos/SECTOR_SIZE]
	if s == 0 {
		return NO_SECTOR
	}
	return int(s)
}

// ReadAt reads up to len(buf) bytes from the inode starting at position
// 'pos', splitting the transfer into chunks that do not span two
// sectors. A short count means end of file; holes read as zeros. When
// more mapped data follows the current chunk the next sector is handed
// to the cache as a read-ahead hint.
func ReadAt(rip *Inode, buf []byte, pos int) (int, error) {
	size := int(rip.Length)
	if pos < 0 {
		return 0, EINVAL
	}
	if pos >= size {
		return 0, io.EOF
	}
	if pos+len(buf) > size {
		buf = buf[:size-pos]
	}

	numBytes := 0
	for numBytes < len(buf) {
		curpos := pos + numBytes
		off := curpos % SECTOR_SIZE
		chunk := len(buf) - numBytes
		if chunk > SECTOR_SIZE-off {
			chunk = SECTOR_SIZE - off
		}

		b := SectorFor(rip, curpos)
		if b == NO_SECTOR {
			for i := 0; i < chunk; i++ {
				buf[numBytes+i] = 0
			}
			numBytes += chunk
			continue
		}

		var err error
		nextpos := curpos - off + SECTOR_SIZE
		if next := SectorFor(rip, nextpos); next != NO_SECTOR && nextpos < size {
			err = rip.Bcache.IoAtNext(b, buf[numBytes:], rip.IsDirectory(), off, chunk, false, next)
		} else {
			err = rip.Bcache.IoAt(b, buf[numBytes:], rip.IsDirectory(), off, chunk, false)
		}
		if err != nil {
			return numBytes, err
		}
		numBytes += chunk
	}

	return numBytes, nil
}

// WriteAt writes len(buf) bytes to the inode at position 'pos',
// allocating backing sectors as needed and growing the inode's length.
// The caller owns flushing the modified inode back to disk.
func WriteAt(rip *Inode, buf []byte, pos int) (int, error) {
	if pos < 0 {
		return 0, EINVAL
	}
	if pos+len(buf) > MAX_FILE_SIZE {
		return 0, EFBIG
	}

	numBytes := 0
	for numBytes < len(buf) {
		curpos := pos + numBytes
		off := curpos % SECTOR_SIZE
		chunk := len(buf) - numBytes
		if chunk > SECTOR_SIZE-off {
			chunk = SECTOR_SIZE - off
		}

		b := SectorFor(rip, curpos)
		if b == NO_SECTOR {
			var err error
			b, err = newSector(rip, curpos)
			if err != nil {
				return numBytes, err
			}
		}

		err := rip.Bcache.IoAt(b, buf[numBytes:], rip.IsDirectory(), off, chunk, true)
		if err != nil {
			return numBytes, err
		}
		numBytes += chunk
	}

	if end := pos + numBytes; end > int(rip.Length) {
		rip.Length = uint32(end)
	}
	if numBytes > 0 {
		rip.Dirty = true
	}
	return numBytes, nil
}

// Truncate releases every sector backing data at or past 'length'. Used
// when an unlinked inode is finally closed.
func Truncate(rip *Inode, length int) {
	first := (length + SECTOR_SIZE - 1) / SECTOR_SIZE
	for i := first; i < NR_DIRECT_SECTORS; i++ {
		if rip.Direct[i] != 0 {
			rip.Alloc.FreeSector(int(rip.Direct[i]))
			rip.Direct[i] = 0
		}
	}
	if int(rip.Length) > length {
		rip.Length = uint32(length)
	}
	rip.Dirty = true
}

// newSector allocates a fresh backing sector for position 'pos' and
// installs it in the direct table. The sector is zeroed through the
// cache so unwritten bytes read back as zeros; a full-sector write is
// used so the cache need not load the stale device contents first.
func newSector(rip *Inode, pos int) (int, error) {
	s, err := rip.Alloc.AllocSector()
	if err != nil {
		return NO_SECTOR, err
	}

	var zero [SECTOR_SIZE]byte
	if err := rip.Bcache.IoAt(s, zero[:], rip.IsDirectory(), 0, SECTOR_SIZE, true); err != nil {
		rip.Alloc.FreeSector(s)
		return NO_SECTOR, err
	}

	rip.Direct[pos/SECTOR_SIZE] = uint32(s)
	rip.Dirty = true
	return s, nil
}
