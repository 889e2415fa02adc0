package inode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwalsh/corefs/alloctbl"
	"github.com/kwalsh/corefs/bcache"
	"github.com/kwalsh/corefs/common"
	"github.com/kwalsh/corefs/testutils"
)

func openTestTbl(t *testing.T, slots int) (common.BlockCache, common.AllocTbl, common.InodeTbl) {
	dev := testutils.NewBlankDevice(t, 64)
	cache := bcache.NewSectorCache(dev, 16)

	var fmap [common.SECTOR_SIZE]byte
	fmap[0] = 1<<common.FREE_MAP_SECTOR | 1<<common.ROOT_DIR_SECTOR
	require.NoError(t, cache.IoAt(common.FREE_MAP_SECTOR, fmap[:], true, 0, common.SECTOR_SIZE, true))

	alloc := alloctbl.NewAllocTbl(cache, 64)
	return cache, alloc, NewInodeTbl(cache, alloc, slots)
}

func TestOpenSharesInode(t *testing.T) {
	cache, alloc, itable := openTestTbl(t, 8)

	sector, err := alloc.AllocSector()
	require.NoError(t, err)
	require.NoError(t, Create(cache, sector, 0, false))

	rip, err := itable.OpenInode(sector)
	require.NoError(t, err)
	assert.Equal(t, 1, itable.OpenCount(rip))
	assert.False(t, rip.IsDirectory())

	// A second open of the same sector yields the same inode, and with
	// it the same directory lock.
	rip2, err := itable.OpenInode(sector)
	require.NoError(t, err)
	assert.Same(t, rip, rip2)
	assert.Same(t, rip.DirLock(), rip2.DirLock())
	assert.Equal(t, 2, itable.OpenCount(rip))

	rip3 := itable.DupInode(rip)
	assert.Same(t, rip, rip3)
	assert.Equal(t, 3, itable.OpenCount(rip))

	itable.PutInode(rip)
	itable.PutInode(rip2)
	itable.PutInode(rip3)
	require.NoError(t, itable.Shutdown())
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, _, itable := openTestTbl(t, 8)

	// Sector 5 was never written with an inode.
	_, err := itable.OpenInode(5)
	assert.Equal(t, common.EINVAL, err)
	require.NoError(t, itable.Shutdown())
}

func TestTableOverflow(t *testing.T) {
	cache, alloc, itable := openTestTbl(t, 2)

	var sectors []int
	for i := 0; i < 3; i++ {
		s, err := alloc.AllocSector()
		require.NoError(t, err)
		require.NoError(t, Create(cache, s, 0, false))
		sectors = append(sectors, s)
	}

	a, err := itable.OpenInode(sectors[0])
	require.NoError(t, err)
	b, err := itable.OpenInode(sectors[1])
	require.NoError(t, err)
	_, err = itable.OpenInode(sectors[2])
	assert.Equal(t, common.ENFILE, err)

	itable.PutInode(a)
	itable.PutInode(b)
	require.NoError(t, itable.Shutdown())
}

func TestReadWriteRoundTrip(t *testing.T) {
	cache, alloc, itable := openTestTbl(t, 8)

	sector, _ := alloc.AllocSector()
	require.NoError(t, Create(cache, sector, 0, false))
	rip, err := itable.OpenInode(sector)
	require.NoError(t, err)

	n, err := common.WriteAt(rip, []byte("hello, inode"), 0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.EqualValues(t, 12, rip.Length)
	itable.FlushInode(rip)

	buf := make([]byte, 12)
	n, err = common.ReadAt(rip, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, "hello, inode", string(buf))

	// Reads past the end are short.
	big := make([]byte, 64)
	n, err = common.ReadAt(rip, big, 4)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	itable.PutInode(rip)
	require.NoError(t, itable.Shutdown())

	// The inode survives a fresh table over the same cache.
	itable2 := NewInodeTbl(cache, alloc, 8)
	rip, err = itable2.OpenInode(sector)
	require.NoError(t, err)
	assert.EqualValues(t, 12, rip.Length)
	itable2.PutInode(rip)
	require.NoError(t, itable2.Shutdown())
}

// An inode marked removed gives back its data sectors and its own
// sector when the last handle closes.
func TestRemovedInodeFreesSectors(t *testing.T) {
	cache, alloc, itable := openTestTbl(t, 8)

	sector, _ := alloc.AllocSector()
	require.NoError(t, Create(cache, sector, 0, false))
	rip, err := itable.OpenInode(sector)
	require.NoError(t, err)

	_, err = common.WriteAt(rip, make([]byte, 2*common.SECTOR_SIZE), 0)
	require.NoError(t, err)

	itable.MarkRemoved(rip)
	itable.PutInode(rip)

	// Everything the inode held is allocatable again, lowest first.
	got, err := alloc.AllocSector()
	require.NoError(t, err)
	assert.Equal(t, sector, got)

	require.NoError(t, itable.Shutdown())
}
