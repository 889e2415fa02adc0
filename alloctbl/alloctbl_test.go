package alloctbl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwalsh/corefs/bcache"
	"github.com/kwalsh/corefs/common"
	"github.com/kwalsh/corefs/testutils"
)

func openTestAlloc(t *testing.T, sectors int) common.AllocTbl {
	dev := testutils.NewBlankDevice(t, sectors)
	cache := bcache.NewSectorCache(dev, 8)

	// Fresh free map with the map and root sectors taken.
	var fmap [common.SECTOR_SIZE]byte
	fmap[0] = 1<<common.FREE_MAP_SECTOR | 1<<common.ROOT_DIR_SECTOR
	require.NoError(t, cache.IoAt(common.FREE_MAP_SECTOR, fmap[:], true, 0, common.SECTOR_SIZE, true))

	return NewAllocTbl(cache, sectors)
}

func TestAllocSequence(t *testing.T) {
	alloc := openTestAlloc(t, 16)

	a, err := alloc.AllocSector()
	require.NoError(t, err)
	b, err := alloc.AllocSector()
	require.NoError(t, err)

	assert.Equal(t, 2, a, "first free sector follows the root sector")
	assert.Equal(t, 3, b)
	require.NoError(t, alloc.Shutdown())
}

func TestFreeAndReuse(t *testing.T) {
	alloc := openTestAlloc(t, 16)

	a, _ := alloc.AllocSector()
	b, _ := alloc.AllocSector()
	c, _ := alloc.AllocSector()
	assert.Equal(t, []int{2, 3, 4}, []int{a, b, c})

	require.NoError(t, alloc.FreeSector(b))
	got, err := alloc.AllocSector()
	require.NoError(t, err)
	assert.Equal(t, b, got, "the lowest freed sector is reused first")
	require.NoError(t, alloc.Shutdown())
}

func TestExhaustion(t *testing.T) {
	alloc := openTestAlloc(t, 8)

	for i := 0; i < 6; i++ {
		_, err := alloc.AllocSector()
		require.NoError(t, err)
	}
	_, err := alloc.AllocSector()
	assert.Equal(t, common.ENOSPC, err)
	require.NoError(t, alloc.Shutdown())
}

func TestFreeReservedSectors(t *testing.T) {
	alloc := openTestAlloc(t, 8)

	assert.Equal(t, common.EINVAL, alloc.FreeSector(common.FREE_MAP_SECTOR))
	assert.Equal(t, common.EINVAL, alloc.FreeSector(common.ROOT_DIR_SECTOR))
	assert.Equal(t, common.EINVAL, alloc.FreeSector(8))
	require.NoError(t, alloc.Shutdown())
}
