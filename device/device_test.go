package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwalsh/corefs/common"
)

func TestRamdiskRoundTrip(t *testing.T) {
	dev, err := NewRamdiskDevice(make([]byte, 4*common.SECTOR_SIZE))
	require.NoError(t, err)

	out := make([]byte, common.SECTOR_SIZE)
	for i := range out {
		out[i] = byte(i)
	}
	require.NoError(t, dev.WriteSector(2, out))

	in := make([]byte, common.SECTOR_SIZE)
	require.NoError(t, dev.ReadSector(2, in))
	assert.Equal(t, out, in)

	assert.Equal(t, 4, dev.Sectors())
	require.NoError(t, dev.Close())
}

func TestRamdiskBounds(t *testing.T) {
	dev, err := NewRamdiskDevice(make([]byte, 2*common.SECTOR_SIZE))
	require.NoError(t, err)

	buf := make([]byte, common.SECTOR_SIZE)
	assert.Equal(t, common.EINVAL, dev.ReadSector(-1, buf))
	assert.Equal(t, common.EINVAL, dev.ReadSector(2, buf))
	assert.Equal(t, common.EINVAL, dev.WriteSector(0, buf[:8]))
	require.NoError(t, dev.Close())
}

func TestRamdiskRejectsUnaligned(t *testing.T) {
	_, err := NewRamdiskDevice(make([]byte, 100))
	assert.Error(t, err)
	_, err = NewRamdiskDevice(nil)
	assert.Error(t, err)
}
