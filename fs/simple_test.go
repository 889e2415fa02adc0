package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwalsh/corefs/common"
	"github.com/kwalsh/corefs/testutils"
)

func openTestFS(t *testing.T) (common.BlockDevice, *FileSystem, *Process) {
	dev := testutils.NewBlankDevice(t, 512)
	require.NoError(t, Format(dev))
	filesys, proc, err := NewFileSystem(dev)
	require.NoError(t, err)
	return dev, filesys, proc
}

func TestFreshFilesystem(t *testing.T) {
	_, _, proc := openTestFS(t)

	names, err := proc.ReadDir("/")
	require.NoError(t, err)
	assert.Empty(t, names, "a fresh root lists nothing beyond . and ..")

	info, err := proc.Stat("/")
	require.NoError(t, err)
	assert.True(t, info.IsDir)
	assert.Equal(t, common.ROOT_DIR_SECTOR, info.Sector)

	require.NoError(t, proc.Shutdown())
}

func TestCreatLookupUnlink(t *testing.T) {
	_, _, proc := openTestFS(t)

	require.NoError(t, proc.Creat("/x"))

	info, err := proc.Stat("/x")
	require.NoError(t, err)
	assert.False(t, info.IsDir)
	assert.Equal(t, 0, info.Length)

	require.NoError(t, proc.Unlink("/x"))
	_, err = proc.Stat("/x")
	assert.Equal(t, common.ENOENT, err)

	require.NoError(t, proc.Shutdown())
}

func TestDuplicateCreat(t *testing.T) {
	_, _, proc := openTestFS(t)

	require.NoError(t, proc.Creat("/x"))
	assert.Equal(t, common.EEXIST, proc.Creat("/x"))
	require.NoError(t, proc.Shutdown())
}

func TestMountRejectsUnformatted(t *testing.T) {
	dev := testutils.NewBlankDevice(t, 64)
	_, _, err := NewFileSystem(dev)
	assert.Error(t, err)
}

// Everything written before a sync must survive a remount of the same
// device.
func TestSyncPersists(t *testing.T) {
	dev, _, proc := openTestFS(t)

	require.NoError(t, proc.Mkdir("/docs"))
	require.NoError(t, proc.Creat("/docs/readme"))
	require.NoError(t, proc.Shutdown())

	_, proc, err := NewFileSystem(dev)
	require.NoError(t, err)

	info, err := proc.Stat("/docs/readme")
	require.NoError(t, err)
	assert.False(t, info.IsDir)

	names, err := proc.ReadDir("/docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"readme"}, names)

	require.NoError(t, proc.Shutdown())
}
