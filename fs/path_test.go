package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwalsh/corefs/common"
)

func TestChdirRelativePaths(t *testing.T) {
	_, _, proc := openTestFS(t)

	require.NoError(t, proc.Mkdir("/u"))
	require.NoError(t, proc.Chdir("/u"))

	// Relative paths now resolve under /u; absolute paths do not.
	require.NoError(t, proc.Mkdir("a"))
	info, err := proc.Stat("/u/a")
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	require.NoError(t, proc.Creat("a/f"))
	_, err = proc.Stat("/u/a/f")
	require.NoError(t, err)

	_, err = proc.Stat("/a")
	assert.Equal(t, common.ENOENT, err)

	require.NoError(t, proc.Chdir("/"))
	require.NoError(t, proc.Unlink("/u/a/f"))
	require.NoError(t, proc.Rmdir("/u/a"))
	require.NoError(t, proc.Rmdir("/u"))
	require.NoError(t, proc.Shutdown())
}

func TestChdirRejectsFiles(t *testing.T) {
	_, _, proc := openTestFS(t)

	require.NoError(t, proc.Creat("/f"))
	assert.Equal(t, common.ENOTDIR, proc.Chdir("/f"))
	require.NoError(t, proc.Shutdown())
}

func TestPathCanonicalisation(t *testing.T) {
	_, _, proc := openTestFS(t)

	require.NoError(t, proc.Mkdir("/a"))
	require.NoError(t, proc.Mkdir("/a/b"))
	require.NoError(t, proc.Creat("/a//b/c"))

	_, err := proc.Stat("/a/b/c")
	require.NoError(t, err)

	assert.Error(t, proc.Creat("/a/b/"), "trailing slash is rejected")
	require.NoError(t, proc.Shutdown())
}

// Forked processes inherit the working directory by value: later chdirs
// are private to each process.
func TestForkInheritsCwd(t *testing.T) {
	_, _, proc := openTestFS(t)

	require.NoError(t, proc.Mkdir("/u"))
	require.NoError(t, proc.Mkdir("/v"))
	require.NoError(t, proc.Chdir("/u"))

	child, err := proc.Fork()
	require.NoError(t, err)
	require.NoError(t, child.Creat("inherited"))
	_, err = proc.Stat("/u/inherited")
	require.NoError(t, err)

	require.NoError(t, child.Chdir("/v"))
	require.NoError(t, child.Creat("moved"))
	require.NoError(t, proc.Creat("stayed"))

	_, err = proc.Stat("/v/moved")
	require.NoError(t, err)
	_, err = proc.Stat("/u/stayed")
	require.NoError(t, err)

	child.Exit()

	// The parent's handle is untouched by the child's exit.
	require.NoError(t, proc.Creat("after"))
	_, err = proc.Stat("/u/after")
	require.NoError(t, err)

	require.NoError(t, proc.Chdir("/"))
	require.NoError(t, proc.Shutdown())
}

// Shutdown refuses while other processes are alive.
func TestShutdownBusy(t *testing.T) {
	_, _, proc := openTestFS(t)

	child, err := proc.Fork()
	require.NoError(t, err)

	assert.Equal(t, common.EBUSY, proc.Shutdown())
	child.Exit()
	require.NoError(t, proc.Shutdown())
}
