package dir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwalsh/corefs/common"
)

func TestParseFilename(t *testing.T) {
	assert.Equal(t, "c", ParseFilename("a/b/c"))
	assert.Equal(t, "c", ParseFilename("/a/b/c"))
	assert.Equal(t, "c", ParseFilename("c"))
	assert.Equal(t, "", ParseFilename("a/"))
	assert.Equal(t, "", ParseFilename("/"))
}

// buildTree makes /a/b/c plus /u/a/b and returns the fs handle with
// the root open.
func buildTree(t *testing.T) (*testFS, *Dir, map[string]int) {
	tfs := newTestFS(t)
	root := tfs.openRoot(t)

	sectors := make(map[string]int)
	mk := func(parent *Dir, path, name string) *Dir {
		sectors[path] = tfs.newDir(t, parent, name)
		rip, err := tfs.itable.OpenInode(sectors[path])
		require.NoError(t, err)
		d, err := Open(tfs.itable, rip)
		require.NoError(t, err)
		return d
	}

	a := mk(root, "/a", "a")
	b := mk(a, "/a/b", "b")
	c := mk(b, "/a/b/c", "c")
	u := mk(root, "/u", "u")
	ua := mk(u, "/u/a", "a")
	ub := mk(ua, "/u/a/b", "b")
	for _, d := range []*Dir{a, b, c, u, ua, ub} {
		d.Close()
	}
	return tfs, root, sectors
}

func TestOpenDirsAbsolute(t *testing.T) {
	_, root, sectors := buildTree(t)
	defer root.Close()

	parent, err := OpenDirs(root, "/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, sectors["/a/b"], parent.Inode().Sector, "the parent of c is /a/b")
	parent.Close()
}

// Relative paths resolve from the working directory handle; absolute
// paths ignore it.
func TestOpenDirsRelative(t *testing.T) {
	tfs, root, sectors := buildTree(t)
	defer root.Close()

	urip, err := tfs.itable.OpenInode(sectors["/u"])
	require.NoError(t, err)
	cwd, err := Open(tfs.itable, urip)
	require.NoError(t, err)
	defer cwd.Close()

	parent, err := OpenDirs(cwd, "a/b/c")
	require.NoError(t, err)
	assert.Equal(t, sectors["/u/a/b"], parent.Inode().Sector)
	parent.Close()

	parent, err = OpenDirs(cwd, "/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, sectors["/a/b"], parent.Inode().Sector)
	parent.Close()
}

func TestOpenDirsCanonicalisation(t *testing.T) {
	_, root, sectors := buildTree(t)
	defer root.Close()

	parent, err := OpenDirs(root, "/a//b/c")
	require.NoError(t, err)
	assert.Equal(t, sectors["/a/b"], parent.Inode().Sector, "repeated slashes collapse")
	parent.Close()

	_, err = OpenDirs(root, "/a/b/")
	assert.Equal(t, common.EINVAL, err, "trailing slash is a syntax error")
}

func TestOpenDirsDotDot(t *testing.T) {
	_, root, sectors := buildTree(t)
	defer root.Close()

	parent, err := OpenDirs(root, "/a/b/../b/c")
	require.NoError(t, err)
	assert.Equal(t, sectors["/a/b"], parent.Inode().Sector)
	parent.Close()
}

func TestOpenDirsErrors(t *testing.T) {
	_, root, _ := buildTree(t)
	defer root.Close()

	_, err := OpenDirs(root, "/nope/x")
	assert.Equal(t, common.ENOENT, err, "lookup failure fails the resolution")

	long := strings.Repeat("A", common.NAME_MAX+1)
	_, err = OpenDirs(root, "/"+long+"/x")
	assert.Equal(t, common.ENAMETOOLONG, err)
}

func TestOpenDirsThroughFile(t *testing.T) {
	tfs, root, _ := buildTree(t)
	defer root.Close()

	require.NoError(t, root.Add("f", tfs.newFile(t)))
	_, err := OpenDirs(root, "/f/x")
	assert.Equal(t, common.ENOTDIR, err)
}

// A resolved parent plus a final lookup agrees with resolving the whole
// path one hop at a time.
func TestResolutionAgreement(t *testing.T) {
	tfs, root, sectors := buildTree(t)
	defer root.Close()

	parent, err := OpenDirs(root, "/a/b/c")
	require.NoError(t, err)
	rip, err := parent.Lookup(ParseFilename("/a/b/c"))
	require.NoError(t, err)
	assert.Equal(t, sectors["/a/b/c"], rip.Sector)
	tfs.itable.PutInode(rip)
	parent.Close()
}
