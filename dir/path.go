package dir

import (
	"strings"

	"github.com/kwalsh/corefs/common"
)

// ParseFilename returns the filename component of a filepath: whatever
// follows the last slash, or the filepath itself if there is none.
func ParseFilename(filepath string) string {
	if i := strings.LastIndexByte(filepath, '/'); i >= 0 {
		return filepath[i+1:]
	}
	return filepath
}

// OpenDirs resolves every component of the filepath but the last and
// returns a handle to that parent directory. Absolute paths start at
// the root; relative paths start at the given working directory, which
// is reopened so the returned handle is independent. Repeated slashes
// collapse; a trailing slash is rejected, since the function resolves
// to the parent of a file. Each component is looked up under the
// parent's lock, and the lock is released before descending, so no two
// inode locks are ever held at once.
func OpenDirs(cwd *Dir, filepath string) (*Dir, error) {
	var parent *Dir
	var err error

	itable := cwd.itable
	if strings.HasPrefix(filepath, "/") {
		parent, err = OpenRoot(itable)
		filepath = filepath[1:]
	} else {
		parent, err = cwd.Reopen()
	}
	if err != nil {
		return nil, err
	}

	for {
		i := strings.IndexByte(filepath, '/')
		if i < 0 {
			break
		}
		if i == len(filepath)-1 {
			parent.Close()
			return nil, common.EINVAL
		}
		if i == 0 {
			filepath = filepath[1:]
			continue
		}
		name := filepath[:i]
		if len(name) > common.NAME_MAX {
			parent.Close()
			return nil, common.ENAMETOOLONG
		}

		rip, err := parent.Lookup(name)
		parent.Close()
		if err != nil {
			return nil, err
		}
		parent, err = Open(itable, rip)
		if err != nil {
			return nil, err
		}
		filepath = filepath[i+1:]
	}

	return parent, nil
}
