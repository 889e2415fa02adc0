package common

import "errors"

var (
	EBUSY        = errors.New("resource busy")
	EEXIST       = errors.New("file exists")
	EFBIG        = errors.New("file too large")
	EINVAL       = errors.New("invalid argument")
	EIO          = errors.New("input/output error")
	EISDIR       = errors.New("is a directory")
	ENAMETOOLONG = errors.New("name too long")
	ENFILE       = errors.New("inode table overflow")
	ENOENT       = errors.New("no such file or directory")
	ENOSPC       = errors.New("no space left on device")
	ENOTDIR      = errors.New("not a directory")
	ENOTEMPTY    = errors.New("directory not empty")
)
