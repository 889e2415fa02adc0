package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kwalsh/corefs/fs"
)

// This command walks a disk image and prints its directory tree.

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <filename>\n", os.Args[0])
		os.Exit(1)
	}

	_, proc, err := fs.OpenFileSystemFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to mount disk image: %s\n", err)
		os.Exit(1)
	}

	walk(proc, "/", 0)

	if err := proc.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to shut down cleanly: %s\n", err)
		os.Exit(1)
	}
}

func walk(proc *fs.Process, path string, depth int) {
	names, err := proc.ReadDir(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to read %s: %s\n", path, err)
		return
	}

	for _, name := range names {
		child := path + name
		if !strings.HasSuffix(path, "/") {
			child = path + "/" + name
		}
		info, err := proc.Stat(child)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to stat %s: %s\n", child, err)
			continue
		}
		if info.IsDir {
			fmt.Printf("%s%s/ (sector %d)\n", strings.Repeat("  ", depth), name, info.Sector)
			walk(proc, child, depth+1)
		} else {
			fmt.Printf("%s%s (sector %d, %d bytes)\n", strings.Repeat("  ", depth), name, info.Sector, info.Length)
		}
	}
}
