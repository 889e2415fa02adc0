package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kwalsh/corefs/common"
	"github.com/kwalsh/corefs/device"
	"github.com/kwalsh/corefs/fs"
)

// This command creates a new disk image holding an empty filesystem
// with a root directory.

func main() {
	var sectors int
	var help bool

	flag.IntVar(&sectors, "sectors", 1024, "the size of the filesystem (in sectors)")
	flag.BoolVar(&help, "help", false, "display the usage for this command")
	flag.Parse()

	if help || flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <filename>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	if sectors < 2 || sectors > common.SECTOR_SIZE*8 {
		fmt.Fprintf(os.Stderr, "Sector count must be between 2 and %d\n", common.SECTOR_SIZE*8)
		os.Exit(1)
	}

	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to create disk image: %s\n", err)
		os.Exit(1)
	}
	if err := file.Truncate(int64(sectors) * common.SECTOR_SIZE); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to size disk image: %s\n", err)
		os.Exit(1)
	}
	file.Close()

	dev, err := device.NewFileDevice(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open disk image: %s\n", err)
		os.Exit(1)
	}
	if err := fs.Format(dev); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to format disk image: %s\n", err)
		os.Exit(1)
	}
	if err := dev.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to close disk image: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Formatted %s with %d sectors\n", filename, sectors)
}
