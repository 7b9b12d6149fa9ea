package main

// Must be first import - fixes Warp terminal delay before lipgloss loads
import _ "github.com/mkarlsen/prmerge/internal/termfix"

import "github.com/mkarlsen/prmerge/internal/cli"

func main() {
	cli.Execute()
}
