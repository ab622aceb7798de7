// Command framemill ingests a video file, applies the fixed transform
// battery to every frame, serves the live views, and writes the annotated
// stream to a new video file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
