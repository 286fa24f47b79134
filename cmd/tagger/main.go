// Command tagger renames a directory of images into a numbered output set
// and serves a local API for tagging them.
//
// @title Image Tagger API
// @version 1.0
// @description Local image tagging assistant. Images are renamed into an output directory and tagged through this API or the /ws realtime channel.
// @BasePath /api
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
