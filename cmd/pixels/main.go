// Command pixels opens an infinite 3D canvas of images and videos.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pixels",
		Short: "Infinite 3D media canvas",
		Long: `pixels - fly through an endless field of images and videos.

Controls:
  Mouse drag      - Look around
  Scroll / pinch  - Travel forward and back
  W/S/A/D, arrows - Move
  E/Q             - Up / down
  Click           - Focus a plane
  Esc             - Release focus
  ` + "`" + `               - Debug console`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newChunkCmd(), newConfigCmd())
	return root
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}
