package main

import (
	"fmt"
	"strconv"

	"pixels/internal/chunk"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type planeOut struct {
	ID       string     `yaml:"id"`
	Position [3]float32 `yaml:"position,flow"`
	Size     float32    `yaml:"size"`
	Media    int        `yaml:"media"`
}

func newChunkCmd() *cobra.Command {
	var (
		media  int
		size   float32
		asYAML bool
	)
	cmd := &cobra.Command{
		Use:   "chunk X Y Z",
		Short: "Print the generated plane layout of one chunk",
		Long: `Print the generated plane layout of one chunk.

Flags go before the coordinates; put -- in front of a leading negative coordinate:
  pixels chunk --media 40 -- -1 0 3`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var k [3]int
			for i, a := range args {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("chunk: coordinate %q: %w", a, err)
				}
				k[i] = n
			}
			key := chunk.Key{X: k[0], Y: k[1], Z: k[2]}
			planes := chunk.GeneratePlanes(key, size, media)

			out := make([]planeOut, len(planes))
			for i, p := range planes {
				idx := p.MediaIndex
				if media > 0 {
					idx = p.Media(media)
				}
				out[i] = planeOut{
					ID:       p.ID,
					Position: [3]float32{p.Position.X, p.Position.Y, p.Position.Z},
					Size:     p.Scale.X,
					Media:    idx,
				}
			}
			w := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(w)
				defer enc.Close()
				return enc.Encode(out)
			}
			fmt.Fprintf(w, "chunk %s (seed %d)\n", key, chunk.HashString(key.String()))
			for _, p := range out {
				fmt.Fprintf(w, "%-14s pos=(%8.2f, %8.2f, %8.2f) size=%5.2f media=%d\n",
					p.ID, p.Position[0], p.Position[1], p.Position[2], p.Size, p.Media)
			}
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().IntVar(&media, "media", 0, "Catalog size used to reduce media indices (0 keeps raw indices)")
	cmd.Flags().Float32Var(&size, "size", chunk.DefaultSize, "Chunk size in world units")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print YAML instead of a table")
	return cmd
}
