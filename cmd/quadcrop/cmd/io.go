package cmd

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/framelift/quadcrop/internal/config"
	"github.com/framelift/quadcrop/internal/detection"
	"github.com/framelift/quadcrop/internal/editor"
	"github.com/framelift/quadcrop/internal/geometry"
	"github.com/spf13/cobra"
)

// seedFromFlags builds the session seed from --detection and --rect. The
// session applies the priority ordering; absent flags yield the default
// centered region.
func seedFromFlags(cmd *cobra.Command, naturalW, naturalH float64) (editor.Seed, error) {
	var seed editor.Seed

	if path, _ := cmd.Flags().GetString("detection"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return editor.Seed{}, fmt.Errorf("read detection file: %w", err)
		}
		res, err := detection.FromJSON(data)
		if err != nil {
			return editor.Seed{}, err
		}
		if err := res.Validate(naturalW, naturalH); err != nil {
			return editor.Seed{}, fmt.Errorf("detection result: %w", err)
		}
		seed.Detection = &res
	}

	if spec, _ := cmd.Flags().GetString("rect"); spec != "" {
		box, err := parseRect(spec)
		if err != nil {
			return editor.Seed{}, err
		}
		seed.Rect = &box
	}

	return seed, nil
}

// parseRect parses "x,y,w,h" into a natural-space box.
func parseRect(spec string) (geometry.Box, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return geometry.Box{}, fmt.Errorf("invalid rect %q (expected x,y,w,h)", spec)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Box{}, fmt.Errorf("invalid rect %q: %w", spec, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return geometry.Box{}, fmt.Errorf("invalid rect %q: width and height must be positive", spec)
	}
	return geometry.NewBox(vals[0], vals[1], vals[0]+vals[2], vals[1]+vals[3]), nil
}

// saveImage encodes the image in the requested format.
func saveImage(img image.Image, path, format string, out config.OutputConfig) error {
	switch format {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		if err := webp.Encode(f, img, &webp.Options{Quality: out.WebPQuality}); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
		return nil
	case "jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(out.JPEGQuality))
	case "png", "":
		return imaging.Save(img, path)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
