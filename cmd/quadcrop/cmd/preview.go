package cmd

import (
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/framelift/quadcrop/internal/editor"
	"github.com/spf13/cobra"
)

// previewCmd renders the editing overlay (outline, exterior shading, corner
// handles) for inspection without performing the crop.
var previewCmd = &cobra.Command{
	Use:   "preview [image]",
	Short: "Render the crop overlay for a seeded region",
	Long: `Render the editing overlay for an image and its seeded crop region:
the image fitted into a viewport, a darkened exterior mask, the quadrilateral
outline, and the four corner handles.

Examples:
  quadcrop preview photo.jpg --detection corners.json -o overlay.png
  quadcrop preview photo.jpg --width 800 --height 600 -o overlay.png`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringP("output", "o", "", "output PNG path (required)")
	previewCmd.Flags().String("detection", "", "detection result JSON file seeding the crop region")
	previewCmd.Flags().String("rect", "", "axis-aligned crop rectangle in natural pixels: x,y,w,h")
	previewCmd.Flags().Float64("width", 1200, "viewport width in pixels")
	previewCmd.Flags().Float64("height", 900, "viewport height in pixels")
	_ = previewCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	img, err := imaging.Open(args[0], imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	b := img.Bounds()
	naturalW, naturalH := float64(b.Dx()), float64(b.Dy())

	seed, err := seedFromFlags(cmd, naturalW, naturalH)
	if err != nil {
		return err
	}

	viewportW, _ := cmd.Flags().GetFloat64("width")
	viewportH, _ := cmd.Flags().GetFloat64("height")
	session, err := editor.NewSession(naturalW, naturalH, viewportW, viewportH,
		cfg.Fit.FitOptions(), cfg.Editor.EditorConfig(), seed, slog.Default())
	if err != nil {
		return err
	}
	slog.Info("preview seeded", "source", session.SeedSource(), "fit", session.Fit())

	overlay := session.RenderOverlay(img, editor.DefaultOverlayStyle())
	output, _ := cmd.Flags().GetString("output")
	return imaging.Save(overlay, output)
}
