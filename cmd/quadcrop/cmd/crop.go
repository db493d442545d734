package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/framelift/quadcrop/internal/dispatch"
	"github.com/framelift/quadcrop/internal/editor"
	"github.com/framelift/quadcrop/internal/warp"
	"github.com/spf13/cobra"
)

// cropCmd applies a crop region to an image and writes the corrected output.
var cropCmd = &cobra.Command{
	Use:   "crop [image]",
	Short: "Crop and perspective-correct an image using a quadrilateral region",
	Long: `Crop an image using a four-corner region. The region comes from a
detection result file (--detection), an explicit rectangle (--rect), or
defaults to the centered 80% region.

Skewed quadrilaterals are dewarped through perspective correction; true
rectangles are extracted directly.

Examples:
  quadcrop crop photo.jpg --detection corners.json -o restored.png
  quadcrop crop photo.jpg --rect 120,80,1600,1200 -o cropped.jpg --format jpeg`,
	Args: cobra.ExactArgs(1),
	RunE: runCrop,
}

func init() {
	cropCmd.Flags().StringP("output", "o", "", "output file path (required)")
	cropCmd.Flags().String("detection", "", "detection result JSON file seeding the crop region")
	cropCmd.Flags().String("rect", "", "axis-aligned crop rectangle in natural pixels: x,y,w,h")
	cropCmd.Flags().String("format", "", "output format: png, jpeg, webp (default from config)")
	_ = cropCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(cropCmd)
}

func runCrop(cmd *cobra.Command, args []string) error {
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

	// The CLI acts as the host container: it renders nothing, so the
	// session fits the image 1:1 into a container of its own size.
	fitOpts := cfg.Fit.FitOptions()
	session, err := editor.NewSession(naturalW, naturalH, naturalW, naturalH,
		fitOpts, cfg.Editor.EditorConfig(), seed, slog.Default())
	if err != nil {
		return err
	}
	slog.Info("crop region seeded", "source", session.SeedSource(), "quad", session.Quad())

	corrector := warp.New(cfg.Dispatch.WarpConfig())
	dispatcher := dispatch.New(cfg.Dispatch.DispatchConfig(), corrector, slog.Default())

	res, err := session.Accept(context.Background(), img, dispatcher)
	if err != nil {
		return fmt.Errorf("crop failed: %w", err)
	}
	if res.FellBack {
		slog.Warn("perspective correction unavailable, wrote bounding-box extraction")
	}
	slog.Info("crop complete",
		"corrected", res.Corrected,
		"rect", res.Rect,
		"took", res.ProcessingTime)

	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Output.Format
	}
	return saveImage(res.Image, output, format, cfg.Output)
}
