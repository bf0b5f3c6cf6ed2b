package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/scene-graph-mcp/internal/detection"
	"github.com/ironsheep/scene-graph-mcp/internal/imaging"
	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

type buildFlags struct {
	objectsPath string
	imagePath   string
	output      string
	width       int
	height      int
}

func newBuildCmd(global *globalFlags) *cobra.Command {
	f := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a scene graph document from detected objects",
		Long: `Build a scene graph from a JSON array of detected objects.

Dimensions default to those of --image. When --objects is omitted the
objects are detected in --image with the built-in contour detector.

Examples:
  scene-mcp build --objects objs.json --width 1280 --height 720
  scene-mcp build --objects objs.json --image frame.png -o graph.json
  scene-mcp build --image diagram.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, global, f)
		},
	}

	cmd.Flags().StringVar(&f.objectsPath, "objects", "", "JSON file with the object list (\"-\" for stdin)")
	cmd.Flags().StringVar(&f.imagePath, "image", "", "source image, used for dimensions and detection")
	cmd.Flags().IntVar(&f.width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 0, "image height in pixels")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the graph document here instead of stdout")
	return cmd
}

func runBuild(cmd *cobra.Command, global *globalFlags, f *buildFlags) error {
	if f.objectsPath == "" && f.imagePath == "" {
		return fmt.Errorf("one of --objects or --image is required")
	}

	cfg, logger, err := setup(global)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var objects []scene.SceneObject
	if f.objectsPath != "" {
		data, err := readInput(cmd, f.objectsPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &objects); err != nil {
			return fmt.Errorf("failed to parse objects '%s': %w", f.objectsPath, err)
		}
	}

	width, height := f.width, f.height
	if f.imagePath != "" {
		cache := imaging.NewImageCache()
		dims, err := imaging.GetDimensions(cache, f.imagePath)
		if err != nil {
			return err
		}
		if width == 0 {
			width = dims.Width
		}
		if height == 0 {
			height = dims.Height
		}
		if f.objectsPath == "" {
			img, err := cache.Load(f.imagePath)
			if err != nil {
				return err
			}
			result, err := detection.DetectObjects(img, cfg.DetectionOptions())
			if err != nil {
				return err
			}
			objects = result.Objects
			logger.Info("objects detected", zap.String("image", f.imagePath), zap.Int("count", result.Count))
		}
	}

	g, err := scene.Build(objects, cfg.BuildOptions(width, height))
	if err != nil {
		return err
	}
	logger.Info("scene graph built",
		zap.Int("objects", len(objects)),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))

	data, err := marshalIndent(g)
	if err != nil {
		return err
	}
	return writeOutput(cmd, f.output, data)
}
