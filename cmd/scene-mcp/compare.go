package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/scene-graph-mcp/internal/compare"
	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

type compareFlags struct {
	beforePath string
	afterPath  string
	output     string
	summary    bool
}

func newCompareCmd(global *globalFlags) *cobra.Command {
	f := &compareFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two scene graph documents",
		Long: `Match the objects of two scene graphs and report what appeared,
disappeared, moved, and which relationships changed.

Examples:
  scene-mcp compare --before t0.json --after t1.json
  scene-mcp compare --before t0.json --after t1.json --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, global, f)
		},
	}

	cmd.Flags().StringVar(&f.beforePath, "before", "", "graph document of the earlier scene")
	cmd.Flags().StringVar(&f.afterPath, "after", "", "graph document of the later scene")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the report here instead of stdout")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "print a short text summary instead of the JSON report")
	_ = cmd.MarkFlagRequired("before")
	_ = cmd.MarkFlagRequired("after")
	return cmd
}

func loadGraph(cmd *cobra.Command, path string) (*scene.SceneGraph, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	g, err := scene.ParseGraph(data)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return g, nil
}

func runCompare(cmd *cobra.Command, global *globalFlags, f *compareFlags) error {
	cfg, logger, err := setup(global)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	before, err := loadGraph(cmd, f.beforePath)
	if err != nil {
		return err
	}
	after, err := loadGraph(cmd, f.afterPath)
	if err != nil {
		return err
	}

	report, err := compare.Compare(before, after, cfg.CompareOptions())
	if err != nil {
		return err
	}
	logger.Info("scenes compared",
		zap.Int("matched", report.Metrics.MatchedCount),
		zap.Int("relationship_changes", report.Metrics.RelationshipChangeCount))

	if f.summary {
		return writeOutput(cmd, f.output, []byte(report.Summary()))
	}
	data, err := marshalIndent(report)
	if err != nil {
		return err
	}
	return writeOutput(cmd, f.output, data)
}
