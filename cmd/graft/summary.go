package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graft-ml/graft/backend/cpu"
	"github.com/graft-ml/graft/backbone"
	"github.com/graft-ml/graft/compose"
	internalbackbone "github.com/graft-ml/graft/internal/backbone"
	"github.com/graft-ml/graft/internal/hub"
)

func newSummaryCmd() *cobra.Command {
	var (
		archFlag       string
		classesFlag    int
		pretrainedFlag bool
		tagFlag        string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compose a model and print its layer summary",
		Long: `Compose a classifier from a backbone and print the layer table:
output shapes, parameter counts, and the trainable/frozen split.

Without --pretrained the backbone is randomly initialized, so the command
works offline.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend := cpu.New()

			bb, err := resolveBackbone(cmd, archFlag, tagFlag, pretrainedFlag, backend)
			if err != nil {
				return err
			}

			model, err := compose.Compose(bb, classesFlag, backend)
			if err != nil {
				return err
			}
			if err := model.Compile(compose.TrainingConfig{}); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), model.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&archFlag, "arch", "efficientnet-b3", "Backbone architecture")
	cmd.Flags().IntVar(&classesFlag, "classes", 10, "Number of output classes")
	cmd.Flags().BoolVar(&pretrainedFlag, "pretrained", false, "Load pretrained weights through the hub")
	cmd.Flags().StringVar(&tagFlag, "tag", "", "Pretrained weight tag (default: imagenet)")

	return cmd
}

// resolveBackbone builds the requested backbone, pulling pretrained weights
// through the hub when asked.
func resolveBackbone(cmd *cobra.Command, arch, tag string, pretrained bool, backend *cpu.Backend) (*backbone.Backbone[*cpu.Backend], error) {
	if !pretrained {
		spec, err := backbone.Arch(arch)
		if err != nil {
			return nil, err
		}
		return backbone.New(spec, backend), nil
	}

	var opts []hub.Option
	if graftConfig.HubURL != "" {
		opts = append(opts, hub.WithBaseURL(graftConfig.HubURL))
	}
	if graftConfig.CacheDir != "" {
		opts = append(opts, hub.WithCacheDir(graftConfig.CacheDir))
	}
	client, err := hub.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return internalbackbone.LoadFrom(cmd.Context(), client, arch, tag, backend)
}

func newArchsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archs",
		Short: "List available backbone architectures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range backbone.Archs() {
				arch, err := backbone.Arch(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tinput %dx%d\t%d features\n",
					name, arch.InputSize, arch.InputSize, arch.FeatureChannels)
			}
			return nil
		},
	}
}
