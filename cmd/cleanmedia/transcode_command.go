package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cleanmedia/internal/config"
	"cleanmedia/internal/deps"
	"cleanmedia/internal/services/drapto"
)

func newTranscodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcode <file>...",
		Short: "Re-encode organized videos in place with drapto",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Drapto.Enabled {
				return errors.New("transcoding is disabled (drapto.enabled = false)")
			}
			if err := deps.Require(deps.TranscodeRequirements()); err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", arg, err)
				}
				paths = append(paths, path)
			}

			encoder := drapto.NewLibrary(drapto.WithResponsive(cfg.Drapto.Responsive))
			results := drapto.NewTranscoder(encoder, logger).Transcode(cmd.Context(), paths)

			out := cmd.OutOrStdout()
			failed := 0
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Success {
					status = "failed"
					failed++
				}
				rows = append(rows, []string{r.Path, status, r.Summary()})
			}
			fmt.Fprintln(out, renderTable(out, []string{"File", "Status", "Result"}, rows, nil))
			if failed > 0 {
				return fmt.Errorf("%d of %d transcodes failed", failed, len(results))
			}
			return nil
		},
	}
}
