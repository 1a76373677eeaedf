package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"anigo/internal/media"
)

var embedCmd = &cobra.Command{
	Use:     "embed <ref>",
	Short:   "Resolve an AniBoom player reference into manifest URLs",
	Example: `  anigo embed "//aniboom.one/embed/6BmMbB7MxWO?episode=1&translation=2"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}

		d, err := sess.aniboom.Resolve(cmd.Context(), media.RawRef(args[0]))
		if err != nil {
			return fmt.Errorf("resolving embed: %w", err)
		}

		if flagPlay {
			return playDescriptor(cmd.Context(), d, d.ID)
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), d)
		}
		renderDescriptor(cmd.OutOrStdout(), sess.out, d)
		return nil
	},
}

func init() {
	embedCmd.Flags().BoolVarP(&flagPlay, "play", "p", false, "Open the HLS stream in the configured player")
}
