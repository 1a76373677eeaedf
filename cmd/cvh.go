package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"anigo/internal/media"
)

var cvhCmd = &cobra.Command{
	Use:     "cvh <ref>",
	Short:   "Resolve a CVH player reference into its playlist",
	Example: `  anigo cvh "//cdnvideohub.example/iframe/777"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}

		playlist, err := sess.cvh.Playlist(cmd.Context(), media.RawRef(args[0]))
		if err != nil {
			return fmt.Errorf("resolving playlist: %w", err)
		}

		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), playlist)
		}
		renderPlaylist(cmd.OutOrStdout(), sess.out, playlist)
		return nil
	},
}

var cvhVideoCmd = &cobra.Command{
	Use:   "cvh-video <video-id>",
	Short: "Fetch the raw video record of a CVH playlist item",
	Long: `Fetch the raw video record of a CVH playlist item. The record is printed
as returned by the API; its shape is not interpreted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}

		record, err := sess.cvh.Video(cmd.Context(), media.RawVideoID(args[0]))
		if err != nil {
			return fmt.Errorf("fetching video: %w", err)
		}
		return writeJSON(cmd.OutOrStdout(), record)
	},
}
