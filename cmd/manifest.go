package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"anigo/internal/extract"
	"anigo/internal/httputil"
	"anigo/internal/log"
	"anigo/internal/media"
)

var flagOut string

var manifestCmd = &cobra.Command{
	Use:   "manifest <ref>",
	Short: "Download and inspect the DASH manifest of an AniBoom player",
	Example: `  anigo manifest "//aniboom.one/embed/6BmMbB7MxWO?episode=1&translation=2"
  anigo manifest "//aniboom.one/embed/6BmMbB7MxWO?episode=1&translation=2" --out episode1.mpd`,
	Args: cobra.ExactArgs(1),
	RunE: manifestRun,
}

func init() {
	manifestCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Save the manifest under the output directory with this file name")
}

func manifestRun(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}

	body, err := sess.aniboom.Manifest(cmd.Context(), media.RawRef(args[0]))
	if err != nil {
		return fmt.Errorf("fetching manifest: %w", err)
	}

	if flagOut != "" {
		path, err := saveManifest(body, flagOut)
		if err != nil {
			return err
		}
		log.Infof("saved manifest to %s", path)
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	mpd, err := extract.ParseMPD(body)
	if err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), mpd)
	}
	renderMPD(cmd.OutOrStdout(), sess.out, mpd)
	return nil
}

// saveManifest writes body into the configured output directory. The name is
// sanitized so it cannot escape that directory.
func saveManifest(body []byte, name string) (string, error) {
	dir, err := cfg.ExpandOutputDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path, err := httputil.SafeOutputPath(dir, name)
	if err != nil {
		return "", fmt.Errorf("invalid output file: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("saving manifest: %w", err)
	}
	return path, nil
}
