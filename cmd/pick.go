package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"anigo/internal/extract"
	"anigo/internal/log"
	"anigo/internal/media"
	"anigo/internal/ui"
)

var pickCmd = &cobra.Command{
	Use:   "pick <media-id|url>",
	Short: "Pick a player with fzf and resolve it",
	Long: `Pick a player of an episode with fzf and resolve it. AniBoom players resolve
into manifest URLs; CVH players resolve into a playlist, from which an item is
picked and its video record fetched. Requires fzf in PATH.`,
	Args: cobra.ExactArgs(1),
	RunE: pickRun,
}

func init() {
	pickCmd.Flags().BoolVarP(&flagPlay, "play", "p", false, "Open a picked AniBoom stream in the configured player")
}

func pickRun(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	catalog, err := sess.catalog.Players(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetching players: %w", err)
	}

	parts := lo.Filter(lo.FlatMap(catalog.Groups, func(g media.PlayerGroup, _ int) []media.PlayerPart { return g.Parts }),
		func(p media.PlayerPart, _ int) bool { return extract.IsAniBoom(p.Service) || extract.IsCVH(p.Service) })
	if len(parts) == 0 {
		return fmt.Errorf("no resolvable players (available: %v)", catalog.Services)
	}

	idx, err := ui.Select(catalog.EpisodeTitle, lo.Map(parts, func(p media.PlayerPart, _ int) string { return p.String() }))
	if err != nil {
		return err
	}
	part := parts[idx]
	log.Debugf("selected %s (%s)", part, part.StreamRef)

	if extract.IsAniBoom(part.Service) {
		d, err := sess.aniboom.Resolve(ctx, part)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", part, err)
		}
		if flagPlay {
			title := catalog.EpisodeTitle
			if title == "" {
				title = part.String()
			}
			return playDescriptor(ctx, d, title)
		}
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), d)
		}
		renderDescriptor(cmd.OutOrStdout(), sess.out, d)
		return nil
	}

	playlist, err := sess.cvh.Playlist(ctx, part)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", part, err)
	}

	labels := lo.Map(playlist.Items, func(it media.AlternateCatalogItem, _ int) string {
		return fmt.Sprintf("S%02dE%02d %s %s (%s)", it.Season, it.Episode, it.Name, it.VoiceStudio, it.VoiceType)
	})
	itemIdx, err := ui.Select(playlist.Title, labels)
	if err != nil {
		return err
	}

	record, err := sess.cvh.Video(ctx, playlist.Items[itemIdx])
	if err != nil {
		return fmt.Errorf("fetching video: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), record)
}
