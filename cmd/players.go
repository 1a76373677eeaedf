package cmd

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"anigo/internal/extract"
	"anigo/internal/log"
	"anigo/internal/media"
)

var (
	flagResolve bool
	flagService string
)

var playersCmd = &cobra.Command{
	Use:   "players <media-id|url>",
	Short: "List the players of an episode, grouped by service",
	Example: `  anigo players 2380
  anigo players https://animego.me/anime/vanpanchmen-s1-11 --resolve`,
	Args: cobra.ExactArgs(1),
	RunE: playersRun,
}

func init() {
	playersCmd.Flags().BoolVarP(&flagResolve, "resolve", "r", false, "Resolve every AniBoom part into manifest URLs")
	playersCmd.Flags().StringVarP(&flagService, "service", "s", "", "Only show this service")
}

func playersRun(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}

	catalog, err := sess.catalog.Players(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching players: %w", err)
	}

	if flagService != "" {
		catalog.Groups = lo.Filter(catalog.Groups, func(g media.PlayerGroup, _ int) bool { return g.Service == flagService })
		if len(catalog.Groups) == 0 {
			return fmt.Errorf("service %q not offered (available: %v)", flagService, catalog.Services)
		}
	}

	if !flagResolve {
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), catalog)
		}
		renderCatalog(cmd.OutOrStdout(), sess.out, catalog)
		return nil
	}

	parts := lo.Filter(lo.FlatMap(catalog.Groups, func(g media.PlayerGroup, _ int) []media.PlayerPart { return g.Parts }),
		func(p media.PlayerPart, _ int) bool { return extract.IsAniBoom(p.Service) })
	if len(parts) == 0 {
		return fmt.Errorf("no %s players to resolve (available: %v)", extract.ServiceAniBoom, catalog.Services)
	}

	resolved, err := resolveParts(cmd.Context(), sess.aniboom, parts, cfg.Concurrency)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), resolved)
	}
	renderCatalog(cmd.OutOrStdout(), sess.out, catalog)
	renderResolved(cmd.OutOrStdout(), sess.out, resolved)
	return nil
}

// resolveParts resolves parts concurrently, at most limit at a time. A part
// that fails keeps its error; only cancellation aborts the whole batch.
func resolveParts(ctx context.Context, r extract.EmbedResolver, parts []media.PlayerPart, limit int) ([]resolvedPart, error) {
	results := make([]resolvedPart, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			d, err := r.Resolve(gctx, part)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.WithFields(log.Fields{"part": part.String(), "error": err}).Warn("resolving part failed")
				results[i] = resolvedPart{Part: part, Error: err.Error()}
				return nil
			}
			results[i] = resolvedPart{Part: part, Descriptor: &d}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolving players: %w", err)
	}
	return results, nil
}
