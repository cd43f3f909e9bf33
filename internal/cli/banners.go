package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xtding233/ba-companion/internal/banner"
	"github.com/xtding233/ba-companion/internal/config"
)

var errNoFeed = errors.New("no banner feed configured (set feed.source to firestore or file)")

// newFeed builds the configured banner feed, nil for "none".
func newFeed(cfg config.FeedConfig, log zerolog.Logger) (banner.Feed, error) {
	switch cfg.Source {
	case config.FeedFirestore:
		f, err := banner.NewFirestoreFeed(banner.FirestoreConfig{
			BaseURL:    cfg.BaseURL,
			ProjectID:  cfg.ProjectID,
			Collection: cfg.Collection,
			APIKey:     cfg.APIKey,
			Timeout:    cfg.Timeout,
		}, log)
		if err != nil {
			return nil, err
		}
		return f, nil
	case config.FeedFile:
		return banner.FileFeed{Path: cfg.File}, nil
	}
	return nil, nil
}

func newBannersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banners",
		Short: "List the recruitment banners running now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			search, _ := f.GetString("q")
			typ, _ := f.GetString("type")
			sortBy, _ := f.GetString("sort")
			asJSON, _ := f.GetBool("json")

			query, err := banner.ParseQuery(search, typ, sortBy)
			if err != nil {
				return err
			}
			feed, err := newFeed(a.cfg.Feed, a.log)
			if err != nil {
				return err
			}
			if feed == nil {
				return errNoFeed
			}

			active, err := banner.FetchActiveBanners(cmd.Context(), feed, time.Now())
			if err != nil {
				return err
			}
			list := banner.Apply(active, query)

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No active banners.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tSTART\tEND\tSTUDENTS")
			for _, b := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Type, formatDate(b.StartDate), formatDate(b.EndDate), characterNames(b))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("q", "", "Only banners featuring a student whose name contains this")
	cmd.Flags().String("type", "All", "Banner type: All, New, Rerun, Fes or Collab")
	cmd.Flags().String("sort", string(banner.SortDateAsc), "Order: date-asc, date-desc, name or rarity")
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func characterNames(b banner.Banner) string {
	names := make([]string, 0, len(b.Characters))
	for _, c := range b.Characters {
		names = append(names, fmt.Sprintf("%s (%d★)", c.Name, c.Rarity))
	}
	return strings.Join(names, ", ")
}
