package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazypower/widgetry/internal/client"
	"github.com/lazypower/widgetry/internal/config"
	"github.com/lazypower/widgetry/internal/gallery"
	"github.com/lazypower/widgetry/internal/kv"
	"github.com/lazypower/widgetry/internal/player"
)

var (
	widgetRemote    string
	galleryCategory string
	gallerySearch   string
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Browse the image gallery",
}

var galleryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List images, marking favourites",
	RunE:  runGalleryList,
}

var galleryFavoriteCmd = &cobra.Command{
	Use:   "favorite <src>",
	Short: "Toggle an image in the favourites list",
	Args:  cobra.ExactArgs(1),
	RunE:  runGalleryFavorite,
}

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Inspect the playlist player",
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the playlist and player settings",
	RunE:  runPlayerList,
}

func init() {
	galleryCmd.PersistentFlags().StringVar(&widgetRemote, "remote", "", "Server URL; talk to a running server instead of the local store")
	playerCmd.PersistentFlags().StringVar(&widgetRemote, "remote", "", "Server URL; talk to a running server instead of the local store")
	galleryListCmd.Flags().StringVarP(&galleryCategory, "category", "c", gallery.CategoryAll, "Only show this category")
	galleryListCmd.Flags().StringVarP(&gallerySearch, "search", "s", "", "Only show captions containing this text")

	galleryCmd.AddCommand(galleryListCmd)
	galleryCmd.AddCommand(galleryFavoriteCmd)
	playerCmd.AddCommand(playerListCmd)
}

// withStore opens the configured store for widget commands.
func withStore(ctx context.Context, fn func(config.Config, kv.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeStore, _, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(cfg, st)
}

func openGallery(ctx context.Context, cfg config.Config, st kv.Store) *gallery.Gallery {
	var images []gallery.Image
	if len(cfg.Gallery.Images) > 0 {
		images = cfg.Gallery.Images
	}
	g := gallery.New(st, images, gallery.WithLogger(newLogger(cfg)))
	g.Load(ctx)
	return g
}

func runGalleryList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if widgetRemote != "" {
		v, err := client.New(widgetRemote).Gallery(ctx)
		if err != nil {
			return err
		}
		// Filter client side so listing never changes the server's view.
		v.Images = slices.DeleteFunc(v.Images, func(img gallery.ImageView) bool {
			if galleryCategory != gallery.CategoryAll && img.Category != galleryCategory {
				return true
			}
			return !strings.Contains(strings.ToLower(img.Caption), strings.ToLower(gallerySearch))
		})
		printGallery(out, v)
		return nil
	}

	return withStore(ctx, func(cfg config.Config, st kv.Store) error {
		g := openGallery(ctx, cfg, st)
		g.Filter(galleryCategory)
		g.Search(gallerySearch)
		printGallery(out, g.View())
		return nil
	})
}

func printGallery(out io.Writer, v gallery.View) {
	if len(v.Images) == 0 {
		fmt.Fprintln(out, "No images match.")
		return
	}
	for i, img := range v.Images {
		star := " "
		if img.Favorite {
			star = "*"
		}
		fmt.Fprintf(out, "%s %d. %-20s [%s] %s\n", star, i+1, img.Caption, img.Category, img.Src)
	}
}

func runGalleryFavorite(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	src := args[0]

	var fav bool
	if widgetRemote != "" {
		var err error
		if fav, err = client.New(widgetRemote).ToggleFavorite(ctx, src); err != nil {
			return err
		}
	} else {
		err := withStore(ctx, func(cfg config.Config, st kv.Store) error {
			fav = openGallery(ctx, cfg, st).ToggleFavorite(ctx, src)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if fav {
		fmt.Fprintf(out, "Added %s to favourites.\n", src)
	} else {
		fmt.Fprintf(out, "Removed %s from favourites.\n", src)
	}
	return nil
}

func runPlayerList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if widgetRemote != "" {
		c := client.New(widgetRemote)
		v, err := c.Player(ctx)
		if err != nil {
			return err
		}
		// The playlist itself is not part of the remote view.
		printPlayer(out, nil, v)
		return nil
	}

	return withStore(ctx, func(cfg config.Config, st kv.Store) error {
		var tracks []player.Track
		if len(cfg.Player.Tracks) > 0 {
			tracks = cfg.Player.Tracks
		}
		p := player.New(st, tracks, player.WithLogger(newLogger(cfg)))
		p.Load(ctx)
		printPlayer(out, p.Playlist(), p.View())
		return nil
	})
}

func printPlayer(out io.Writer, playlist []player.Track, v player.View) {
	for i, t := range playlist {
		mark := " "
		if i == v.Index {
			mark = ">"
		}
		fmt.Fprintf(out, "%s %d. %s - %s\n", mark, i+1, t.Title, t.Artist)
	}
	if len(playlist) == 0 && v.Track != nil {
		fmt.Fprintf(out, "> %d. %s - %s\n", v.Index+1, v.Track.Title, v.Track.Artist)
	}
	autoplay := "off"
	if v.Autoplay {
		autoplay = "on"
	}
	fmt.Fprintf(out, "\nvolume %d%%, autoplay %s\n", int(v.Volume*100+0.5), autoplay)
}
