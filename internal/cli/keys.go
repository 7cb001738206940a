package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/widgetry/internal/config"
	"github.com/lazypower/widgetry/internal/kv"
	"github.com/lazypower/widgetry/internal/store"
)

var keysCmd = &cobra.Command{
	Use:   "keys [prefix]",
	Short: "List persisted keys (sqlite backend)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeys,
}

type lister interface {
	List(ctx context.Context, prefix string) ([]store.Entry, error)
}

func runKeys(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	return withStore(ctx, func(cfg config.Config, st kv.Store) error {
		l, ok := st.(lister)
		if !ok {
			return fmt.Errorf("store backend %q cannot list keys", cfg.Store.Backend)
		}
		entries, err := l.List(ctx, prefix)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No keys.")
			return nil
		}
		for _, e := range entries {
			ts := time.UnixMilli(e.UpdatedAt).Format("2006-01-02 15:04")
			fmt.Fprintf(out, "%s  %-32s %d bytes\n", ts, e.Key, len(e.Value))
		}
		return nil
	})
}
