package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lazypower/widgetry/internal/calc"
	"github.com/lazypower/widgetry/internal/client"
	"github.com/lazypower/widgetry/internal/server"
	"github.com/lazypower/widgetry/internal/tui"
)

var (
	evalRemote   string
	evalSession  string
	evalVerbose  bool
	historyClear bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Open the terminal calculator",
	RunE:  runCalc,
}

var evalCmd = &cobra.Command{
	Use:   "eval <tokens...>",
	Short: "Feed tokens to the calculator and print the display",
	Long: `Feed tokens to the calculator and print the display.

Tokens may be given one per argument ("12" "+" "3" "=") or packed into one
argument ("12+3="). Word tokens (AC, backspace, M+, M-, MR, MC) must be
separate arguments. Memory and history persist between runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the calculation history",
	RunE:  runHistory,
}

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Show the calculator memory",
	RunE:  runMemory,
}

func init() {
	for _, c := range []*cobra.Command{evalCmd, historyCmd} {
		c.Flags().StringVar(&evalRemote, "remote", "", "Server URL; talk to a running server instead of the local store")
		c.Flags().StringVar(&evalSession, "session", server.DefaultSession, "Calculator session on the remote server")
	}
	evalCmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "Also print history entries recorded by this run")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Clear the history")
}

// tokenize splits arguments into calculator tokens. An argument that is
// itself a token is kept whole; otherwise each character must be one.
func tokenize(args []string) ([]calc.Token, error) {
	var tokens []calc.Token
	for _, arg := range args {
		if t, err := calc.ParseToken(arg); err == nil {
			tokens = append(tokens, t)
			continue
		}
		for _, r := range strings.ReplaceAll(arg, " ", "") {
			t, err := calc.ParseToken(string(r))
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
		}
	}
	return tokens, nil
}

// withCalculator opens the configured store and a loaded calculator over it.
func withCalculator(ctx context.Context, fn func(*calc.Calculator) error, opts ...calc.Option) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeStore, _, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts = append([]calc.Option{
		calc.WithLogger(newLogger(cfg)),
		calc.WithHistoryCap(cfg.Calculator.HistoryCap),
	}, opts...)
	c := calc.New(st, opts...)
	c.Load(ctx)
	return fn(c)
}

func runCalc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withCalculator(ctx, func(c *calc.Calculator) error {
		_, err := tea.NewProgram(tui.New(ctx, c), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	})
}

func runEval(cmd *cobra.Command, args []string) error {
	tokens, err := tokenize(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if evalRemote != "" {
		s, err := client.New(evalRemote).Press(ctx, evalSession, tokens)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s.Display)
		if evalVerbose {
			for _, e := range s.History {
				fmt.Fprintf(out, "  %s\n", e)
			}
		}
		return nil
	}

	var recorded []string
	record := calc.WithObserver(func(_ calc.Token, r calc.Result) {
		if r.History != "" {
			recorded = append(recorded, r.History)
		}
	})
	return withCalculator(ctx, func(c *calc.Calculator) error {
		r := c.PressAll(ctx, tokens)
		fmt.Fprintln(out, r.Display)
		if evalVerbose {
			for _, e := range recorded {
				fmt.Fprintf(out, "  %s\n", e)
			}
		}
		return nil
	}, record)
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if evalRemote != "" {
		c := client.New(evalRemote)
		var s client.Session
		var err error
		if historyClear {
			s, err = c.ClearHistory(ctx, evalSession)
		} else {
			s, err = c.Calc(ctx, evalSession)
		}
		if err != nil {
			return err
		}
		printHistory(out, s.History, historyClear)
		return nil
	}

	return withCalculator(ctx, func(c *calc.Calculator) error {
		if historyClear {
			c.ClearHistory(ctx)
		}
		printHistory(out, c.History(), historyClear)
		return nil
	})
}

func printHistory(out io.Writer, entries []string, cleared bool) {
	if cleared {
		fmt.Fprintln(out, "History cleared.")
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history yet.")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(out, "%d. %s\n", i+1, e)
	}
}

func runMemory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	return withCalculator(cmd.Context(), func(c *calc.Calculator) error {
		mem := c.State().Memory
		if !mem.Set {
			fmt.Fprintln(out, "Memory is empty.")
			return nil
		}
		fmt.Fprintln(out, calc.FormatNumber(mem.Value))
		return nil
	})
}
