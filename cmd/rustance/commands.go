package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jask/rustance/internal/ledger"
	"github.com/jask/rustance/internal/logging"
	"github.com/jask/rustance/internal/money"
)

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rustance",
		Short:         "Calculate Your Balances.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return errors.New("a command is required")
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug details to stderr")

	root.AddCommand(
		a.listAllCmd(),
		a.amountCmd("income", "Add the new income.", money.In),
		a.amountCmd("outcome", "Add the new outcome.", money.Out),
		a.patchRecordCmd(),
		a.deleteRecordCmd(),
	)
	return root
}

func (a *app) listAllCmd() *cobra.Command {
	var timeFilter string
	cmd := &cobra.Command{
		Use:   "list-all",
		Short: "List all the Wallet Balances.",
		Long: "List all the Wallet Balances grouped by month, followed by the overall total.\n" +
			"With --time only that month is listed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd.Context(), "list-all", func(ctx context.Context, e *ledger.Engine, ld *logging.LogData) error {
				ld.AddData(logging.FieldMonth, timeFilter)
				_, err := e.ListAll(ctx, timeFilter)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&timeFilter, "time", "t", "", "month to list, YYYY-MM")
	return cmd
}

// amountCmd builds income/outcome. Flag parsing is off so that an amount
// like -5 reaches amount validation instead of failing as an unknown flag.
func (a *app) amountCmd(name, short string, dir money.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <amount> [note]",
		Short: short,
		Long: short + "\n\nThe amount must be greater than 0 with at most two digits after the\n" +
			"decimal point, e.g. 100 or 12.34.",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, raw []string) error {
			args, help := a.splitRaw(raw)
			if help {
				return cmd.Help()
			}
			if len(args) < 1 || len(args) > 2 {
				return fmt.Errorf("%s: accepts between 1 and 2 arg(s), received %d", name, len(args))
			}
			note := ""
			if len(args) == 2 {
				note = args[1]
			}
			return a.withEngine(cmd.Context(), name, func(ctx context.Context, e *ledger.Engine, ld *logging.LogData) error {
				ld.AddData(logging.FieldDirection, dir.String())
				rec, err := e.AddEntry(ctx, dir, args[0], note)
				if err != nil {
					return err
				}
				ld.AddData(logging.FieldRecordID, rec.ID)
				return nil
			})
		},
	}
}

// splitRaw pulls --verbose and --help out of unparsed args. They are only
// flags ahead of the amount; from the first positional on, and after "--",
// every token is positional so a note like "-v" is kept as written.
func (a *app) splitRaw(raw []string) (args []string, help bool) {
	for i, s := range raw {
		if len(args) > 0 {
			return append(args, raw[i:]...), help
		}
		switch s {
		case "--":
			return append(args, raw[i+1:]...), help
		case "-h", "--help":
			help = true
		case "-v", "--verbose":
			a.verbose = true
		default:
			args = append(args, s)
		}
	}
	return args, help
}

func (a *app) patchRecordCmd() *cobra.Command {
	var amount, inOrOut, note string
	cmd := &cobra.Command{
		Use:   "patch-record <id>",
		Short: "patch record.",
		Long: "Patch the amount, direction or message of a record.\n" +
			"The record is shown before and after the change and written only after confirmation.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var p ledger.Patch
			if cmd.Flags().Changed("amount") {
				p.Amount = &amount
			}
			if cmd.Flags().Changed("in-or-out") {
				dir, err := money.ParseDirection(inOrOut)
				if err != nil {
					return err
				}
				p.Direction = &dir
			}
			if cmd.Flags().Changed("add-msg") {
				p.Note = &note
			}
			return a.withEngine(cmd.Context(), "patch-record", func(ctx context.Context, e *ledger.Engine, ld *logging.LogData) error {
				ld.AddData(logging.FieldRecordID, id)
				state, err := e.PatchEntry(ctx, id, p)
				ld.AddData(logging.FieldState, state.String())
				return err
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "new amount, e.g. 100.00")
	cmd.Flags().StringVarP(&inOrOut, "in-or-out", "i", "", "true for income, false for outcome")
	cmd.Flags().StringVarP(&note, "add-msg", "a", "", "new additional message")
	return cmd
}

func (a *app) deleteRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-record <id>",
		Short: "delete record.",
		Long:  "Delete a record. The record is shown first and removed only after confirmation.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withEngine(cmd.Context(), "delete-record", func(ctx context.Context, e *ledger.Engine, ld *logging.LogData) error {
				ld.AddData(logging.FieldRecordID, id)
				state, err := e.DeleteEntry(ctx, id)
				ld.AddData(logging.FieldState, state.String())
				return err
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", s)
	}
	return id, nil
}
