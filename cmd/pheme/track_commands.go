package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pheme/internal/catalog"
)

func newTrackCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "track <category> <name>...",
		Short: "Start tracking an item, or re-check it when already tracked",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			search := strings.Join(args[1:], " ")

			tr, err := ctx.newTracker()
			if err != nil {
				return err
			}
			events, err := tr.Track(cmd.Context(), category, search)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, event := range events {
				fmt.Fprintln(out, event.Message())
			}
			if len(events) == 0 {
				fmt.Fprintf(out, "%q is up to date.\n", search)
			}
			return nil
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <category> <exact name>...",
		Short: "Stop tracking an item by its exact ledger name",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")

			tr, err := ctx.newTracker()
			if err != nil {
				return err
			}
			removed, err := tr.StopTracking(category, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !removed {
				fmt.Fprintf(out, "No tracked %s item named %q. Names are matched exactly; run `pheme list %s`.\n", category, name, category)
				return nil
			}
			fmt.Fprintf(out, "Stopped tracking %q.\n", name)
			return nil
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "List tracked items",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := catalog.All()
			if len(args) == 1 {
				category, err := parseCategory(args[0])
				if err != nil {
					return err
				}
				categories = []catalog.Category{category}
			}

			tr, err := ctx.newTracker()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printed := false
			for _, category := range categories {
				items, err := tr.ListTracked(category)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					continue
				}
				spec, _ := catalog.Lookup(category)

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					checked := ""
					if !item.CheckedAt.IsZero() {
						checked = item.CheckedAt.Format("2006-01-02 15:04")
					}
					if spec.Ledger == catalog.LedgerPrice {
						rows = append(rows, []string{item.Name, item.Value, item.Expansion, checked, item.URL})
					} else {
						rows = append(rows, []string{item.Name, item.Value, checked})
					}
				}

				if printed {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%d)\n", category, len(items))
				fmt.Fprintln(out, renderTable(ledgerLayout(spec.Ledger), rows))
				printed = true
			}
			if !printed {
				fmt.Fprintln(out, "Nothing is tracked yet. Add items with `pheme track`.")
			}
			return nil
		},
	}
}
