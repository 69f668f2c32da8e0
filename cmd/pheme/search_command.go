package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pheme/internal/catalog"
)

const searchResultLimit = 10

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <category> <term>...",
		Short: "Search a provider catalog without tracking anything",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			term := strings.Join(args[1:], " ")

			tr, err := ctx.newTracker()
			if err != nil {
				return err
			}
			results, err := tr.Search(cmd.Context(), category, term)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No %s results for %q.\n", category, term)
				return nil
			}
			if len(results) > searchResultLimit {
				results = results[:searchResultLimit]
			}

			spec, _ := catalog.Lookup(category)
			titler := cases.Title(language.English)
			rows := make([][]string, 0, len(results))
			for _, obs := range results {
				value := obs.RawValue
				if len(obs.RawTiers) > 0 {
					value = strings.Join(obs.RawTiers, ", ")
				}
				rows = append(rows, []string{titler.String(obs.Name), value, obs.Locator})
			}

			fmt.Fprintln(out, renderTable(searchLayout(spec.Ledger), rows))
			return nil
		},
	}
}
