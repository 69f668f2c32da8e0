package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pheme/internal/artwork"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <mtg|ygo> <card name>...",
		Short: "Look up card artwork",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			client := artwork.NewClient(time.Duration(cfg.Providers.RequestTimeout)*time.Second, "", "")

			var imageURL string
			switch strings.ToLower(args[0]) {
			case "mtg":
				imageURL, err = client.MTGImage(cmd.Context(), name)
			case "ygo":
				imageURL, err = client.YGOImage(cmd.Context(), name)
			default:
				return fmt.Errorf("show supports \"mtg\" and \"ygo\", not %q", args[0])
			}

			out := cmd.OutOrStdout()
			if errors.Is(err, artwork.ErrUnknownCard) {
				fmt.Fprintf(out, "No card matched %q. Try a more specific name.\n", name)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, imageURL)
			return nil
		},
	}
}
