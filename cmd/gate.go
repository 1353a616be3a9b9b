package cmd

import (
	"context"
	"github.com/spf13/cobra"
	"ru-ticket/outbound/ruapi"
)

func newGateCmd(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:   "gate",
		Short: "Turnstile operator commands",
	}

	root.AddCommand(&cobra.Command{
		Use:   "validate CODE",
		Short: "Validate a scanned redemption code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := newCfg("env")
			api := ruapi.NewClient(cfg.GetString("client.base_url"), cfg.GetDuration("client.timeout"))

			res, err := api.Validate(ctx, args[0])
			if err != nil {
				return err
			}

			if !res.Ok {
				cmd.Printf("REJECTED %s: %s\n", res.Code, res.Reason)
				return nil
			}

			cmd.Printf("ACCEPTED %s (%s)\n", res.Name, res.Category)
			if res.Restaurant != nil && res.Meal != nil {
				cmd.Printf("%s at %s\n", *res.Meal, *res.Restaurant)
			}
			if res.Amount != nil {
				cmd.Printf("paid %s\n", res.Amount.String())
			}
			return nil
		},
	})

	return root
}
