package cmd

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"os"
	"path/filepath"
	"ru-ticket/flow"
	"ru-ticket/outbound/ruapi"
)

const qrSize = 256

type clientCmd struct {
	cfg        *viper.Viper
	controller *flow.Controller
	api        *ruapi.Client
	printer    *message.Printer
}

func newClientCmd(ctx context.Context, devMode *bool) *cobra.Command {
	in := &clientCmd{printer: message.NewPrinter(language.BrazilianPortuguese)}

	root := &cobra.Command{
		Use:   "client",
		Short: "Register, buy and redeem meal tickets against a running server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			in.cfg = newCfg("env")
			in.api = ruapi.NewClient(in.cfg.GetString("client.base_url"), in.cfg.GetDuration("client.timeout"))

			controller, err := flow.NewController(
				in.api,
				flow.ProfileStore{Path: in.cfg.GetString("client.profile_path")},
				newEngine(in.cfg, *devMode),
				validator.New(),
				in.cfg.GetDuration("client.poll_interval"),
			)
			if err != nil {
				return err
			}
			in.controller = controller

			return nil
		},
	}

	var registerInput flow.RegisterInput
	register := &cobra.Command{
		Use:   "register",
		Short: "Create the local profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := in.controller.Register(registerInput)
			if err != nil {
				return err
			}
			cmd.Printf("registered %s (%s), id %s\n", profile.Name, profile.Category, profile.Id)
			return nil
		},
	}
	register.Flags().StringVar(&registerInput.Name, "name", "", "full name")
	register.Flags().StringVar(&registerInput.Category, "category", "", "category code")
	register.Flags().StringVar(&registerInput.Id, "id", "", "registration number, optional for visitors")
	register.Flags().StringVar(&registerInput.Photo, "photo", "", "photo as a data URL")

	var (
		forcedMeal string
		noWait     bool
	)
	buy := &cobra.Command{
		Use:   "buy RESTAURANT",
		Short: "Buy a ticket for the meal being served",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			purchase, err := in.controller.Buy(ctx, args[0], forcedMeal)
			if err != nil {
				return err
			}

			cmd.Printf("ticket %s: %s at %s, %s\n", purchase.TicketId, purchase.Meal, purchase.Restaurant, purchase.Price.Format(in.printer))
			if purchase.Paid {
				cmd.Println("free meal, ticket already paid")
				return nil
			}

			path, err := in.writeQR("payment.png", purchase.Reference.Payload)
			if err != nil {
				return err
			}
			cmd.Printf("pay %s to %s\n%s\nQR code written to %s\n",
				purchase.Reference.Amount.Format(in.printer), purchase.Reference.ReceiverKey, purchase.Reference.Payload, path)

			if noWait {
				return nil
			}

			cmd.Println("waiting for payment...")
			if err = in.controller.WaitForPayment(ctx); err != nil {
				return err
			}
			cmd.Println("payment confirmed")
			return nil
		},
	}
	buy.Flags().StringVar(&forcedMeal, "meal", "", "meal to buy, honoured only in dev mode")
	buy.Flags().BoolVar(&noWait, "no-wait", false, "return without waiting for payment")

	root.AddCommand(
		register,
		&cobra.Command{
			Use:   "login ID",
			Short: "Check the local profile against a registration number",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				profile, err := in.controller.Login(args[0])
				if err != nil {
					return err
				}
				cmd.Printf("welcome back, %s\n", profile.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "profile",
			Short: "Show the local profile",
			RunE: func(cmd *cobra.Command, args []string) error {
				profile, err := in.controller.Profile()
				if err != nil {
					return err
				}
				cmd.Printf("%s (%s), id %s, %s\n", profile.Name, profile.Category, profile.Id, profile.DisplayPrice().Format(in.printer))
				if profile.TicketId != "" {
					cmd.Printf("ticket %s, %s at %s\n", profile.TicketId, profile.Meal, profile.Restaurant)
				}
				return nil
			},
		},
		buy,
		&cobra.Command{
			Use:   "pay",
			Short: "Simulate the payment of the current ticket",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := in.controller.SimulatePayment(ctx); err != nil {
					return err
				}
				cmd.Println("payment confirmed")
				return nil
			},
		},
		&cobra.Command{
			Use:   "wait",
			Short: "Wait until the current ticket is paid",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := in.controller.WaitForPayment(ctx); err != nil {
					return err
				}
				cmd.Println("payment confirmed")
				return nil
			},
		},
		&cobra.Command{
			Use:   "qr",
			Short: "Write the redemption QR code of the current ticket",
			RunE: func(cmd *cobra.Command, args []string) error {
				code, err := in.controller.RedemptionCode(ctx)
				if err != nil {
					return err
				}

				path, err := in.writeQR("ticket.png", code)
				if err != nil {
					return err
				}
				cmd.Printf("%s\nQR code written to %s\n", code, path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "restaurants",
			Short: "List restaurants and what they are serving",
			RunE: func(cmd *cobra.Command, args []string) error {
				statuses, err := in.api.Restaurants(ctx)
				if err != nil {
					return err
				}
				for _, status := range statuses {
					state := "closed"
					if status.Open && status.Window != nil {
						state = fmt.Sprintf("serving %s until %s", status.Meal, status.Window.End)
					} else if status.Open {
						state = "open"
					}
					cmd.Printf("%-8s %-24s %s\n", status.Id, status.Name, state)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the local profile",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := in.controller.Logout(); err != nil {
					return err
				}
				cmd.Println("logged out")
				return nil
			},
		},
	)

	return root
}

func (in *clientCmd) writeQR(name, content string) (string, error) {
	if content == "" {
		return "", errors.New("empty QR content")
	}

	dir := in.cfg.GetString("client.qr_dir")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := qrcode.WriteFile(content, qrcode.Medium, qrSize, path); err != nil {
		return "", fmt.Errorf("write qr code: %w", err)
	}

	return path, nil
}
