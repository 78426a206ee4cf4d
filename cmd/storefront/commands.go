package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/azcart/storefront-client/api"
	"github.com/azcart/storefront-client/cart"
	"github.com/azcart/storefront-client/orders"
	"github.com/azcart/storefront-client/routeguard"
	"github.com/azcart/storefront-client/session"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and persist the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(cCtx *cli.Context) error {
			e, err := newEnv()
			if err != nil {
				return err
			}

			current, err := e.client.Login(cCtx.Context, api.Credentials{
				Email:    cCtx.String("email"),
				Password: cCtx.String("password"),
			})
			if err != nil {
				if api.IsUnauthorized(err) {
					return fmt.Errorf("Invalid email or password")
				}
				return err
			}

			fmt.Printf("Signed in as %s (%s)\n", cCtx.String("email"), current.Role)
			fmt.Printf("Home view: %s\n", e.guard.Home())
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and clear the persisted session",
		Action: func(cCtx *cli.Context) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			if err := e.client.Logout(cCtx.Context); err != nil {
				// The local session is already gone; the backend's
				// opinion no longer matters.
				e.log.Warn().Err(err).Msg("backend logout failed")
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create a shopper account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "phone", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(cCtx *cli.Context) error {
			e, err := newEnv()
			if err != nil {
				return err
			}

			msg, err := e.client.Register(cCtx.Context, api.Registration{
				Name:     cCtx.String("name"),
				Email:    cCtx.String("email"),
				PhoneNo:  cCtx.String("phone"),
				Password: cCtx.String("password"),
			})
			if err != nil {
				if api.IsConflict(err) {
					return fmt.Errorf("email already registered")
				}
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the current session",
		Action: func(*cli.Context) error {
			e, err := newEnv()
			if err != nil {
				return err
			}

			current := e.store.Get()
			if !current.Authenticated() {
				fmt.Println("Not signed in")
				return nil
			}
			fmt.Printf("Role: %s\nHome view: %s\n", current.Role, e.guard.Home())
			return nil
		},
	}
}

func homeCommand() *cli.Command {
	return &cli.Command{
		Name:  "home",
		Usage: "Fetch the welcome text for the signed-in role",
		Action: func(cCtx *cli.Context) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			if err := e.requireView(routeguard.RequireAuthenticated); err != nil {
				return err
			}

			var text string
			if e.store.Get().Role == session.RoleAdmin {
				text, err = e.client.AdminHome(cCtx.Context)
			} else {
				text, err = e.client.UserHome(cCtx.Context)
			}
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
}

func cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "Inspect and mutate the cart",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show cart lines and the running total",
				Action: func(cCtx *cli.Context) error {
					_, sync, err := loadCart(cCtx)
					if err != nil {
						return err
					}

					for _, line := range sync.Lines() {
						name := "(loading)"
						if line.Resolved() {
							name = line.Product.Name
						}
						fmt.Printf("#%d  %-20s x%d  %8.2f\n", line.Item.ID, name, line.Item.Quantity, line.Subtotal())
					}
					fmt.Printf("Total: %.2f\n", sync.Total())
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Add a product to the cart",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "product", Required: true},
					&cli.IntFlag{Name: "quantity", Value: 1},
				},
				Action: func(cCtx *cli.Context) error {
					_, sync, err := loadCart(cCtx)
					if err != nil {
						return err
					}
					msg, err := sync.Add(cCtx.Context, cCtx.Int64("product"), cCtx.Int("quantity"))
					if err != nil {
						return err
					}
					fmt.Println(msg)
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Change a line's quantity",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "line", Required: true},
					&cli.IntFlag{Name: "quantity", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					_, sync, err := loadCart(cCtx)
					if err != nil {
						return err
					}
					if cCtx.Int("quantity") < 1 {
						fmt.Println("Quantity must be at least 1; use 'cart rm' to remove a line")
						return nil
					}
					if err := sync.UpdateQuantity(cCtx.Context, cCtx.Int64("line"), cCtx.Int("quantity")); err != nil {
						return err
					}
					fmt.Printf("Total: %.2f\n", sync.Total())
					return nil
				},
			},
			{
				Name:  "rm",
				Usage: "Remove a line from the cart",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "line", Required: true},
				},
				Action: func(cCtx *cli.Context) error {
					_, sync, err := loadCart(cCtx)
					if err != nil {
						return err
					}
					if err := sync.Delete(cCtx.Context, cCtx.Int64("line")); err != nil {
						return err
					}
					fmt.Printf("Total: %.2f\n", sync.Total())
					return nil
				},
			},
		},
	}
}

func loadCart(cCtx *cli.Context) (*env, *cart.Synchronizer, error) {
	e, err := newEnv()
	if err != nil {
		return nil, nil, err
	}
	if err := e.requireView(routeguard.RequireUser); err != nil {
		return nil, nil, err
	}

	sync, err := cart.NewSynchronizer(e.client, e.log)
	if err != nil {
		return nil, nil, err
	}
	if err := sync.Load(cCtx.Context); err != nil {
		return nil, nil, err
	}
	return e, sync, nil
}

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "Inspect orders and request cancellations",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show placed orders",
				Action: func(cCtx *cli.Context) error {
					_, list, err := loadOrders(cCtx)
					if err != nil {
						return err
					}

					for _, entry := range list.Entries() {
						name := "(loading)"
						if entry.Product != nil {
							name = entry.Product.Name
						}
						marker := ""
						if entry.Order.Cancellable() {
							marker = "  [cancellable]"
						}
						fmt.Printf("#%d  %-20s %s %s  %s%s\n",
							entry.Order.OrderID, name, entry.Order.OrderDate,
							entry.Order.OrderTime, entry.Order.OrderStatus, marker)
					}
					return nil
				},
			},
			{
				Name:  "cancel",
				Usage: "Cancel an order (requires --yes to confirm)",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "order", Required: true},
					&cli.BoolFlag{Name: "yes", Usage: "confirm the cancellation"},
				},
				Action: func(cCtx *cli.Context) error {
					e, list, err := loadOrders(cCtx)
					if err != nil {
						return err
					}

					flow, err := orders.NewFlow(list, e.log)
					if err != nil {
						return err
					}
					if err := flow.Request(cCtx.Int64("order")); err != nil {
						return err
					}

					if !cCtx.Bool("yes") {
						_ = flow.Decline()
						fmt.Println("Cancellation not confirmed; pass --yes to proceed")
						return nil
					}

					if err := flow.Confirm(cCtx.Context); err != nil {
						_ = flow.Acknowledge()
						return fmt.Errorf("Failed to cancel order: %s", presentError(err))
					}
					fmt.Println("Order cancelled successfully")
					return nil
				},
			},
		},
	}
}

func loadOrders(cCtx *cli.Context) (*env, *orders.List, error) {
	e, err := newEnv()
	if err != nil {
		return nil, nil, err
	}
	if err := e.requireView(routeguard.RequireUser); err != nil {
		return nil, nil, err
	}

	list, err := orders.NewList(e.client, e.log)
	if err != nil {
		return nil, nil, err
	}
	if err := list.Load(cCtx.Context); err != nil {
		return nil, nil, err
	}
	return e, list, nil
}

func deleteAccountCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete-account",
		Usage: "Permanently delete the signed-in account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "password", Required: true},
			&cli.BoolFlag{Name: "admin", Usage: "delete an admin account"},
		},
		Action: func(cCtx *cli.Context) error {
			e, err := newEnv()
			if err != nil {
				return err
			}

			required := routeguard.RequireUser
			if cCtx.Bool("admin") {
				required = routeguard.RequireAdmin
			}
			if err := e.requireView(required); err != nil {
				return err
			}

			var msg string
			if cCtx.Bool("admin") {
				msg, err = e.client.DeleteAdminAccount(cCtx.Context, cCtx.String("password"))
			} else {
				msg, err = e.client.DeleteAccount(cCtx.Context, cCtx.String("password"))
			}
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}
