package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/cart"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type cartOptions struct {
	storagePath string
	now         func() time.Time
}

func (o *cartOptions) open() (*cart.Cart, error) {
	path := o.storagePath
	if path == "" {
		var err error
		if path, err = cart.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return cart.New(cart.NewLocalStorage(path)), nil
}

func rootCmd() *cobra.Command {
	opts := &cartOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the storefront cart",
		Long: `Manage the single-item storefront cart.

The cart holds one line item at a time; adding an item replaces the previous one.

Examples:
  cart add --name Widget --asset-id MARXIA-0003 --price 19.99 --quantity 2
  cart show --vat 20
  cart checkout --vat 20
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.storagePath, "storage", "", "Local storage file (default: user config dir)")

	cmd.AddCommand(
		addCmd(opts),
		showCmd(opts),
		vatCmd(opts),
		checkoutCmd(opts),
		clearCmd(opts),
	)

	return cmd
}

func addCmd(opts *cartOptions) *cobra.Command {
	var (
		name        string
		assetID     string
		description string
		price       float64
		quantity    int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Put a product in the cart, replacing the current item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			item, err := cart.NewLineItem(name, assetID, price, quantity, description)
			if err != nil {
				return err
			}

			c, err := opts.open()
			if err != nil {
				return err
			}
			if err = c.Add(item); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) x%d, subtotal %s\n",
				item.Name, item.AssetID, item.Quantity, money(item.Subtotal))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&assetID, "asset-id", "", "Product asset id")
	cmd.Flags().Float64Var(&price, "price", 0, "Unit price")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "Quantity, at least 1")
	cmd.Flags().StringVar(&description, "description", "", "Product description")

	return cmd
}

func showCmd(opts *cartOptions) *cobra.Command {
	var vat float64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cart item and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}

			item, err := c.Item()
			if errors.Is(err, cart.ErrEmptyCart) {
				fmt.Fprintln(cmd.OutOrStdout(), "Your cart is empty.")
				return nil
			}
			if err != nil {
				return err
			}

			total, vatErr := cart.ApplyVAT(item.Subtotal, vat)
			renderItem(cmd.OutOrStdout(), item, vat, total)
			return vatErr
		},
	}

	cmd.Flags().Float64Var(&vat, "vat", 0, "VAT percentage")

	return cmd
}

func vatCmd(opts *cartOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vat PERCENT",
		Short: "Compute the final total for a VAT percentage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var percent float64
			if _, err := fmt.Sscan(args[0], &percent); err != nil {
				return fmt.Errorf("%q: %w", args[0], cart.ErrInvalidVAT)
			}

			c, err := opts.open()
			if err != nil {
				return err
			}
			item, err := c.Item()
			if err != nil {
				return err
			}

			total, err := cart.ApplyVAT(item.Subtotal, percent)
			fmt.Fprintf(cmd.OutOrStdout(), "Final total: %s\n", money(total))
			return err
		},
	}
}

func checkoutCmd(opts *cartOptions) *cobra.Command {
	var vat float64

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Print the checkout payload as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			item, err := c.Item()
			if err != nil {
				return err
			}

			checkout, err := cart.NewCheckout(item, vat, opts.now())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(checkout)
		},
	}

	cmd.Flags().Float64Var(&vat, "vat", 0, "VAT percentage")

	return cmd
}

func clearCmd(opts *cartOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the cart item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.open()
			if err != nil {
				return err
			}
			if err = c.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		},
	}
}

func renderItem(w io.Writer, item *cart.LineItem, vat, total float64) {
	description := item.Description
	if description == "" {
		description = "N/A"
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Product", "Asset ID", "Price", "Qty", "Description", "Subtotal"})
	t.AppendRow(table.Row{item.Name, item.AssetID, money(item.Price), item.Quantity, description, money(item.Subtotal)})
	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("Total (VAT %g%%)", vat), money(total)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Price", Align: text.AlignRight},
		{Name: "Qty", Align: text.AlignRight},
		{Name: "Subtotal", Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
