package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/go-pizza-cartflow/internal/cart"
	"github.com/imrishuroy/go-pizza-cartflow/internal/menu"
)

type priceResult struct {
	Items        []cart.LineItem    `json:"items"`
	InvalidItems []cart.ItemRequest `json:"invalidItems,omitempty"`
	Total        float64            `json:"total"`
}

func newPriceCmd() *cobra.Command {
	var (
		menuFile string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "price <items.json>",
		Short: "Price a list of cart items against a menu file",
		Long:  "Reads a JSON array of {type,size,qty} entries and prints the priced line items, rejected entries and total.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := menu.NewFileSource(menuFile)
			m, err := src.Read(cmd.Context())
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading items: %w", err)
			}
			var items []cart.ItemRequest
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("parsing items: %w", err)
			}

			policy := cart.QuantityLenient
			if strict {
				policy = cart.QuantityStrict
			}
			lines, invalid, total := cart.ValidateAndPrice(items, m, policy)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(priceResult{Items: lines, InvalidItems: invalid, Total: total}); err != nil {
				return err
			}
			if len(invalid) > 0 {
				return fmt.Errorf("%d invalid items", len(invalid))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&menuFile, "menu", "m", "menu.yaml", "menu YAML file")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject items with an unusable qty instead of pricing them as 1")
	return cmd
}
