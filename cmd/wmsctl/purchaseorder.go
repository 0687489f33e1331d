package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// newPurchaseOrderCommand groups Purchase Order Receiving's operation
// surface.
func newPurchaseOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "po",
		Short: "Purchase Order Receiving: post receipts against supplier orders",
	}
	cmd.AddCommand(newPOReceiveCommand())
	return cmd
}

func newPOReceiveCommand() *cobra.Command {
	var poNumber, sku, location, lot, expiry, actor string
	var qty int

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Post a physical receipt against a PO line",
		RunE: func(cmd *cobra.Command, args []string) error {
			var expiryPtr *time.Time
			if expiry != "" {
				t, err := time.Parse(time.RFC3339, expiry)
				if err != nil {
					return fmt.Errorf("invalid --expiry: %w", err)
				}
				expiryPtr = &t
			}

			c := mustContainer()
			defer c.Cleanup()

			result, err := c.PurchaseOrderService.ReceivePOItem(cmd.Context(), poNumber, sku, location, qty, optionalString(lot), expiryPtr, actorFlag(actor))
			if err != nil {
				return err
			}
			fmt.Printf("po=%s status=%s sku=%s ordered=%d received=%d\n",
				result.PONumber, result.Status, result.LineProgress.SKU, result.LineProgress.Ordered, result.LineProgress.Received)
			return nil
		},
	}

	cmd.Flags().StringVar(&poNumber, "po", "", "purchase order number")
	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.Flags().StringVar(&location, "location", "", "receiving location code")
	cmd.Flags().IntVar(&qty, "qty", 0, "quantity received")
	cmd.Flags().StringVar(&lot, "lot", "", "lot number (optional)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry date, RFC3339 (optional)")
	cmd.Flags().StringVar(&actor, "actor", "", "who performed this action")
	cmd.MarkFlagRequired("po")
	cmd.MarkFlagRequired("sku")
	cmd.MarkFlagRequired("location")
	cmd.MarkFlagRequired("qty")
	return cmd
}
