package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"wms-core/internal/domains/inventory/model"
)

// newInventoryCommand groups the Inventory Store's operation surface:
// receive, pick, move, adjust, and the read-side listings.
func newInventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory Store: receive, pick, move, adjust stock",
	}

	cmd.AddCommand(
		newInventoryReceiveCommand(),
		newInventoryPickCommand(),
		newInventoryMoveCommand(),
		newInventoryAdjustCommand(),
		newInventoryListForSKUCommand(),
		newInventoryListByLocationCommand(),
	)
	return cmd
}

func newInventoryReceiveCommand() *cobra.Command {
	var (
		sku, location, lot, status, actor string
		qty                               int
		expiry                            string
		serials                           []string
	)

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Receive stock into a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			var expiryPtr *time.Time
			if expiry != "" {
				t, err := time.Parse(time.RFC3339, expiry)
				if err != nil {
					return fmt.Errorf("invalid --expiry: %w", err)
				}
				expiryPtr = &t
			}

			req := model.ReceiveRequest{
				SKU: sku, LocationCode: location, Qty: qty,
				Lot: optionalString(lot), Expiry: expiryPtr,
				Status: model.Status(status), Serials: serials,
			}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("invalid request: %w", err)
			}

			c := mustContainer()
			defer c.Cleanup()

			result, err := c.InventoryService.Receive(cmd.Context(), req.SKU, req.LocationCode, req.Qty, req.Lot, req.Expiry, req.Status, req.Serials, actorFlag(actor))
			if err != nil {
				return err
			}
			fmt.Printf("received: inventory_id=%s new_qty=%d\n", result.ID, result.NewQty)
			return nil
		},
	}

	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.Flags().StringVar(&location, "location", "", "destination location code")
	cmd.Flags().IntVar(&qty, "qty", 0, "quantity received")
	cmd.Flags().StringVar(&lot, "lot", "", "lot number (optional)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry date, RFC3339 (optional)")
	cmd.Flags().StringVar(&status, "status", string(model.StatusAvailable), "AVAILABLE, QUARANTINE, or DAMAGED")
	cmd.Flags().StringSliceVar(&serials, "serial", nil, "serial numbers, one per unit (repeatable)")
	cmd.Flags().StringVar(&actor, "actor", "", "who performed this action")
	cmd.MarkFlagRequired("sku")
	cmd.MarkFlagRequired("location")
	cmd.MarkFlagRequired("qty")
	return cmd
}

func newInventoryPickCommand() *cobra.Command {
	var (
		inventoryID, serial, actor string
		qty                        int
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a quantity directly off a named inventory row",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(inventoryID)
			if err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}

			c := mustContainer()
			defer c.Cleanup()

			inv, err := c.InventoryService.Pick(cmd.Context(), id, qty, optionalString(serial), actorFlag(actor))
			if err != nil {
				return err
			}
			fmt.Printf("picked: inventory_id=%s remaining_qty=%d\n", inv.ID, inv.Quantity)
			return nil
		},
	}

	cmd.Flags().StringVar(&inventoryID, "id", "", "inventory row id")
	cmd.Flags().IntVar(&qty, "qty", 0, "quantity to pick")
	cmd.Flags().StringVar(&serial, "serial", "", "serial number, for serialized items")
	cmd.Flags().StringVar(&actor, "actor", "", "who performed this action")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("qty")
	return cmd
}

func newInventoryMoveCommand() *cobra.Command {
	var sku, src, dst, actor string
	var qty int

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move stock from one location to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			result, err := c.InventoryService.Move(cmd.Context(), sku, src, dst, qty, actorFlag(actor))
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.Flags().StringVar(&src, "src", "", "source location code")
	cmd.Flags().StringVar(&dst, "dst", "", "destination location code")
	cmd.Flags().IntVar(&qty, "qty", 0, "quantity to move")
	cmd.Flags().StringVar(&actor, "actor", "", "who performed this action")
	cmd.MarkFlagRequired("sku")
	cmd.MarkFlagRequired("src")
	cmd.MarkFlagRequired("dst")
	cmd.MarkFlagRequired("qty")
	return cmd
}

func newInventoryAdjustCommand() *cobra.Command {
	var inventoryID, reason, actor string
	var newQty int

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Set an inventory row's quantity unconditionally (cycle count, damage write-off)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(inventoryID)
			if err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}

			c := mustContainer()
			defer c.Cleanup()

			inv, err := c.InventoryService.Adjust(cmd.Context(), id, newQty, reason, actorFlag(actor))
			if err != nil {
				return err
			}
			fmt.Printf("adjusted: inventory_id=%s new_qty=%d\n", inv.ID, inv.Quantity)
			return nil
		},
	}

	cmd.Flags().StringVar(&inventoryID, "id", "", "inventory row id")
	cmd.Flags().IntVar(&newQty, "qty", 0, "new quantity")
	cmd.Flags().StringVar(&reason, "reason", "", "reason for the adjustment")
	cmd.Flags().StringVar(&actor, "actor", "", "who performed this action")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("reason")
	return cmd
}

func newInventoryListForSKUCommand() *cobra.Command {
	var sku string

	cmd := &cobra.Command{
		Use:   "list-for-sku",
		Short: "List every stock row for a SKU",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			rows, err := c.InventoryService.ListForSKU(cmd.Context(), sku)
			if err != nil {
				return err
			}
			printInventoryRows(rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.MarkFlagRequired("sku")
	return cmd
}

func newInventoryListByLocationCommand() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "list-by-location",
		Short: "List every stock row at a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			rows, err := c.InventoryService.ListByLocation(cmd.Context(), location)
			if err != nil {
				return err
			}
			printInventoryRows(rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "location code")
	cmd.MarkFlagRequired("location")
	return cmd
}

func printInventoryRows(rows []model.Inventory) {
	if len(rows) == 0 {
		fmt.Println("no rows found")
		return
	}
	for _, r := range rows {
		lot := "-"
		if r.LotNumber != nil {
			lot = *r.LotNumber
		}
		fmt.Printf("%s  sku=%-16s loc=%-10s status=%-10s qty=%-4d reserved=%-4d lot=%s\n",
			r.ID, r.SKU, r.LocationCode, r.Status, r.Quantity, r.ReservedQuantity, lot)
	}
}
