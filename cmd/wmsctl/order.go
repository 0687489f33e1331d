package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newOrderCommand groups the order fulfillment pipeline: allocation through
// shipment, plus short_pick and label printing.
func newOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Order fulfillment pipeline: allocate, pick, pack, ship",
	}
	cmd.AddCommand(
		newOrderAllocateCommand(),
		newOrderPickItemCommand(),
		newOrderPackCommand(),
		newOrderShipCommand(),
		newOrderShortPickCommand(),
		newOrderGetCommand(),
		newOrderListLinesCommand(),
		newOrderPrintLabelCommand(),
	)
	return cmd
}

func newOrderAllocateCommand() *cobra.Command {
	var orderNumber string

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Reserve stock against a PENDING order's lines, FEFO",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			result, err := c.OrderService.Allocate(cmd.Context(), orderNumber)
			if err != nil {
				return err
			}
			fmt.Printf("status=%s\n", result.Status)
			for _, l := range result.Lines {
				fmt.Printf("  sku=%-16s ordered=%-4d allocated=%d\n", l.SKU, l.Ordered, l.Allocated)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&orderNumber, "order", "", "order number")
	cmd.MarkFlagRequired("order")
	return cmd
}

func newOrderPickItemCommand() *cobra.Command {
	var orderNumber, sku, location, lot, serial string
	var qty int

	cmd := &cobra.Command{
		Use:   "pick-item",
		Short: "Pick one line's quantity from a named bin",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			result, err := c.OrderService.PickOrderItem(cmd.Context(), orderNumber, sku, location, qty, optionalString(lot), optionalString(serial))
			if err != nil {
				return err
			}
			fmt.Printf("line=%s qty_picked=%d order_status=%s\n", result.LineID, result.QtyPicked, result.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&orderNumber, "order", "", "order number")
	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.Flags().StringVar(&location, "location", "", "bin to pick from")
	cmd.Flags().IntVar(&qty, "qty", 0, "quantity to pick")
	cmd.Flags().StringVar(&lot, "lot", "", "lot number (optional)")
	cmd.Flags().StringVar(&serial, "serial", "", "serial number (optional, serialized items)")
	cmd.MarkFlagRequired("order")
	cmd.MarkFlagRequired("sku")
	cmd.MarkFlagRequired("location")
	cmd.MarkFlagRequired("qty")
	return cmd
}

func newOrderPackCommand() *cobra.Command {
	var orderNumber string
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Transition a fully-picked order to PACKED",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			order, err := c.OrderService.Pack(cmd.Context(), orderNumber)
			if err != nil {
				return err
			}
			fmt.Printf("order=%s status=%s\n", order.OrderNumber, order.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&orderNumber, "order", "", "order number")
	cmd.MarkFlagRequired("order")
	return cmd
}

func newOrderShipCommand() *cobra.Command {
	var orderNumber string
	cmd := &cobra.Command{
		Use:   "ship",
		Short: "Transition a PICKED or PACKED order to SHIPPED",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			order, err := c.OrderService.Ship(cmd.Context(), orderNumber)
			if err != nil {
				return err
			}
			fmt.Printf("order=%s status=%s\n", order.OrderNumber, order.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&orderNumber, "order", "", "order number")
	cmd.MarkFlagRequired("order")
	return cmd
}

func newOrderShortPickCommand() *cobra.Command {
	var orderNumber, sku, location string
	var qtyMissing int

	cmd := &cobra.Command{
		Use:   "short-pick",
		Short: "Record a shortfall discovered at a bin, reverting its reservation there",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			order, err := c.OrderService.ShortPick(cmd.Context(), orderNumber, sku, location, qtyMissing)
			if err != nil {
				return err
			}
			fmt.Printf("order=%s status=%s\n", order.OrderNumber, order.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&orderNumber, "order", "", "order number")
	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.Flags().StringVar(&location, "location", "", "bin where the shortage was discovered")
	cmd.Flags().IntVar(&qtyMissing, "qty-missing", 0, "quantity that could not be picked")
	cmd.MarkFlagRequired("order")
	cmd.MarkFlagRequired("sku")
	cmd.MarkFlagRequired("location")
	cmd.MarkFlagRequired("qty-missing")
	return cmd
}

func newOrderGetCommand() *cobra.Command {
	var orderNumber string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Look up an order by number",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			order, err := c.OrderService.GetByNumber(cmd.Context(), orderNumber)
			if err != nil {
				return err
			}
			fmt.Printf("order=%s status=%s on_hold=%t priority=%d customer=%s\n",
				order.OrderNumber, order.Status, order.IsOnHold, order.Priority, order.CustomerName)
			return nil
		},
	}
	cmd.Flags().StringVar(&orderNumber, "order", "", "order number")
	cmd.MarkFlagRequired("order")
	return cmd
}

func newOrderListLinesCommand() *cobra.Command {
	var orderID string
	cmd := &cobra.Command{
		Use:   "list-lines",
		Short: "List an order's lines by order id",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(orderID)
			if err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}

			c := mustContainer()
			defer c.Cleanup()

			lines, err := c.OrderService.ListLines(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, l := range lines {
				fmt.Printf("sku=%-16s ordered=%-4d allocated=%-4d picked=%d\n", l.SKU, l.QtyOrdered, l.QtyAllocated, l.QtyPicked)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&orderID, "id", "", "order id")
	cmd.MarkFlagRequired("id")
	return cmd
}

func newOrderPrintLabelCommand() *cobra.Command {
	var orderNumber, file string

	cmd := &cobra.Command{
		Use:   "print-label",
		Short: "Persist a caller-rendered label's bytes against a packed or shipped order",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading --file: %w", err)
			}

			c := mustContainer()
			defer c.Cleanup()

			ref, err := c.OrderService.PrintLabel(cmd.Context(), orderNumber, data)
			if err != nil {
				return err
			}
			fmt.Printf("label stored: ref=%s\n", ref)
			return nil
		},
	}
	cmd.Flags().StringVar(&orderNumber, "order", "", "order number")
	cmd.Flags().StringVar(&file, "file", "", "path to the rendered label bytes")
	cmd.MarkFlagRequired("order")
	cmd.MarkFlagRequired("file")
	return cmd
}
