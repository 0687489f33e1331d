package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newWaveCommand groups the Wave & Cluster Picker's operation surface.
func newWaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wave",
		Short: "Wave & Cluster Picker: plan, batch, and execute multi-order picks",
	}
	cmd.AddCommand(
		newWavePlanCommand(),
		newWaveCreateBatchCommand(),
		newWaveGetTasksCommand(),
		newWaveCompleteCommand(),
	)
	return cmd
}

func parseOrderIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid order id %q: %w", r, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newWavePlanCommand() *cobra.Command {
	var orderIDs []string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Aggregate outstanding pick demand per SKU across orders, walk-path sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseOrderIDs(orderIDs)
			if err != nil {
				return err
			}

			c := mustContainer()
			defer c.Cleanup()

			items, err := c.WaveService.WavePlan(cmd.Context(), ids)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Printf("sku=%-16s qty=%-4d location=%-10s (%d,%d) contributors=%d\n",
					item.SKU, item.TotalQty, item.LocationCode, item.X, item.Y, len(item.Contributors))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&orderIDs, "order-id", nil, "order id to include (repeatable)")
	cmd.MarkFlagRequired("order-id")
	return cmd
}

func newWaveCreateBatchCommand() *cobra.Command {
	var orderIDs []string
	var picker string

	cmd := &cobra.Command{
		Use:   "create-batch",
		Short: "Link a set of orders under one cluster-pick batch reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseOrderIDs(orderIDs)
			if err != nil {
				return err
			}

			c := mustContainer()
			defer c.Cleanup()

			batch, err := c.WaveService.CreateClusterBatch(cmd.Context(), ids, picker)
			if err != nil {
				return err
			}
			fmt.Printf("batch=%s picker=%s orders=%d\n", batch.BatchReference, batch.Picker, len(batch.OrderIDs))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&orderIDs, "order-id", nil, "order id to include (repeatable)")
	cmd.Flags().StringVar(&picker, "picker", "", "picker name")
	cmd.MarkFlagRequired("order-id")
	cmd.MarkFlagRequired("picker")
	return cmd
}

func newWaveGetTasksCommand() *cobra.Command {
	var batchReference string

	cmd := &cobra.Command{
		Use:   "get-tasks",
		Short: "Resolve a batch's aggregate SKU demand to physical bins, FEFO",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			tasks, err := c.WaveService.GetClusterTasks(cmd.Context(), batchReference)
			if err != nil {
				return err
			}
			for _, t := range tasks {
				fmt.Printf("location=%-10s sku=%-16s qty=%-4d lines=%d\n", t.LocationCode, t.SKU, t.TotalQty, len(t.DistributeTo))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&batchReference, "batch", "", "cluster batch reference")
	cmd.MarkFlagRequired("batch")
	return cmd
}

func newWaveCompleteCommand() *cobra.Command {
	var orderIDs []string
	var actor string

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Bulk-pick every named order's remaining allocated quantity from its first AVAILABLE bin",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseOrderIDs(orderIDs)
			if err != nil {
				return err
			}

			c := mustContainer()
			defer c.Cleanup()

			outcomes, err := c.WaveService.CompleteWave(cmd.Context(), ids, actorFlag(actor))
			if err != nil {
				return err
			}
			for _, o := range outcomes {
				fmt.Printf("order=%-12s sku=%-16s qty_picked=%-4d status=%s\n", o.OrderNumber, o.SKU, o.QtyPicked, o.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&orderIDs, "order-id", nil, "order id to include (repeatable)")
	cmd.Flags().StringVar(&actor, "actor", "", "who performed this action")
	cmd.MarkFlagRequired("order-id")
	return cmd
}
