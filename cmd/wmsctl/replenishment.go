package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newReplenishmentCommand groups the Replenishment Planner's operation
// surface: the scan that opens tasks, and completing an opened task.
func newReplenishmentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replenishment",
		Short: "Replenishment Planner: top up pick faces from reserve stock",
	}
	cmd.AddCommand(
		newReplenishmentGenerateCommand(),
		newReplenishmentCompleteCommand(),
	)
	return cmd
}

func newReplenishmentGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Scan every pick-face configuration and open tasks for rows below min_qty",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			tasks, err := c.ReplenishmentService.GenerateReplenishmentTasks(cmd.Context())
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("no tasks opened")
				return nil
			}
			for _, t := range tasks {
				fmt.Printf("task=%s sku=%-16s %s -> %s qty=%d\n", t.ID, t.SKU, t.SourceLocation, t.DestLocation, t.QtyToMove)
			}
			return nil
		},
	}
	return cmd
}

func newReplenishmentCompleteCommand() *cobra.Command {
	var taskID, actor string

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Move a task's stock from source to dest and mark it COMPLETED",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(taskID)
			if err != nil {
				return fmt.Errorf("invalid --task: %w", err)
			}

			c := mustContainer()
			defer c.Cleanup()

			task, err := c.ReplenishmentService.CompleteReplenishment(cmd.Context(), id, actorFlag(actor))
			if err != nil {
				return err
			}
			fmt.Printf("task=%s status=%s\n", task.ID, task.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "replenishment task id")
	cmd.Flags().StringVar(&actor, "actor", "", "who performed this action")
	cmd.MarkFlagRequired("task")
	return cmd
}
