package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"wms-core/internal/domains/cyclecount/model"
)

// newCycleCountCommand groups the Cycle Count Engine's operation surface:
// sampling sessions and reconciling counted tasks.
func newCycleCountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cyclecount",
		Short: "Cycle Count Engine: sample sessions, submit counts",
	}
	cmd.AddCommand(
		newCycleCountRandomCommand(),
		newCycleCountForLocationCommand(),
		newCycleCountSubmitCommand(),
	)
	return cmd
}

func newCycleCountRandomCommand() *cobra.Command {
	var aislePrefix, deviceID string
	var limit int

	cmd := &cobra.Command{
		Use:   "create-random",
		Short: "Open a session sampling up to --limit inventory rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			session, tasks, err := c.CycleCountService.CreateRandom(cmd.Context(), optionalString(aislePrefix), limit, optionalString(deviceID))
			if err != nil {
				return err
			}
			printSession(session, tasks)
			return nil
		},
	}
	cmd.Flags().StringVar(&aislePrefix, "aisle-prefix", "", "restrict sampling to locations with this prefix")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of rows to sample")
	cmd.Flags().StringVar(&deviceID, "device", "", "counting device id")
	cmd.MarkFlagRequired("limit")
	return cmd
}

func newCycleCountForLocationCommand() *cobra.Command {
	var location, deviceID string

	cmd := &cobra.Command{
		Use:   "create-for-location",
		Short: "Open a session with one task per row at a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			session, tasks, err := c.CycleCountService.CreateForLocation(cmd.Context(), location, optionalString(deviceID))
			if err != nil {
				return err
			}
			printSession(session, tasks)
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "location code")
	cmd.Flags().StringVar(&deviceID, "device", "", "counting device id")
	cmd.MarkFlagRequired("location")
	return cmd
}

func newCycleCountSubmitCommand() *cobra.Command {
	var taskID, actor string
	var countedQty int

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a task's counted quantity, reconciling any variance",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(taskID)
			if err != nil {
				return fmt.Errorf("invalid --task: %w", err)
			}

			c := mustContainer()
			defer c.Cleanup()

			task, err := c.CycleCountService.SubmitCount(cmd.Context(), id, countedQty, actorFlag(actor))
			if err != nil {
				return err
			}
			variance := "-"
			if task.Variance != nil {
				variance = fmt.Sprintf("%d", *task.Variance)
			}
			fmt.Printf("task=%s status=%s variance=%s\n", task.ID, task.Status, variance)
			return nil
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "cycle count task id")
	cmd.Flags().IntVar(&countedQty, "counted-qty", 0, "physically counted quantity")
	cmd.Flags().StringVar(&actor, "actor", "", "who performed this count")
	cmd.MarkFlagRequired("task")
	return cmd
}

func printSession(session *model.Session, tasks []model.Task) {
	fmt.Printf("session=%s reference=%s status=%s tasks=%d\n", session.ID, session.Reference, session.Status, len(tasks))
	for _, t := range tasks {
		fmt.Printf("  task=%s inventory=%s expected_qty=%d\n", t.ID, t.InventoryID, t.ExpectedQty)
	}
}
