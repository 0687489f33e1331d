package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wms-core/internal/domains/location/model"
)

// newLocationCommand groups Location's operation surface: creating physical
// buckets and binding pick-face replenishment configurations to them.
func newLocationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Locations and pick-face replenishment configuration",
	}
	cmd.AddCommand(
		newLocationCreateCommand(),
		newLocationListCommand(),
		newLocationSetConfigCommand(),
		newLocationListConfigsCommand(),
	)
	return cmd
}

func newLocationCreateCommand() *cobra.Command {
	var code, locType, zone string
	var x, y int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			loc, err := c.LocationService.CreateLocation(cmd.Context(), code, model.LocationType(locType), zone, x, y)
			if err != nil {
				return err
			}
			fmt.Printf("created: code=%s type=%s zone=%s (%d,%d)\n", loc.LocationCode, loc.Type, loc.Zone, loc.X, loc.Y)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "location code")
	cmd.Flags().StringVar(&locType, "type", "", "PICK, RESERVE, DOCK, or STAGING")
	cmd.Flags().StringVar(&zone, "zone", "", "zone label")
	cmd.Flags().IntVar(&x, "x", 0, "grid x coordinate")
	cmd.Flags().IntVar(&y, "y", 0, "grid y coordinate")
	cmd.MarkFlagRequired("code")
	cmd.MarkFlagRequired("type")
	return cmd
}

func newLocationListCommand() *cobra.Command {
	var locType, zone string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List locations, optionally filtered by type and/or zone",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			var typePtr *model.LocationType
			if locType != "" {
				t := model.LocationType(locType)
				typePtr = &t
			}

			locs, err := c.LocationService.ListLocations(cmd.Context(), typePtr, optionalString(zone))
			if err != nil {
				return err
			}
			if len(locs) == 0 {
				fmt.Println("no locations found")
				return nil
			}
			for _, l := range locs {
				fmt.Printf("code=%-10s type=%-8s zone=%-8s (%d,%d)\n", l.LocationCode, l.Type, l.Zone, l.X, l.Y)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&locType, "type", "", "filter by type")
	cmd.Flags().StringVar(&zone, "zone", "", "filter by zone")
	return cmd
}

func newLocationSetConfigCommand() *cobra.Command {
	var sku, location string
	var minQty, maxQty int

	cmd := &cobra.Command{
		Use:   "set-config",
		Short: "Bind a SKU's replenishment min/max bounds at a pick-face location",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			cfg, err := c.LocationService.SetReplenishmentConfig(cmd.Context(), sku, location, minQty, maxQty)
			if err != nil {
				return err
			}
			fmt.Printf("configured: sku=%s location=%s min=%d max=%d\n", cfg.SKU, cfg.LocationCode, cfg.MinQty, cfg.MaxQty)
			return nil
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.Flags().StringVar(&location, "location", "", "pick-face location code")
	cmd.Flags().IntVar(&minQty, "min", 0, "minimum quantity before replenishment triggers")
	cmd.Flags().IntVar(&maxQty, "max", 0, "target quantity a replenishment fills to")
	cmd.MarkFlagRequired("sku")
	cmd.MarkFlagRequired("location")
	return cmd
}

func newLocationListConfigsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-configs",
		Short: "List every replenishment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			cfgs, err := c.LocationService.ListReplenishmentConfigs(cmd.Context())
			if err != nil {
				return err
			}
			if len(cfgs) == 0 {
				fmt.Println("no configurations found")
				return nil
			}
			for _, cfg := range cfgs {
				fmt.Printf("sku=%-16s location=%-10s min=%-4d max=%d\n", cfg.SKU, cfg.LocationCode, cfg.MinQty, cfg.MaxQty)
			}
			return nil
		},
	}
	return cmd
}
