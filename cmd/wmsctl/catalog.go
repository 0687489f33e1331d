package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"wms-core/internal/domains/catalog/model"
)

// newCatalogCommand groups the Item catalog's operation surface.
func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Item catalog: create, inspect, delete items",
	}
	cmd.AddCommand(
		newCatalogCreateCommand(),
		newCatalogGetCommand(),
		newCatalogDeleteCommand(),
	)
	return cmd
}

func newCatalogCreateCommand() *cobra.Command {
	var sku, name, attrsJSON string
	var serialized bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs := model.Attributes{}
			if attrsJSON != "" {
				if err := json.Unmarshal([]byte(attrsJSON), &attrs); err != nil {
					return fmt.Errorf("invalid --attrs JSON: %w", err)
				}
			}

			req := model.CreateItemRequest{SKU: sku, Name: name, Attributes: attrs, Serialized: serialized}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("invalid request: %w", err)
			}

			c := mustContainer()
			defer c.Cleanup()

			item, err := c.CatalogService.CreateItem(cmd.Context(), req.SKU, req.Name, req.Attributes, req.Serialized)
			if err != nil {
				return err
			}
			fmt.Printf("created: sku=%s name=%s serialized=%t\n", item.SKU, item.Name, item.IsSerialized)
			return nil
		},
	}

	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&attrsJSON, "attrs", "", "attributes as a JSON object")
	cmd.Flags().BoolVar(&serialized, "serialized", false, "whether units of this item carry serial numbers")
	cmd.MarkFlagRequired("sku")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newCatalogGetCommand() *cobra.Command {
	var sku string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Look up an item by SKU",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			item, err := c.CatalogService.GetItem(cmd.Context(), sku)
			if err != nil {
				return err
			}
			fmt.Printf("sku=%s name=%s serialized=%t abc_class=%s\n", item.SKU, item.Name, item.IsSerialized, item.ABCClass)
			return nil
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.MarkFlagRequired("sku")
	return cmd
}

func newCatalogDeleteCommand() *cobra.Command {
	var sku string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := mustContainer()
			defer c.Cleanup()

			if err := c.CatalogService.DeleteItem(cmd.Context(), sku); err != nil {
				return err
			}
			fmt.Printf("deleted: sku=%s\n", sku)
			return nil
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "item SKU")
	cmd.MarkFlagRequired("sku")
	return cmd
}
