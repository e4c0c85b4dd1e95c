package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tradepost/marketsync/internal/client/market"
	"github.com/tradepost/marketsync/internal/models"
)

func RunProduct(ctx context.Context, args []string, products *market.ProductService) error {
	if len(args) == 0 {
		return fmt.Errorf("missing product subcommand. Usage: marketsync product <add|list|get|delete>")
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			return fmt.Errorf("usage: marketsync product add <title> <price-cents> [category]")
		}
		return runProductAdd(ctx, products, args[1:])
	case "list":
		category := ""
		if len(args) > 1 {
			category = args[1]
		}
		return runProductList(ctx, products, category)
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("missing product id. Usage: marketsync product get <id>")
		}
		return runProductGet(ctx, products, args[1])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("missing product id. Usage: marketsync product delete <id>")
		}
		return runProductDelete(ctx, products, args[1])
	default:
		return fmt.Errorf("unknown product subcommand: %s. Use: add, list, get, or delete", args[0])
	}
}

func runProductAdd(ctx context.Context, products *market.ProductService, args []string) error {
	priceCents, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || priceCents < 0 {
		return fmt.Errorf("invalid price %q: expected a non-negative amount in cents", args[1])
	}

	product := &models.Product{
		Title:      args[0],
		PriceCents: priceCents,
		Currency:   "USD",
	}
	if len(args) > 2 {
		product.Category = args[2]
	}

	resp := products.Create(ctx, product)
	if err := responseErr(resp); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	fmt.Printf("Created product %s\n", resp.Data.ID)
	printProduct(resp.Data)
	pendingNote(resp)
	return nil
}

func runProductList(ctx context.Context, products *market.ProductService, category string) error {
	resp := products.List(ctx, category)
	if err := responseErr(resp); err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	if len(resp.Data) == 0 {
		fmt.Println("No products found.")
		fmt.Println()
		fmt.Println("Use 'marketsync product add' to create your first listing.")
		return nil
	}

	fmt.Printf("Found %d product(s):\n", len(resp.Data))
	fmt.Println()
	for i, product := range resp.Data {
		fmt.Printf("%d. %s\n", i+1, product.Title)
		fmt.Printf("   ID:    %s\n", product.ID)
		fmt.Printf("   Price: %s\n", formatPrice(product.PriceCents, product.Currency))
		if product.Category != "" {
			fmt.Printf("   Category: %s\n", product.Category)
		}
		fmt.Println()
	}
	return nil
}

func runProductGet(ctx context.Context, products *market.ProductService, id string) error {
	resp := products.Get(ctx, id)
	if err := responseErr(resp); err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}

	printProduct(resp.Data)
	return nil
}

func runProductDelete(ctx context.Context, products *market.ProductService, id string) error {
	resp := products.Delete(ctx, id)
	if err := responseErr(resp); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	fmt.Printf("Deleted product %s\n", id)
	pendingNote(resp)
	return nil
}

func printProduct(product *models.Product) {
	fmt.Printf("Product: %s\n", product.Title)
	fmt.Printf("ID:      %s\n", product.ID)
	fmt.Printf("Price:   %s\n", formatPrice(product.PriceCents, product.Currency))
	if product.Category != "" {
		fmt.Printf("Category: %s\n", product.Category)
	}
	if product.Description != "" {
		fmt.Printf("Description: %s\n", product.Description)
	}
}
