package cli

import (
	"fmt"

	"github.com/tradepost/marketsync/internal/models"
)

func PrintUsage() {
	fmt.Println("MarketSync Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  marketsync [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version        Show version information")
	fmt.Println("  --config PATH    Path to TOML config file (default: marketsync.toml)")
	fmt.Println("  --server URL     Server URL (overrides config)")
	fmt.Println("  --db PATH        Path to local database (overrides config)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status                        Show connectivity and pending sync status")
	fmt.Println("  sync                          Replay queued offline mutations")
	fmt.Println("  slot list <listing-id>        List appointment slots for a listing")
	fmt.Println("  slot get <id>                 Show one slot")
	fmt.Println("  slot reserve <id>             Reserve an available slot")
	fmt.Println("  slot release <id>             Release a reserved slot")
	fmt.Println("  product add <title> <cents>   Create a product listing")
	fmt.Println("  product list [category]       List products")
	fmt.Println("  product get <id>              Show one product")
	fmt.Println("  product delete <id>           Delete a product")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  marketsync status")
	fmt.Println("  marketsync slot list listing-42")
	fmt.Println("  marketsync slot reserve b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5")
	fmt.Println("  marketsync --server https://example.com sync")
}

// responseErr converts a failed service response into a plain error for
// the command layer. Successful responses return nil.
func responseErr[T any](resp *models.Response[T]) error {
	if resp.Success {
		return nil
	}
	if resp.Err != nil {
		return fmt.Errorf("%s: %s", resp.Err.Kind, resp.Err.Message)
	}
	return fmt.Errorf("request failed")
}

// pendingNote prints the offline-write marker after a queued mutation.
func pendingNote[T any](resp *models.Response[T]) {
	if resp.PendingSync {
		fmt.Println()
		fmt.Println("Saved locally; will sync when the server is reachable.")
	}
}
