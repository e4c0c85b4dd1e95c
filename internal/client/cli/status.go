package cli

import (
	"context"
	"fmt"

	"github.com/tradepost/marketsync/internal/client/service"
)

func RunStatus(ctx context.Context, orch *service.Orchestrator) error {
	fmt.Println("=== MarketSync Status ===")
	fmt.Println()

	if orch.IsOnline() {
		fmt.Println("Connectivity: online")
	} else {
		fmt.Println("Connectivity: offline")
	}

	pending, err := orch.PendingOperationCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending operation count: %w", err)
	}

	fmt.Println()
	if pending > 0 {
		fmt.Printf("Pending sync: %d operation(s) waiting to be replayed\n", pending)
		fmt.Println("Run 'marketsync sync' to synchronize with the server.")
	} else {
		fmt.Println("All local changes synchronized with server")
	}

	return nil
}
