package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/tradepost/marketsync/internal/client/service"
	syncengine "github.com/tradepost/marketsync/internal/client/sync"
)

func RunSync(ctx context.Context, orch *service.Orchestrator) error {
	fmt.Println("=== Synchronizing with server ===")
	fmt.Println()

	result, err := orch.Sync(ctx)
	if err != nil {
		if errors.Is(err, syncengine.ErrOffline) {
			return fmt.Errorf("server is unreachable; queued operations are kept locally")
		}
		if errors.Is(err, syncengine.ErrDrainInProgress) {
			return fmt.Errorf("a sync is already running")
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("Applied:   %d operation(s)\n", result.Applied)
	if result.Failed > 0 {
		fmt.Printf("Failed:    %d operation(s) (kept in queue)\n", result.Failed)
	}
	fmt.Printf("Remaining: %d operation(s)\n", result.Remaining)

	if result.Remaining == 0 {
		fmt.Println()
		fmt.Println("All local changes synchronized with server")
	}

	return nil
}
