package cli

import (
	"context"
	"fmt"

	"github.com/tradepost/marketsync/internal/client/market"
	"github.com/tradepost/marketsync/internal/models"
)

func RunSlot(ctx context.Context, args []string, slots *market.SlotService) error {
	if len(args) == 0 {
		return fmt.Errorf("missing slot subcommand. Usage: marketsync slot <list|get|reserve|release>")
	}

	switch args[0] {
	case "list":
		if len(args) < 2 {
			return fmt.Errorf("missing listing id. Usage: marketsync slot list <listing-id>")
		}
		return runSlotList(ctx, slots, args[1])
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("missing slot id. Usage: marketsync slot get <id>")
		}
		return runSlotGet(ctx, slots, args[1])
	case "reserve":
		if len(args) < 2 {
			return fmt.Errorf("missing slot id. Usage: marketsync slot reserve <id>")
		}
		return runSlotTransition(ctx, slots, args[1], true)
	case "release":
		if len(args) < 2 {
			return fmt.Errorf("missing slot id. Usage: marketsync slot release <id>")
		}
		return runSlotTransition(ctx, slots, args[1], false)
	default:
		return fmt.Errorf("unknown slot subcommand: %s. Use: list, get, reserve, or release", args[0])
	}
}

func runSlotList(ctx context.Context, slots *market.SlotService, listingID string) error {
	resp := slots.List(ctx, listingID)
	if err := responseErr(resp); err != nil {
		return fmt.Errorf("failed to list slots: %w", err)
	}

	if len(resp.Data) == 0 {
		fmt.Printf("No slots found for listing %s.\n", listingID)
		return nil
	}

	fmt.Printf("Found %d slot(s) for listing %s:\n", len(resp.Data), listingID)
	fmt.Println()
	for i, slot := range resp.Data {
		fmt.Printf("%d. %s\n", i+1, slot.ID)
		fmt.Printf("   Status: %s\n", slot.Status)
		fmt.Printf("   Price:  %s\n", formatPrice(slot.PriceCents, slot.Currency))
		fmt.Println()
	}
	return nil
}

func runSlotGet(ctx context.Context, slots *market.SlotService, id string) error {
	resp := slots.Get(ctx, id)
	if err := responseErr(resp); err != nil {
		return fmt.Errorf("failed to get slot: %w", err)
	}

	printSlot(resp.Data)
	return nil
}

func runSlotTransition(ctx context.Context, slots *market.SlotService, id string, reserve bool) error {
	var resp *models.Response[*models.Slot]
	if reserve {
		resp = slots.Reserve(ctx, id)
	} else {
		resp = slots.Release(ctx, id)
	}
	if err := responseErr(resp); err != nil {
		return fmt.Errorf("failed to update slot: %w", err)
	}

	printSlot(resp.Data)
	pendingNote(resp)
	return nil
}

func printSlot(slot *models.Slot) {
	fmt.Printf("Slot:    %s\n", slot.ID)
	fmt.Printf("Listing: %s\n", slot.ListingID)
	fmt.Printf("Status:  %s\n", slot.Status)
	fmt.Printf("Price:   %s\n", formatPrice(slot.PriceCents, slot.Currency))
}

func formatPrice(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}
