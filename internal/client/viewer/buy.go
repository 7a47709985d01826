package viewer

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyvault/noteguard/internal/client/models"
	"github.com/studyvault/noteguard/internal/common"
)

// buyPlan creates a payment order, persists the resume record before the
// redirect, then polls until the provider resolves the order.
func (a *App) buyPlan(ctx context.Context, planID, couponCode string) {

	intent, err := a.api.CreateOrder(ctx, planID, couponCode)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Println("Plan not found.")
			return
		}
		fmt.Printf("Could not create order: %v\n", err)
		return
	}

	if err := a.poller.Begin(ctx, intent, "/notes"); err != nil {
		fmt.Printf("Could not persist checkout state: %v\n", err)
		return
	}

	fmt.Printf("Order %s created (%d -> %d paise)\n",
		intent.MerchantTxID, intent.AmountPaise, intent.FinalAmountPaise)
	fmt.Printf("Complete the payment at: %s\n", intent.RedirectURL)
	fmt.Println("Waiting for confirmation...")

	a.awaitOrder(ctx, intent.MerchantTxID)
}

// resumePending picks up a checkout the previous run left unresolved.
func (a *App) resumePending(ctx context.Context) {

	pending, err := a.poller.Resume(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			fmt.Printf("Could not read checkout state: %v\n", err)
		}
		return
	}

	fmt.Printf("Found unfinished checkout %s, checking status...\n", pending.MerchantTxID)
	a.awaitOrder(ctx, pending.MerchantTxID)
}

func (a *App) awaitOrder(ctx context.Context, merchantTxID string) {

	order, err := a.poller.WaitForResolution(ctx, merchantTxID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrOrderStillPending):
			fmt.Println("Payment is still processing. It will be checked again on next start.")
		case errors.Is(err, common.ErrOrderNotFound):
			fmt.Println("Order not found on the server.")
		default:
			fmt.Printf("Could not resolve order: %v\n", err)
		}
		return
	}

	printOrderOutcome(order)
}

func (a *App) showOrderStatus(ctx context.Context, merchantTxID string) {
	order, err := a.api.GetOrderStatus(ctx, merchantTxID)
	if err != nil {
		if errors.Is(err, common.ErrOrderNotFound) {
			fmt.Println("Order not found.")
			return
		}
		fmt.Printf("Could not fetch order: %v\n", err)
		return
	}
	fmt.Printf("Order %s: %s\n", order.MerchantTxID, order.Status)
}

func printOrderOutcome(order *models.Order) {
	switch order.Status {
	case "SUCCESS":
		fmt.Println("Payment confirmed. Premium notes are now available.")
	case "REFUNDED":
		fmt.Println("This order was refunded.")
	default:
		fmt.Printf("Payment did not complete (status %s).\n", order.Status)
	}
}
