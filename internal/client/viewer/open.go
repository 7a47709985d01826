package viewer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/studyvault/noteguard/internal/client/heartbeat"
	"github.com/studyvault/noteguard/internal/common"
)

// openNote runs one viewing instance end to end: mint a session, fetch the
// watermark, start the heartbeat, then read page turns from the user until
// the note is closed. Closing always flushes the final progress report.
func (a *App) openNote(ctx context.Context, noteID string) {

	issued, err := a.api.IssueSession(ctx, noteID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPaymentRequired):
			fmt.Println("This note is premium. Use 'buy <planId>' to purchase a plan.")
		case errors.Is(err, common.ErrAccountBlocked):
			fmt.Println("Access denied: your account is blocked.")
		case errors.Is(err, common.ErrNotFound):
			fmt.Println("Note not found.")
		default:
			fmt.Printf("Could not open note: %v\n", err)
		}
		return
	}

	wm, err := a.api.GetWatermark(ctx)
	if err != nil {
		fmt.Printf("Could not fetch watermark: %v\n", err)
		return
	}

	fmt.Printf("Session %s (expires %s)\n", issued.SessionID, issued.ExpiresAt.Format("15:04:05"))
	if issued.ContentURL != "" {
		fmt.Printf("Content: %s\n", issued.ContentURL)
	}
	fmt.Printf("Watermark: %s | %s | %s | %s\n",
		wm.Payload.DisplayName, wm.Payload.MaskedEmail, wm.Payload.MaskedPhone, wm.Payload.UserHash)

	// Resume from where the reader left off last time, if anywhere.
	startPage := 1
	if lastPage, _, err := a.api.GetProgress(ctx, noteID); err == nil && lastPage > 0 {
		startPage = lastPage
		fmt.Printf("Resuming at page %d\n", startPage)
	}

	tracker := heartbeat.NewTracker(a.api, issued.TotalPages, a.config.HeartbeatInterval, a.logger)
	tracker.SetPage(startPage)
	tracker.Start(ctx)
	defer tracker.Stop()

	fmt.Printf("Viewing %d pages. Enter a page number, or 'close' to finish.\n", issued.TotalPages)

	for {
		fmt.Printf("page %s> ", noteID)
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		input := strings.TrimSpace(line)

		if input == "close" || input == "exit" {
			return
		}

		page, err := strconv.Atoi(input)
		if err != nil || page < 1 {
			fmt.Println("Enter a page number, or 'close'.")
			continue
		}
		tracker.SetPage(page)
	}
}

func (a *App) showProgress(ctx context.Context, noteID string) {
	lastPage, percent, err := a.api.GetProgress(ctx, noteID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Println("No progress recorded yet.")
			return
		}
		fmt.Printf("Could not fetch progress: %v\n", err)
		return
	}
	fmt.Printf("Last page: %d (%d%%)\n", lastPage, percent)
}
