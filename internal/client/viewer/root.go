package viewer

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) Root(ctx context.Context) {

	log.Println("NoteGuard viewer (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("ngv> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: open <noteId>, buy <planId> [coupon], status <merchantTxId>, progress <noteId>, exit")

		case "open":
			if len(args) < 1 {
				fmt.Println("usage: open <noteId>")
				continue
			}
			a.openNote(ctx, args[0])

		case "buy":
			if len(args) < 1 {
				fmt.Println("usage: buy <planId> [coupon]")
				continue
			}
			coupon := ""
			if len(args) > 1 {
				coupon = args[1]
			}
			a.buyPlan(ctx, args[0], coupon)

		case "status":
			if len(args) < 1 {
				fmt.Println("usage: status <merchantTxId>")
				continue
			}
			a.showOrderStatus(ctx, args[0])

		case "progress":
			if len(args) < 1 {
				fmt.Println("usage: progress <noteId>")
				continue
			}
			a.showProgress(ctx, args[0])

		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}
	}
}
