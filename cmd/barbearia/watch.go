package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rfmelo/barbearia-client/internal/notify"
	"github.com/rfmelo/barbearia-client/internal/ui"
)

var watchForce bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the server for notifications until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := currentSession()
		if !watchForce {
			// Same policy as the web pages: only authenticated clients and
			// barbers poll, and only after a short grace delay.
			if sess == nil || !sess.ShouldAutoStart(time.Now()) {
				return fmt.Errorf("no active cliente/barbeiro session; log in first or pass --force")
			}
			time.Sleep(cfg.Notify.GraceDelay)
		}

		role := ""
		if sess != nil {
			role = sess.Role
		}

		client := newAPIClient()
		toasts := ui.NewToastStack(ui.WithTTL(cfg.Notify.ToastTTL))
		term := ui.NewTerminal(os.Stdout, role, toasts)

		poller := notify.New(client.Notifications, term,
			notify.WithInterval(cfg.Notify.Interval),
			notify.WithSoundCooldown(cfg.Notify.SoundCooldown),
			notify.WithLogger(logger),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		poller.Start(ctx)
		<-ctx.Done()
		poller.Stop()
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read <notification-id>|all",
	Short: "Mark a notification (or all of them) as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()

		if args[0] == "all" {
			return client.Notifications.MarkAllRead(cmd.Context())
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid notification id %q", args[0])
		}
		return client.Notifications.MarkRead(cmd.Context(), id)
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchForce, "force", false, "start polling even without a stored session role")
	rootCmd.AddCommand(watchCmd, readCmd)
}
