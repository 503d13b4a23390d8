package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/mirola777/payhook/internal/application"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func reconcileCmd() *cobra.Command {
	var renotify bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "List settled payments the Order service has not confirmed",
		Long: `List succeeded payments whose status notification was never confirmed by
the Order service. With --renotify each one is sent again under its original
idempotency key, and the command waits for the deliveries to finish.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			container, err := application.NewContainer(rt.db, rt.cfg, rt.log)
			if err != nil {
				return fmt.Errorf("build container: %w", err)
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.GracefulTimeout)
				defer cancel()
				_ = container.Shutdown(ctx)
			}()

			return reconcile(cmd, container, renotify, rt.log)
		},
	}

	cmd.Flags().BoolVar(&renotify, "renotify", false, "re-send every unconfirmed settlement notification")
	return cmd
}

func reconcile(cmd *cobra.Command, container *application.Container, renotify bool, log *zap.Logger) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	payments, err := container.Payments.ListUnconfirmedSettlements(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(payments) == 0 {
		fmt.Fprintln(out, "no unconfirmed settlements")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAYMENT\tORDER\tSTATE\tEPOCH\tLAST ERROR")
	for _, p := range payments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.OrderID, p.NotificationState, p.NotificationEpoch, p.NotificationError)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !renotify {
		return nil
	}

	var failed int
	for _, p := range payments {
		if _, err := container.Payments.RenotifySettlement(ctx, p.ID); err != nil {
			log.Warn("renotify failed", zap.String("payment_id", p.ID), zap.Error(err))
			failed++
		}
	}
	if err := container.Dispatcher.Flush(ctx); err != nil {
		return fmt.Errorf("wait for deliveries: %w", err)
	}

	remaining, err := container.Payments.ListUnconfirmedSettlements(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "renotified %d, still unconfirmed %d\n", len(payments)-failed, len(remaining))
	return nil
}
