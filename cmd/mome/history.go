package main

import (
	"context"
	"fmt"
	"mome/internal/storage"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var historyActions = map[string]storage.ActionType{
	"create": storage.CreateRaffleActionType,
	"buy":    storage.BuyTicketsActionType,
	"claim":  storage.ClaimPrizeActionType,
	"cancel": storage.CancelRaffleActionType,
	"settle": storage.SettleRaffleActionType,
	"send":   storage.SendActionType,
}

func parseHistoryAction(value string) (storage.ActionType, error) {
	actionType, ok := historyActions[strings.ToLower(value)]
	if !ok {
		names := make([]string, 0, len(historyActions))
		for name := range historyActions {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", errors.Errorf("unknown action %q, expected one of %s", value, strings.Join(names, ", "))
	}
	return actionType, nil
}

func NewHistoryCmd() *cobra.Command {
	var limit int
	var action string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the transactions sent from this client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var actionType storage.ActionType
			if action != "" {
				var err error
				if actionType, err = parseHistoryAction(action); err != nil {
					return err
				}
			}

			return withApp(cmd, func(_ context.Context, env *app) error {
				if err := env.requireSender(); err != nil {
					return err
				}

				records, err := history(env, actionType, limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Println("No transactions yet.")
					return nil
				}
				for _, record := range records {
					printRecord(record)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of transactions to show (0 for all)")
	cmd.Flags().StringVar(&action, "action", "", "only show one action: create, buy, claim, cancel, settle or send")
	return cmd
}

func history(env *app, actionType storage.ActionType, limit int) ([]*storage.TransactionRecord, error) {
	if actionType == "" {
		return env.service.History(limit)
	}

	records, err := env.service.HistoryByAction(actionType)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func printRecord(record *storage.TransactionRecord) {
	status := record.Status
	switch record.Status {
	case storage.StatusCommitted:
		status = success(status)
	case storage.StatusPending:
		status = warning(status)
	case storage.StatusFailed:
		status = failure(status + " at " + record.Stage)
	}

	fmt.Printf("%s  %-10s %s\n", record.CreatedAt.Local().Format(time.DateTime), status, record.Function)
	if record.Hash != "" {
		fmt.Printf("  %s\n", record.Hash)
	}
	if record.VMStatus != "" {
		fmt.Printf("  %s\n", record.VMStatus)
	}
}
