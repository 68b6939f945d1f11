package main

import (
	"fmt"
	"mome/internal/marketplace"
	"mome/internal/transaction"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
)

// printError shows the friendly message and, for transactions that reached the
// chain, the hash so the user can look it up.
func printError(err error) {
	if err == nil {
		return
	}

	// only submission errors have a friendly form
	if transaction.StageOf(err) == "" {
		fmt.Fprintf(os.Stderr, "%s %v\n", failure("Error:"), err)
		return
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", failure("Error:"), transaction.FriendlyMessage(err))
	if verbose {
		fmt.Fprintf(os.Stderr, "  %v\n", err)
	}

	var txErr *transaction.Error
	if errors.As(err, &txErr) && txErr.Hash != "" && cfg != nil {
		fmt.Fprintf(os.Stderr, "  transaction: %s\n", txErr.Hash)
		if link := cfg.ExplorerTransactionURL(txErr.Hash); link != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", link)
		}
	}
}

func printResult(action string, result *marketplace.Result) {
	fmt.Printf("%s %s\n", success("✓"), action)
	fmt.Printf("  transaction: %s\n", result.Hash)
	if link := cfg.ExplorerTransactionURL(result.Hash); link != "" {
		fmt.Printf("  %s\n", link)
	}
}

func printField(name string, value any) {
	fmt.Printf("%-15s %v\n", name+":", value)
}
