package cli

import (
	"context"
	"io"
	"os"

	"github.com/gabapcia/blockscan/internal/walletquery"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the blockscan CLI application.
//
// It registers all available commands, including:
//
//   - `scan`: Lists the transactions of an address over a block range.
//   - `balance`: Prints the balance of an address at the start of a calendar day.
//
// Results are written to stdout. Cancelling ctx stops a running scan; the
// transactions found so far are still printed.
func Run(ctx context.Context, svc walletquery.Service) error {
	return newApp(svc, os.Stdout).Run(ctx, os.Args)
}

func newApp(svc walletquery.Service, out io.Writer) *cli.Command {
	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "blockscan",
		Description:           "Query the transaction history and past balances of a wallet on an Ethereum-compatible chain.",
		Usage:                 "blockscan [command] [flags]",
		Writer:                out,
		Commands: []*cli.Command{
			scanCommand(svc, out),
			balanceCommand(svc, out),
		},
	}
}
