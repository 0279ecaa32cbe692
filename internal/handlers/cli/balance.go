package cli

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/gabapcia/blockscan/internal/blocktime"
	"github.com/gabapcia/blockscan/internal/walletquery"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

type balanceView struct {
	Address        string               `json:"address"`
	Date           string               `json:"date"`
	Block          uint64               `json:"block"`
	BlockTimestamp *time.Time           `json:"blockTimestamp,omitempty"`
	Wei            string               `json:"wei"`
	Amount         decimal.Decimal      `json:"amount"`
	Confidence     blocktime.Confidence `json:"confidence"`
}

func writeBalance(out io.Writer, date time.Time, b walletquery.Balance) error {
	view := balanceView{
		Address:    b.Address,
		Date:       date.Format(walletquery.DateLayout),
		Block:      b.Block,
		Wei:        "0",
		Amount:     b.Amount,
		Confidence: b.Confidence,
	}
	if b.Wei != nil {
		view.Wei = b.Wei.String()
	}
	if !b.BlockTimestamp.IsZero() {
		view.BlockTimestamp = &b.BlockTimestamp
	}

	return json.NewEncoder(out).Encode(view)
}

// balanceCommand returns a CLI command that prints the balance an address held
// at 00:00 UTC of a calendar day.
//
// Usage example:
//
//	blockscan balance --address 0xABC123... --date 2024-03-01
func balanceCommand(svc walletquery.Service, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "balance",
		Description: "Print the balance of an address at the last block produced before 00:00 UTC of a date.",
		Usage:       "Prints a past wallet balance. Must provide both address and date.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Wallet address",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "date",
				Usage:    "Calendar date formatted as YYYY-MM-DD",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			date, err := walletquery.ParseDate(c.String("date"))
			if err != nil {
				return err
			}

			b, err := svc.BalanceAtDate(ctx, c.String("address"), date)
			if err != nil {
				return err
			}

			return writeBalance(out, date, b)
		},
	}
}
