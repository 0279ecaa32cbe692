package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gabapcia/blockscan/internal/txscan"
	"github.com/gabapcia/blockscan/internal/walletquery"

	"github.com/urfave/cli/v3"
)

// scanSummary is the last line printed by the scan command.
type scanSummary struct {
	Status        txscan.Status `json:"status"`
	Matched       int           `json:"matched"`
	ScannedBlocks int           `json:"scannedBlocks"`
	SkippedBlocks []uint64      `json:"skippedBlocks,omitempty"`
	NextBlock     uint64        `json:"nextBlock"`
}

func writeScanResult(out io.Writer, result txscan.Result) error {
	enc := json.NewEncoder(out)
	for _, tx := range result.Transactions {
		if err := enc.Encode(tx); err != nil {
			return err
		}
	}

	summary := scanSummary{
		Status:        result.Status,
		Matched:       len(result.Transactions),
		ScannedBlocks: result.ScannedBlocks,
		NextBlock:     result.NextBlock,
	}
	for _, skipped := range result.SkippedBlocks {
		summary.SkippedBlocks = append(summary.SkippedBlocks, skipped.Number)
	}

	return enc.Encode(summary)
}

// scanCommand returns a CLI command that lists every transaction sent or received
// by an address, one JSON object per line, followed by a summary line.
//
// Usage example:
//
//	blockscan scan --address 0xABC123... --from 19000000 --to 19000100
func scanCommand(svc walletquery.Service, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "scan",
		Description: "Scan a block range for transactions sent or received by an address.",
		Usage:       "Lists wallet transactions. Defaults to the last 10000 blocks.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Wallet address to look for",
				Required: true,
			},
			&cli.Uint64Flag{
				Name:  "from",
				Usage: "First block of the range (default: 10000 blocks before --to)",
			},
			&cli.Uint64Flag{
				Name:  "to",
				Usage: "Last block of the range (default: current height)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			req := walletquery.ScanRequest{Address: c.String("address")}
			if c.IsSet("from") {
				from := c.Uint64("from")
				req.StartBlock = &from
			}
			if c.IsSet("to") {
				to := c.Uint64("to")
				req.EndBlock = &to
			}

			result, err := svc.ScanTransactions(ctx, req)
			if err != nil {
				return err
			}

			return writeScanResult(out, result)
		},
	}
}
