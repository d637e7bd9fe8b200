package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

var header = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts writes one CSV row per account, in the order given,
// with every amount rendered to four decimal places.
func WriteAccounts(w io.Writer, accounts []models.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, acc := range accounts {
		row := []string{
			strconv.FormatUint(uint64(acc.ClientID), 10),
			acc.Available.String(),
			acc.Held.String(),
			acc.Total.String(),
			strconv.FormatBool(acc.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write client %d: %w", acc.ClientID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
