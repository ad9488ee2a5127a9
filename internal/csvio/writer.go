package csvio

import (
	"PayLedger/internal/engine"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// WriteBalances emits the final balance report: one row per client that ever
// appeared, in ascending client-id order, decimals rendered to exactly 4
// fractional digits with banker's rounding, locked as a lowercase boolean
// token.
func WriteBalances(w io.Writer, ledger *engine.Ledger) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	ids := ledger.ClientIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		acct := ledger.Get(id)
		row := []string{
			strconv.FormatUint(uint64(id), 10),
			acct.Available.StringFixedBank(4),
			acct.Held.StringFixedBank(4),
			acct.Total().StringFixedBank(4),
			strconv.FormatBool(acct.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record for client %d: %w", id, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
