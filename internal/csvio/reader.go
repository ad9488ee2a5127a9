package csvio

import (
	"PayLedger/internal/operation"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Reader streams operation records from a delimited text source. A malformed
// record — unknown kind, non-numeric id, unparseable amount — is a hard
// error that aborts the whole run; this is the only fatal path in the
// system. Business-rule rejections happen later, in the engine, and are
// silent by design.
type Reader struct {
	csv           *csv.Reader
	headerSkipped bool
}

// NewReader wraps r. Rows may carry three or four fields: the amount column
// is absent for dispute/resolve/chargeback.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr}
}

// Next returns the next operation record, or io.EOF at end of stream.
func (r *Reader) Next() (operation.Record, error) {
	if !r.headerSkipped {
		if _, err := r.csv.Read(); err != nil {
			if err == io.EOF {
				return operation.Record{}, io.EOF
			}
			return operation.Record{}, fmt.Errorf("read header: %w", err)
		}
		r.headerSkipped = true
	}

	row, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return operation.Record{}, io.EOF
		}
		return operation.Record{}, fmt.Errorf("read record: %w", err)
	}

	return parseRow(row)
}

func parseRow(row []string) (operation.Record, error) {
	if len(row) < 3 {
		return operation.Record{}, fmt.Errorf("record has %d fields, want at least 3", len(row))
	}

	kind, err := operation.ParseKind(strings.TrimSpace(row[0]))
	if err != nil {
		return operation.Record{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil {
		return operation.Record{}, fmt.Errorf("parse client id %q: %w", row[1], err)
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return operation.Record{}, fmt.Errorf("parse tx id %q: %w", row[2], err)
	}

	rec := operation.Record{
		Kind:   kind,
		Client: uint16(client),
		Tx:     uint32(tx),
	}

	// An empty amount field is the same as an absent one — the engine treats
	// missing amounts as a precondition failure, not the parser.
	if len(row) > 3 {
		if s := strings.TrimSpace(row[3]); s != "" {
			amt, err := decimal.NewFromString(s)
			if err != nil {
				return operation.Record{}, fmt.Errorf("parse amount %q: %w", row[3], err)
			}
			rec.Amount = decimal.NullDecimal{Decimal: amt, Valid: true}
		}
	}

	return rec, nil
}
