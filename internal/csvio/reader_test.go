package csvio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"PayLedger/internal/csvio"
	"PayLedger/internal/operation"

	"github.com/shopspring/decimal"
)

func readAll(t *testing.T, input string) []operation.Record {
	t.Helper()
	r := csvio.NewReader(strings.NewReader(input))
	var recs []operation.Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return recs
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		recs = append(recs, rec)
	}
}

func TestReader_Deposit(t *testing.T) {
	recs := readAll(t, "type,client,tx,amount\ndeposit,1,100,1.2345\n")
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Kind != operation.KindDeposit || rec.Client != 1 || rec.Tx != 100 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !rec.Amount.Valid || !rec.Amount.Decimal.Equal(decimal.RequireFromString("1.2345")) {
		t.Errorf("unexpected amount: %+v", rec.Amount)
	}
}

func TestReader_CaseInsensitiveKinds(t *testing.T) {
	recs := readAll(t, "type,client,tx,amount\nDeposit,1,1,1.0\nWITHDRAWAL,1,2,0.5\n")
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Kind != operation.KindDeposit || recs[1].Kind != operation.KindWithdrawal {
		t.Errorf("unexpected kinds: %v, %v", recs[0].Kind, recs[1].Kind)
	}
}

func TestReader_MissingAmount(t *testing.T) {
	// Three-field rows and rows with an empty fourth field both mean "no
	// amount".
	recs := readAll(t, "type,client,tx,amount\ndispute,1,1\nresolve,1,1,\n")
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	for i, rec := range recs {
		if rec.Amount.Valid {
			t.Errorf("record %d: amount should be absent, got %+v", i, rec.Amount)
		}
	}
}

func TestReader_WhitespaceTrimmed(t *testing.T) {
	recs := readAll(t, "type,client,tx,amount\ndeposit, 7, 9, 3.0\n")
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Client != 7 || rec.Tx != 9 || !rec.Amount.Decimal.Equal(decimal.RequireFromString("3.0")) {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r := csvio.NewReader(strings.NewReader(""))
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestReader_HeaderOnly(t *testing.T) {
	r := csvio.NewReader(strings.NewReader("type,client,tx,amount\n"))
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestReader_MalformedRecords(t *testing.T) {
	cases := map[string]string{
		"unknown kind":       "type,client,tx,amount\ntransfer,1,1,1.0\n",
		"non-numeric client": "type,client,tx,amount\ndeposit,abc,1,1.0\n",
		"client out of range": "type,client,tx,amount\ndeposit,70000,1,1.0\n",
		"non-numeric tx":     "type,client,tx,amount\ndeposit,1,xyz,1.0\n",
		"tx out of range":    "type,client,tx,amount\ndeposit,1,4294967296,1.0\n",
		"bad amount":         "type,client,tx,amount\ndeposit,1,1,not-a-number\n",
		"too few fields":     "type,client,tx,amount\ndeposit,1\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			r := csvio.NewReader(strings.NewReader(input))
			_, err := r.Next()
			if err == nil || errors.Is(err, io.EOF) {
				t.Fatalf("want parse error, got %v", err)
			}
		})
	}
}
