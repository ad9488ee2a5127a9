package csvio_test

import (
	"bytes"
	"testing"

	"PayLedger/internal/csvio"
	"PayLedger/internal/engine"

	"github.com/shopspring/decimal"
)

func writeReport(t *testing.T, ledger *engine.Ledger) string {
	t.Helper()
	var buf bytes.Buffer
	if err := csvio.WriteBalances(&buf, ledger); err != nil {
		t.Fatalf("write balances: %v", err)
	}
	return buf.String()
}

func TestWriteBalances_Empty(t *testing.T) {
	got := writeReport(t, engine.NewLedger())
	want := "client,available,held,total,locked\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteBalances_FourDecimalPlaces(t *testing.T) {
	ledger := engine.NewLedger()
	acct := ledger.GetOrCreate(1)
	acct.Available = decimal.RequireFromString("1.5")
	acct.Held = decimal.RequireFromString("0.25")

	got := writeReport(t, ledger)
	want := "client,available,held,total,locked\n1,1.5000,0.2500,1.7500,false\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteBalances_BankersRounding(t *testing.T) {
	ledger := engine.NewLedger()
	a := ledger.GetOrCreate(1)
	a.Available = decimal.RequireFromString("1.00005")
	b := ledger.GetOrCreate(2)
	b.Available = decimal.RequireFromString("1.00015")

	got := writeReport(t, ledger)
	want := "client,available,held,total,locked\n" +
		"1,1.0000,0.0000,1.0000,false\n" +
		"2,1.0002,0.0000,1.0002,false\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteBalances_SortedByClientID(t *testing.T) {
	ledger := engine.NewLedger()
	for _, id := range []uint16{300, 5, 65535, 1} {
		acct := ledger.GetOrCreate(id)
		acct.Available = decimal.NewFromInt(int64(id))
	}

	got := writeReport(t, ledger)
	want := "client,available,held,total,locked\n" +
		"1,1.0000,0.0000,1.0000,false\n" +
		"5,5.0000,0.0000,5.0000,false\n" +
		"300,300.0000,0.0000,300.0000,false\n" +
		"65535,65535.0000,0.0000,65535.0000,false\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteBalances_NegativeAvailableAndLocked(t *testing.T) {
	ledger := engine.NewLedger()
	acct := ledger.GetOrCreate(9)
	acct.Available = decimal.RequireFromString("-4")
	acct.Held = decimal.RequireFromString("5")
	acct.Locked = true

	got := writeReport(t, ledger)
	want := "client,available,held,total,locked\n9,-4.0000,5.0000,1.0000,true\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
