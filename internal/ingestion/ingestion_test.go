package ingestion

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/fxpulse/internal/domain/models"
	"github.com/guttosm/fxpulse/internal/fetcher"
	"github.com/guttosm/fxpulse/internal/storage"
	"github.com/guttosm/fxpulse/internal/trend"
)

type fakeFetcher struct {
	quotes map[string]models.Quote
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(context.Context) (map[string]models.Quote, error) {
	f.calls++
	return f.quotes, f.err
}

// memStore is an in-memory TableStore.
type memStore struct {
	records []models.Record
	saved   bool
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) ([]models.Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.saved {
		return nil, storage.ErrNotFound
	}
	return append([]models.Record(nil), m.records...), nil
}

func (m *memStore) Save(_ context.Context, records []models.Record) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append([]models.Record(nil), records...)
	m.saved = true
	return nil
}

func (m *memStore) Ping(context.Context) error { return m.loadErr }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

var captureTime = time.Date(2026, 10, 19, 14, 30, 5, 0, time.UTC)

func fourQuotes() map[string]models.Quote {
	return map[string]models.Quote{
		"USDBRL": {Symbol: "USDBRL", Name: "Dólar Americano/Real Brasileiro", Bid: "5.10", PctChange: "0.10"},
		"EURBRL": {Symbol: "EURBRL", Name: "Euro/Real Brasileiro", Bid: "5.9231", PctChange: "-0.2"},
		"GBPBRL": {Symbol: "GBPBRL", Name: "Libra Esterlina/Real Brasileiro", Bid: "6.85", PctChange: "0.01"},
		"JPYBRL": {Symbol: "JPYBRL", Name: "Iene Japonês/Real Brasileiro", Bid: "0.0357", PctChange: "-0.06"},
	}
}

func newPipeline(t *testing.T, f QuoteFetcher, s storage.TableStore, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock(captureTime))}, opts...)
	p, err := New(f, s, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestRun_DollarRealIsUp(t *testing.T) {
	f := &fakeFetcher{quotes: map[string]models.Quote{
		"USDBRL": {Symbol: "USDBRL", Name: "Dólar Americano/Real Brasileiro", Bid: "5.10", PctChange: "0.10"},
	}}
	s := &memStore{}
	res := newPipeline(t, f, s).Run(context.Background())

	if res.Status != StatusOK || res.Err != nil {
		t.Fatalf("want ok, got %s (%v)", res.Status, res.Err)
	}
	if len(res.Table) != 1 {
		t.Fatalf("want 1 record, got %d", len(res.Table))
	}
	r := res.Table[0]
	if r.Asset != "Dólar Americano" || !r.Price.Equal(decimal.RequireFromString("5.10")) {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.Trend != string(trend.Up) || r.Icon != "📈" || r.ChangePct != "0.10" {
		t.Fatalf("want up/📈, got %+v", r)
	}
	if r.Date != "19/10/2026" || r.Timestamp != "14:30:05" {
		t.Fatalf("unexpected stamp %s %s", r.Date, r.Timestamp)
	}
	if s.saves != 1 || len(s.records) != 1 {
		t.Fatalf("table not persisted: saves=%d records=%d", s.saves, len(s.records))
	}
}

func TestRun_MalformedPercentIsIndeterminate(t *testing.T) {
	f := &fakeFetcher{quotes: map[string]models.Quote{
		"EURBRL": {Name: "Euro/Real Brasileiro", Bid: "5.90", PctChange: "abc"},
	}}
	res := newPipeline(t, f, &memStore{}).Run(context.Background())
	if res.Status != StatusOK {
		t.Fatalf("want ok, got %s", res.Status)
	}
	r := res.Table[0]
	if r.Trend != string(trend.Indeterminate) || r.Icon != "❔" || r.ChangePct != "abc" {
		t.Fatalf("want indeterminate with verbatim change, got %+v", r)
	}
}

func TestRun_NoDataNoStorageIsWaiting(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("%w: dial tcp: refused", fetcher.ErrTransport)}
	s := &memStore{}
	res := newPipeline(t, f, s).Run(context.Background())

	if res.Status != StatusTransportFault {
		t.Fatalf("want transport_fault, got %s", res.Status)
	}
	if !res.Waiting() {
		t.Fatal("expected waiting state")
	}
	if !errors.Is(res.Err, fetcher.ErrTransport) {
		t.Fatalf("want ErrTransport, got %v", res.Err)
	}
	if s.saves != 0 {
		t.Fatal("fetch failure must not write")
	}
}

func TestRun_NoDataReturnsStoredTable(t *testing.T) {
	s := &memStore{}
	seed := newPipeline(t, &fakeFetcher{quotes: fourQuotes()}, s)
	seed.Run(context.Background())
	seed.now = fixedClock(captureTime.Add(time.Minute))
	seed.Run(context.Background())
	if len(s.records) != 8 {
		t.Fatalf("seed: want 8 records, got %d", len(s.records))
	}

	f := &fakeFetcher{err: fmt.Errorf("%w: status 503", fetcher.ErrStatus)}
	res := newPipeline(t, f, s).Run(context.Background())
	if res.Status != StatusTransportFault || res.Waiting() {
		t.Fatalf("want transport_fault with data, got %s waiting=%v", res.Status, res.Waiting())
	}
	if len(res.Table) != 8 {
		t.Fatalf("want the 8 stored records, got %d", len(res.Table))
	}
	for i := range res.Table {
		if res.Table[i].Key() != s.records[i].Key() || !res.Table[i].Price.Equal(s.records[i].Price) {
			t.Fatalf("record %d differs", i)
		}
	}
	if s.saves != 2 {
		t.Fatalf("failed fetch must not save, saves=%d", s.saves)
	}
}

func TestRun_PayloadFault(t *testing.T) {
	f := &fakeFetcher{err: fmt.Errorf("%w: not an object", fetcher.ErrPayload)}
	res := newPipeline(t, f, &memStore{}).Run(context.Background())
	if res.Status != StatusParseFault || !res.Waiting() {
		t.Fatalf("want parse_fault waiting, got %s", res.Status)
	}
}

func TestRun_IdempotentDoubleIngest(t *testing.T) {
	s := &memStore{}
	p := newPipeline(t, &fakeFetcher{quotes: fourQuotes()}, s)

	first := p.Run(context.Background())
	second := p.Run(context.Background())

	if len(first.Table) != 4 || len(second.Table) != 4 {
		t.Fatalf("want 4 records after both runs, got %d and %d", len(first.Table), len(second.Table))
	}
	if len(s.records) != 4 {
		t.Fatalf("persisted %d records, want 4", len(s.records))
	}
}

func TestRun_WindowBound(t *testing.T) {
	const n = 10
	s := &memStore{}
	p := newPipeline(t, &fakeFetcher{quotes: fourQuotes()}, s, WithMerge(MergeWindow, n))

	var last Result
	for k := 0; k <= n+1; k++ {
		p.now = fixedClock(captureTime.Add(time.Duration(k) * time.Minute))
		last = p.Run(context.Background())
	}
	if len(last.Table) != n || len(s.records) != n {
		t.Fatalf("want %d records, got table=%d stored=%d", n, len(last.Table), len(s.records))
	}
	newest := last.Table[n-1]
	if newest.Timestamp != "14:41:05" {
		t.Fatalf("window must keep the most recent records, last is %s", newest.Timestamp)
	}
}

func TestRun_BatchOrderedBySymbol(t *testing.T) {
	res := newPipeline(t, &fakeFetcher{quotes: fourQuotes()}, &memStore{}).Run(context.Background())
	want := []string{"Euro", "Libra Esterlina", "Iene Japonês", "Dólar Americano"} // EUR, GBP, JPY, USD
	for i, a := range want {
		if res.Table[i].Asset != a {
			t.Fatalf("position %d: want %s, got %s", i, a, res.Table[i].Asset)
		}
	}
}

func TestRun_SkipsUnusableQuotes(t *testing.T) {
	quotes := fourQuotes()
	quotes["ARSBRL"] = models.Quote{Name: "Peso Argentino/Real Brasileiro", Bid: "n/a", PctChange: "1"}
	res := newPipeline(t, &fakeFetcher{quotes: quotes}, &memStore{}).Run(context.Background())
	if res.Status != StatusOK || res.Added != 4 || res.Skipped != 1 {
		t.Fatalf("want ok added=4 skipped=1, got %s added=%d skipped=%d", res.Status, res.Added, res.Skipped)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	f := &fakeFetcher{quotes: map[string]models.Quote{
		"USDBRL": {Name: "Dólar Americano/Real Brasileiro", Bid: ""},
	}}
	s := &memStore{}
	res := newPipeline(t, f, s).Run(context.Background())
	if res.Status != StatusEmpty || !res.Waiting() || !errors.Is(res.Err, ErrNoRecords) {
		t.Fatalf("want empty, got %s (%v)", res.Status, res.Err)
	}
	if s.saves != 0 {
		t.Fatal("empty batch must not write")
	}
}

func TestRun_CorruptStorageRestartsFromBatch(t *testing.T) {
	s := &memStore{loadErr: fmt.Errorf("%w: zip: not a valid zip file", storage.ErrCorrupt)}
	res := newPipeline(t, &fakeFetcher{quotes: fourQuotes()}, s).Run(context.Background())

	if res.Status != StatusStorageFault || !errors.Is(res.Err, storage.ErrCorrupt) {
		t.Fatalf("want storage_fault/ErrCorrupt, got %s (%v)", res.Status, res.Err)
	}
	if len(res.Table) != 4 || s.saves != 1 {
		t.Fatalf("table must restart from batch and be saved: table=%d saves=%d", len(res.Table), s.saves)
	}
}

func TestRun_SaveFailureKeepsTableInMemory(t *testing.T) {
	s := &memStore{saveErr: errors.New("disk full")}
	res := newPipeline(t, &fakeFetcher{quotes: fourQuotes()}, s).Run(context.Background())
	if res.Status != StatusStorageFault || len(res.Table) != 4 || res.Waiting() {
		t.Fatalf("want storage_fault with 4 in-memory records, got %s %d", res.Status, len(res.Table))
	}
}

func TestRun_RoundTripThroughWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "currency_data.xlsx")
	s := storage.NewXLSXStore(path, "", storage.DefaultColumns)

	quotes := fourQuotes()
	quotes["ARSBRL"] = models.Quote{Name: "Peso Argentino/Real Brasileiro", Bid: "0,0041", PctChange: "abc"}
	res := newPipeline(t, &fakeFetcher{quotes: quotes}, s).Run(context.Background())
	if res.Status != StatusOK {
		t.Fatalf("run: %s (%v)", res.Status, res.Err)
	}

	loaded, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != len(res.Table) {
		t.Fatalf("want %d rows, got %d", len(res.Table), len(loaded))
	}
	for i := range loaded {
		a, b := res.Table[i], loaded[i]
		if a.Key() != b.Key() || !a.Price.Equal(b.Price) || a.ChangePct != b.ChangePct || a.Trend != b.Trend || a.Icon != b.Icon {
			t.Fatalf("row %d: ran %+v, loaded %+v", i, a, b)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, &memStore{}); err == nil {
		t.Fatal("expected error for nil fetcher")
	}
	if _, err := New(&fakeFetcher{}, &memStore{}, WithMerge(MergeWindow, 0)); err == nil {
		t.Fatal("expected error for zero window")
	}
	if _, err := New(&fakeFetcher{}, &memStore{}, WithMerge("latest", 10)); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
