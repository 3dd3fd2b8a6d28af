package refdata

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"gopkg.in/yaml.v3"

	"fasttrack-engine/internal/model"
)

var d = decimal.RequireFromString

func TestDefaultTables(t *testing.T) {
	tables := Default()
	if tables.Version != DefaultVersion {
		t.Fatalf("expected version %s, got %s", DefaultVersion, tables.Version)
	}

	row, ok := tables.IncomeLimit(80, 2)
	if !ok {
		t.Fatalf("missing 80%% AMI row")
	}
	if !row.AnnualIncome.Equal(d("52040")) {
		t.Fatalf("expected income 52040, got %s", row.AnnualIncome)
	}
	if !row.MaxMonthlyRent.Equal(d("1301")) {
		t.Fatalf("expected max rent 1301, got %s", row.MaxMonthlyRent)
	}

	for _, ami := range append(append([]model.AMIThreshold{}, model.RentalAMIThresholds...), model.OwnershipAMIThresholds...) {
		if _, ok := tables.IncomeLimit(ami, tables.HouseholdSize); !ok {
			t.Fatalf("missing income limit for %s", ami)
		}
	}
	if _, ok := tables.IncomeLimit(70, 2); ok {
		t.Fatalf("did not expect a 70%% AMI row")
	}
}

func TestBuildingPermitTier(t *testing.T) {
	fees := Default().Fees
	tests := []struct {
		valuation string
		threshold string
	}{
		{"0", "0"},
		{"499.99", "0"},
		{"500", "500"},
		{"24999", "2000"},
		{"1000000", "1000000"},
		{"50000000", "1000000"},
	}
	for _, tt := range tests {
		got := fees.BuildingPermitTier(d(tt.valuation))
		if !got.Threshold.Equal(d(tt.threshold)) {
			t.Fatalf("valuation %s: expected tier %s, got %s", tt.valuation, tt.threshold, got.Threshold)
		}
	}
}

func TestParseYAMLRoundTrip(t *testing.T) {
	doc := defaultDocument()
	doc.Version = "delta-2026.1"
	doc.TimeSavings = 65000

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	tables, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tables.Version != "delta-2026.1" || !tables.TimeSavings.Equal(d("65000")) {
		t.Fatalf("unexpected tables %s / %s", tables.Version, tables.TimeSavings)
	}
}

func TestParseYAMLRejectsUnknownFields(t *testing.T) {
	data, err := yaml.Marshal(defaultDocument())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	data = append(data, []byte("surprise: true\n")...)
	if _, err := ParseYAML(data); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestInvalidDocuments(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*document)
		want   string
	}{
		{"missing version", func(doc *document) { doc.Version = "" }, "version"},
		{"missing AMI row", func(doc *document) {
			rows := doc.IncomeLimits[:0]
			for _, r := range doc.IncomeLimits {
				if r.AMI != 80 {
					rows = append(rows, r)
				}
			}
			doc.IncomeLimits = rows
		}, "missing income limit for 80% AMI"},
		{"tiers not from zero", func(doc *document) { doc.Fees.BuildingPermitTiers = doc.Fees.BuildingPermitTiers[1:] }, "start at 0"},
		{"tiers out of order", func(doc *document) {
			tiers := doc.Fees.BuildingPermitTiers
			tiers[2], tiers[3] = tiers[3], tiers[2]
		}, "not ascending"},
		{"negative per-unit fee", func(doc *document) { doc.Fees.WaterPerUnit = -1 }, "water_per_unit"},
		{"materials above one", func(doc *document) { doc.Fees.MaterialsFraction = 1.2 }, "materials_fraction"},
		{"no horizon", func(doc *document) { doc.Impact.EquivalenceHorizonYears = 0 }, "horizon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := defaultDocument()
			tt.mutate(&doc)
			_, err := doc.tables()
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRegistryDefaultsWithoutSource(t *testing.T) {
	r := NewRegistry(Source{})
	if r.Current().Version != DefaultVersion {
		t.Fatalf("expected default snapshot, got %s", r.Current().Version)
	}
	tables, err := r.Reload()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if tables.Version != DefaultVersion {
		t.Fatalf("expected default snapshot, got %s", tables.Version)
	}
}

func TestRegistryReloadFromFile(t *testing.T) {
	dir := t.TempDir()

	doc := defaultDocument()
	doc.Version = "file-yaml"
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	yamlPath := filepath.Join(dir, "tables.yaml")
	if err := os.WriteFile(yamlPath, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewRegistry(Source{Path: yamlPath})
	if _, err := r.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if r.Current().Version != "file-yaml" {
		t.Fatalf("expected file-yaml, got %s", r.Current().Version)
	}

	doc.Version = "file-json"
	data, err = json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	jsonPath := filepath.Join(dir, "tables.json")
	if err := os.WriteFile(jsonPath, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	tables, err := LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if tables.Version != "file-json" {
		t.Fatalf("expected file-json, got %s", tables.Version)
	}
}

func TestRegistryKeepsSnapshotOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("version: [\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewRegistry(Source{Path: path})
	before := r.Current()
	if _, err := r.Reload(); err == nil {
		t.Fatalf("expected reload to fail")
	}
	if r.Current() != before {
		t.Fatalf("snapshot replaced after failed reload")
	}
}

func serve(t *testing.T, handler fasthttp.RequestHandler) *fasthttputil.InmemoryListener {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	go func() {
		_ = fasthttp.Serve(ln, handler)
	}()
	t.Cleanup(func() { _ = ln.Close() })
	return ln
}

func TestRegistryReloadFromURL(t *testing.T) {
	doc := defaultDocument()
	doc.Version = "remote-7"
	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	ln := serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	})

	r := NewRegistry(Source{URL: "http://refdata.local/tables"})
	r.client.Dial = func(string) (net.Conn, error) { return ln.Dial() }

	tables, err := r.Reload()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if tables.Version != "remote-7" || r.Current().Version != "remote-7" {
		t.Fatalf("expected remote-7, got %s", r.Current().Version)
	}
}

func TestRegistryReloadFromURLBadStatus(t *testing.T) {
	ln := serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	})

	r := NewRegistry(Source{URL: "http://refdata.local/tables"})
	r.client.Dial = func(string) (net.Conn, error) { return ln.Dial() }

	_, err := r.Reload()
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status error, got %v", err)
	}
	if r.Current().Version != DefaultVersion {
		t.Fatalf("expected default snapshot to remain, got %s", r.Current().Version)
	}
}

func TestParseJSONRejectsUnknownFields(t *testing.T) {
	data, err := json.Marshal(defaultDocument())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	data = append(data[:len(data)-1], []byte(`,"rent_burdn":0.35}`)...)
	if _, err := ParseJSON(data); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestTablesJSONRoundTrip(t *testing.T) {
	want := Default()
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("parse served tables: %v", err)
	}

	if got.Version != want.Version || len(got.IncomeLimits) != len(want.IncomeLimits) {
		t.Fatalf("unexpected tables %s with %d rows", got.Version, len(got.IncomeLimits))
	}
	for i, row := range want.IncomeLimits {
		g := got.IncomeLimits[i]
		if g.AMI != row.AMI || !g.MaxMonthlyRent.Equal(row.MaxMonthlyRent) || !g.MaxPurchasePrice.Equal(row.MaxPurchasePrice) {
			t.Fatalf("income row %d: expected %+v, got %+v", i, row, g)
		}
	}
	for i, tier := range want.Fees.BuildingPermitTiers {
		g := got.Fees.BuildingPermitTiers[i]
		if !g.Threshold.Equal(tier.Threshold) || !g.BaseCharge.Equal(tier.BaseCharge) || !g.MarginalRate.Equal(tier.MarginalRate) {
			t.Fatalf("tier %d: expected %+v, got %+v", i, tier, g)
		}
	}
	if !got.Fees.UseTaxRate.Equal(want.Fees.UseTaxRate) || !got.Impact.PersonsPerUnit.Equal(want.Impact.PersonsPerUnit) {
		t.Fatalf("scalar constants changed in transit")
	}

	var decoded Tables
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded.IncomeLimit(80, 2); !ok {
		t.Fatalf("decoded tables are missing their income index")
	}
}

func TestRegistryReloadFromPeer(t *testing.T) {
	peer := NewRegistry(Source{})
	ln := serve(t, func(ctx *fasthttp.RequestCtx) {
		body, err := json.Marshal(peer.Current())
		if err != nil {
			ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	})

	r := NewRegistry(Source{URL: "http://peer.local/reference-data"})
	r.client.Dial = func(string) (net.Conn, error) { return ln.Dial() }

	tables, err := r.Reload()
	if err != nil {
		t.Fatalf("reload from peer: %v", err)
	}
	row, ok := tables.IncomeLimit(80, 2)
	if !ok || !row.MaxMonthlyRent.Equal(d("1301")) {
		t.Fatalf("unexpected 80%% row %+v", row)
	}
}
