package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mproservicos/mpro/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", DBFile))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetAllEmptyNamespace(t *testing.T) {
	s := openTestStore(t)

	clients, err := s.Clients().GetAll()
	if err != nil {
		t.Fatalf("GetAll on empty store: %v", err)
	}
	if clients == nil || len(clients) != 0 {
		t.Fatalf("GetAll = %#v, want empty non-nil slice", clients)
	}
}

func TestSaveAppendsAndReplacesInPlace(t *testing.T) {
	s := openTestStore(t)
	col := s.Clients()

	for _, id := range []string{"c1", "c2", "c3"} {
		if err := col.Save(model.Client{ID: id, Name: "name-" + id, CNPJ: id}); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	got, err := col.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	if err := col.Save(model.Client{ID: "c2", Name: "Renamed", CNPJ: "2"}); err != nil {
		t.Fatal(err)
	}
	got, err = col.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len after replace = %d, want 3", len(got))
	}
	if got[1].ID != "c2" || got[1].Name != "Renamed" {
		t.Fatalf("got[1] = %+v, want c2 renamed in place", got[1])
	}
	if got[0].ID != "c1" || got[2].ID != "c3" {
		t.Fatalf("order = [%s %s %s], want [c1 c2 c3]", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSaveIdempotent(t *testing.T) {
	s := openTestStore(t)
	col := s.Equipment()
	eq := model.Equipment{ID: "e1", ClientID: "c1", Brand: "X", Model: "Y", SerialNumber: "S1"}

	if err := col.Save(eq); err != nil {
		t.Fatal(err)
	}
	if err := col.Save(eq); err != nil {
		t.Fatal(err)
	}

	got, err := col.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0] != eq {
		t.Fatalf("got %+v, want %+v", got[0], eq)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	col := s.Budgets()

	date := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	b := model.Budget{
		ID:           "b1",
		Number:       1,
		Date:         date,
		ValidityDays: 15,
		ClientID:     "c1",
		EquipmentID:  "e1",
		Services: []model.ServiceItem{
			{ID: "s1", Description: "Revisão", Type: model.ServicePreventive, Price: 100, EstimatedHours: 2},
		},
		Materials: []model.MaterialItem{
			{ID: "m1", Description: "Filtro", Quantity: 2, UnitPrice: 25, PartCode: "F-01"},
		},
		Discount:       5,
		TravelFee:      10,
		PaymentTerms:   "A vista",
		Status:         model.StatusApproved,
		TotalLabor:     100,
		TotalMaterials: 50,
		FinalTotal:     155,
	}
	if err := col.Save(b); err != nil {
		t.Fatal(err)
	}

	got, ok, err := col.Find("b1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Find(b1) not found")
	}
	if !got.Date.Equal(date) {
		t.Fatalf("Date = %v, want %v", got.Date, date)
	}
	if got.Services[0] != b.Services[0] || got.Materials[0] != b.Materials[0] {
		t.Fatalf("line items = %+v %+v, want %+v %+v", got.Services, got.Materials, b.Services, b.Materials)
	}
	if got.FinalTotal != 155 || got.Status != model.StatusApproved {
		t.Fatalf("FinalTotal/Status = %v/%q, want 155/%q", got.FinalTotal, got.Status, model.StatusApproved)
	}

	if _, ok, _ := col.Find("missing"); ok {
		t.Fatal("Find(missing) reported found")
	}
}

func TestCollectionsAreIndependent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Clients().Save(model.Client{ID: "x"}); err != nil {
		t.Fatal(err)
	}
	n, err := s.Budgets().Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("budget count = %d, want 0", n)
	}
}

func TestCorruptNamespaceFailsLoudly(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.db.Exec(`INSERT INTO collections (namespace, payload, updated_at) VALUES (?, ?, ?)`,
		NamespaceBudgets, "{not json", time.Now().UTC().Format(time.RFC3339)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Budgets().GetAll(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("GetAll err = %v, want ErrCorrupt", err)
	}
	if err := s.Budgets().Save(model.Budget{ID: "b1"}); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Save err = %v, want ErrCorrupt", err)
	}

	// The corrupt payload must survive the failed save.
	payload, ok, err := readPayload(s.db, NamespaceBudgets)
	if err != nil || !ok || string(payload) != "{not json" {
		t.Fatalf("payload = %q (ok=%v, err=%v), want original bytes", payload, ok, err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), DBFile)
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Clients().Save(model.Client{ID: "c1", Name: "Acme", CNPJ: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	got, err := s.Clients().GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Acme" {
		t.Fatalf("after reopen = %+v, want [Acme]", got)
	}
}

func TestDumpRestore(t *testing.T) {
	src := openTestStore(t)
	if err := src.Clients().Save(model.Client{ID: "c1", Name: "Acme", CNPJ: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := src.Equipment().Save(model.Equipment{ID: "e1", ClientID: "c1"}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := src.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	dst := openTestStore(t)
	res, err := dst.Restore(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(res.Restored) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("restore = %+v, want 2 restored, none skipped", res)
	}

	clients, err := dst.Clients().GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != 1 || clients[0].Name != "Acme" {
		t.Fatalf("clients = %+v, want [Acme]", clients)
	}

	ns, err := dst.Namespaces()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ns[NamespaceBudgets]; ok {
		t.Fatal("budgets namespace written by restore, want untouched")
	}
}

func TestDumpRestoreWithCorruptNamespace(t *testing.T) {
	src := openTestStore(t)
	if err := src.Clients().Save(model.Client{ID: "c1", Name: "Acme", CNPJ: "1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := src.db.Exec(`INSERT INTO collections (namespace, payload, updated_at) VALUES (?, ?, ?)`,
		NamespaceBudgets, "{not json", time.Now().UTC().Format(time.RFC3339)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := src.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	var doc Backup
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("backup is not JSON: %v", err)
	}
	if doc.Corrupt[NamespaceBudgets] != "{not json" {
		t.Fatalf("corrupt = %q, want raw budgets payload", doc.Corrupt)
	}

	dst := openTestStore(t)
	res, err := dst.Restore(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(res.Restored) != 1 || res.Restored[0] != NamespaceClients {
		t.Fatalf("restored = %v, want [%s]", res.Restored, NamespaceClients)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != NamespaceBudgets {
		t.Fatalf("skipped = %v, want [%s]", res.Skipped, NamespaceBudgets)
	}

	if n, _ := dst.Clients().Count(); n != 1 {
		t.Fatalf("clients restored = %d, want 1", n)
	}
	if _, ok, _ := readPayload(dst.db, NamespaceBudgets); ok {
		t.Fatal("corrupt budgets payload written by restore")
	}
}

func TestRestoreRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown namespace", `{"version":1,"collections":{"other":[]}}`, ErrUnknownNamespace},
		{"wrong shape", `{"version":1,"collections":{"mpro_clients":{"id":"c1"}}}`, ErrCorrupt},
		{"unknown corrupt namespace", `{"version":1,"collections":{},"corrupt":{"other":"x"}}`, ErrUnknownNamespace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTestStore(t)
			if _, err := s.Restore(bytes.NewReader([]byte(tt.doc))); !errors.Is(err, tt.want) {
				t.Fatalf("Restore err = %v, want %v", err, tt.want)
			}
			if n, _ := s.Clients().Count(); n != 0 {
				t.Fatalf("clients count = %d after failed restore, want 0", n)
			}
		})
	}

	s := openTestStore(t)
	if _, err := s.Restore(bytes.NewReader([]byte(`{"version":9,"collections":{}}`))); err == nil {
		t.Fatal("Restore accepted unsupported version")
	}
}
