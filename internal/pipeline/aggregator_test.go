package pipeline

import (
	"testing"
	"time"

	"github.com/mproservicos/mpro/internal/model"
)

func sampleData() ([]model.Client, []model.Equipment, []model.Budget) {
	clients := []model.Client{
		{ID: "c1", Name: "Acme", CNPJ: "11.111.111/0001-11", TradingName: "Acme Ind"},
		{ID: "c2", Name: "Beta", CNPJ: "22.222.222/0001-22"},
	}
	equipment := []model.Equipment{
		{ID: "e1", ClientID: "c1", Brand: "WEG", Model: "W22"},
		{ID: "e2", ClientID: "c1", Brand: "Atlas", Model: "GA37"},
		{ID: "e3", ClientID: "gone", Brand: "X", Model: "Y"},
	}
	budgets := []model.Budget{
		{ID: "b1", Number: 1, ClientID: "c1", EquipmentID: "e1", Status: model.StatusApproved, FinalTotal: 155},
		{ID: "b2", Number: 2, ClientID: "c2", EquipmentID: "e9", Status: model.StatusAnalysis, FinalTotal: 80},
		{ID: "b3", Number: 3, ClientID: "c1", EquipmentID: "e2", Status: model.StatusRejected, FinalTotal: 10},
		{ID: "b4", Number: 4, ClientID: "c2", EquipmentID: "e2", Status: model.StatusApproved, FinalTotal: 45},
	}
	return clients, equipment, budgets
}

func TestSummarize(t *testing.T) {
	clients, equipment, budgets := sampleData()
	s := Summarize(clients, equipment, budgets)

	if s.TotalClients != 2 || s.TotalEquipment != 3 || s.TotalBudgets != 4 {
		t.Fatalf("counts = %d/%d/%d, want 2/3/4", s.TotalClients, s.TotalEquipment, s.TotalBudgets)
	}
	if s.InAnalysis != 1 || s.Approved != 2 || s.Rejected != 1 {
		t.Fatalf("status counts = %d/%d/%d, want 1/2/1", s.InAnalysis, s.Approved, s.Rejected)
	}
	if s.ApprovedRevenue != 200 {
		t.Fatalf("ApprovedRevenue = %v, want 200", s.ApprovedRevenue)
	}
	if s.PipelineValue != 80 {
		t.Fatalf("PipelineValue = %v, want 80", s.PipelineValue)
	}
	if want := 2.0 / 3.0; s.ApprovalRate != want {
		t.Fatalf("ApprovalRate = %v, want %v", s.ApprovalRate, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, nil)
	if s != (model.SummaryStats{}) {
		t.Fatalf("Summarize(nil) = %+v, want zero", s)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	_, _, budgets := sampleData()

	got := Recent(budgets, 3)
	if len(got) != 3 || got[0].ID != "b4" || got[2].ID != "b2" {
		t.Fatalf("Recent(3) = %v, want [b4 b3 b2]", ids(got))
	}
	if got := Recent(budgets, 10); len(got) != 4 {
		t.Fatalf("Recent(10) len = %d, want 4", len(got))
	}
	if got := Recent(budgets, 0); got != nil {
		t.Fatalf("Recent(0) = %v, want nil", ids(got))
	}
}

func TestLookupsResolveOrNotFound(t *testing.T) {
	clients, equipment, budgets := sampleData()

	if got := ClientName(clients, "c2"); got != "Beta" {
		t.Fatalf("ClientName(c2) = %q, want Beta", got)
	}
	if got := ClientName(clients, "gone"); got != NotFound {
		t.Fatalf("ClientName(gone) = %q, want %q", got, NotFound)
	}
	if got := EquipmentLabel(equipment, "e1"); got != "WEG - W22" {
		t.Fatalf("EquipmentLabel(e1) = %q, want %q", got, "WEG - W22")
	}
	if got := EquipmentLabel(equipment, budgets[1].EquipmentID); got != NotFound {
		t.Fatalf("EquipmentLabel(dangling) = %q, want %q", got, NotFound)
	}
	if _, ok := FindClient(clients, ""); ok {
		t.Fatal("FindClient(\"\") reported found")
	}

	if got := EquipmentForClient(equipment, "c1"); len(got) != 2 {
		t.Fatalf("EquipmentForClient(c1) len = %d, want 2", len(got))
	}
}

func TestFindBudgetByIDOrNumber(t *testing.T) {
	_, _, budgets := sampleData()

	tests := []struct {
		ref    string
		wantID string
		ok     bool
	}{
		{"b3", "b3", true},
		{"2", "b2", true},
		{"#000004", "b4", true},
		{"#0", "", false},
		{"-1", "", false},
		{"nope", "", false},
	}
	for _, tt := range tests {
		got, ok := FindBudget(budgets, tt.ref)
		if ok != tt.ok || got.ID != tt.wantID {
			t.Fatalf("FindBudget(%q) = %q,%v, want %q,%v", tt.ref, got.ID, ok, tt.wantID, tt.ok)
		}
	}
}

func TestAggregateClients(t *testing.T) {
	clients, equipment, budgets := sampleData()
	got := AggregateClients(clients, equipment, budgets)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ClientID != "c1" || got[0].ApprovedRevenue != 155 || got[0].Equipment != 2 || got[0].Budgets != 2 {
		t.Fatalf("got[0] = %+v, want c1 with 155 revenue, 2 equipment, 2 budgets", got[0])
	}
	if got[1].ClientID != "c2" || got[1].Approved != 1 {
		t.Fatalf("got[1] = %+v, want c2 with 1 approved", got[1])
	}
}

func TestSearchClients(t *testing.T) {
	clients, _, _ := sampleData()
	if got := SearchClients(clients, "ind"); len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("search by trading name = %+v", got)
	}
	if got := SearchClients(clients, "22.222"); len(got) != 1 || got[0].ID != "c2" {
		t.Fatalf("search by cnpj = %+v", got)
	}
	if got := SearchClients(clients, "  "); len(got) != 2 {
		t.Fatalf("blank search len = %d, want 2", len(got))
	}
}

func TestExpiry(t *testing.T) {
	issued := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	b := model.Budget{Date: issued, ValidityDays: 15, Status: model.StatusAnalysis}

	if want := time.Date(2026, 1, 25, 9, 0, 0, 0, time.UTC); !ExpiresAt(b).Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", ExpiresAt(b), want)
	}
	if IsExpired(b, issued.AddDate(0, 0, 14)) {
		t.Fatal("expired after 14 days, want valid")
	}
	if !IsExpired(b, issued.AddDate(0, 0, 16)) {
		t.Fatal("valid after 16 days, want expired")
	}
	b.Status = model.StatusApproved
	if IsExpired(b, issued.AddDate(1, 0, 0)) {
		t.Fatal("approved budget reported expired")
	}
}

func ids(budgets []model.Budget) []string {
	out := make([]string, len(budgets))
	for i, b := range budgets {
		out[i] = b.ID
	}
	return out
}

func TestAggregateMonths(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	budgets := []model.Budget{
		{Date: time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local), Status: model.StatusApproved, FinalTotal: 100},
		{Date: time.Date(2026, 3, 20, 9, 0, 0, 0, time.Local), Status: model.StatusAnalysis, FinalTotal: 50},
		{Date: time.Date(2026, 1, 31, 9, 0, 0, 0, time.Local), Status: model.StatusApproved, FinalTotal: 30},
		{Date: time.Date(2025, 12, 31, 9, 0, 0, 0, time.Local), Status: model.StatusApproved, FinalTotal: 999},
	}

	months := AggregateMonths(budgets, 3, now)
	if len(months) != 3 {
		t.Fatalf("len = %d, want 3", len(months))
	}
	if got := months[0].Month; got.Month() != time.January || got.Year() != 2026 {
		t.Fatalf("first month = %v, want January 2026", got)
	}

	jan, feb, mar := months[0], months[1], months[2]
	if jan.Issued != 1 || jan.ApprovedRevenue != 30 {
		t.Fatalf("january = %+v", jan)
	}
	if feb.Issued != 0 {
		t.Fatalf("february = %+v, want empty", feb)
	}
	if mar.Issued != 2 || mar.Approved != 1 || mar.IssuedValue != 150 || mar.ApprovedRevenue != 100 {
		t.Fatalf("march = %+v", mar)
	}
}

func TestAggregateMonthsAcrossYear(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.Local)
	budgets := []model.Budget{{Date: time.Date(2025, 11, 5, 0, 0, 0, 0, time.Local), FinalTotal: 7}}

	months := AggregateMonths(budgets, 3, now)
	if months[0].Month.Month() != time.November || months[0].Issued != 1 {
		t.Fatalf("months[0] = %+v, want November with one budget", months[0])
	}
}
