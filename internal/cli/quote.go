package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mproservicos/mpro/internal/config"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
)

// ErrUnresolved is returned when a budget's client or equipment is missing,
// in which case no quote is printed.
var ErrUnresolved = errors.New("budget references a missing client or equipment")

// QuoteCopies holds the title of each printed copy, in print order.
var QuoteCopies = []string{"1ª Via - Cliente", "2ª Via - Arquivo"}

const (
	quoteWidth  = 76 // usable text width inside a copy
	noNotesText = "Nenhuma observação técnica adicional."
)

// QuoteDoc is everything printed on a quote.
type QuoteDoc struct {
	Company   config.CompanyConfig
	Budget    model.Budget
	Client    model.Client
	Equipment model.Equipment
}

// NewQuoteDoc resolves the budget's references.
func NewQuoteDoc(company config.CompanyConfig, clients []model.Client, equipment []model.Equipment, b model.Budget) (QuoteDoc, error) {
	c, ok := pipeline.FindClient(clients, b.ClientID)
	if !ok {
		return QuoteDoc{}, fmt.Errorf("%w: client %s", ErrUnresolved, b.ClientID)
	}
	e, ok := pipeline.FindEquipment(equipment, b.EquipmentID)
	if !ok {
		return QuoteDoc{}, fmt.Errorf("%w: equipment %s", ErrUnresolved, b.EquipmentID)
	}
	return QuoteDoc{Company: company, Budget: b, Client: c, Equipment: e}, nil
}

// RenderQuote renders the two-copy quote: the client's copy and the archive
// copy, separated by a cut line.
func RenderQuote(q QuoteDoc) string {
	var b strings.Builder
	for i, title := range QuoteCopies {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(cutLine())
			b.WriteString("\n\n")
		}
		b.WriteString(renderQuoteCopy(q, title))
		b.WriteString("\n")
	}
	return b.String()
}

func cutLine() string {
	label := " ✂ Picote para separação "
	side := (quoteWidth + 4 - lipgloss.Width(label)) / 2
	if side < 0 {
		side = 0
	}
	return strings.Repeat("-", side) + label + strings.Repeat("-", side)
}

func renderQuoteCopy(q QuoteDoc, title string) string {
	bud := q.Budget
	half := quoteWidth / 2
	bold := lipgloss.NewStyle().Bold(true)
	left := lipgloss.NewStyle().Width(half)
	right := lipgloss.NewStyle().Width(quoteWidth - half).Align(lipgloss.Right)

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Width(quoteWidth).Align(lipgloss.Right).
		Render("[ " + strings.ToUpper(title) + " ]"))
	b.WriteString("\n")

	// Letterhead and quote identity
	head := bold.Render(q.Company.Name)
	if q.Company.Tagline != "" {
		head += "\n" + q.Company.Tagline
	}
	if q.Company.CNPJ != "" {
		head += "\nCNPJ: " + q.Company.CNPJ
	}
	ident := bold.Render("ORÇAMENTO Nº "+FormatBudgetNumber(bud.Number)) +
		"\nEmissão: " + FormatDate(bud.Date) +
		"\nVencimento: " + FormatDate(pipeline.ExpiresAt(bud))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left.Render(head), right.Render(ident)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", quoteWidth))
	b.WriteString("\n")

	// Client and equipment
	client := bold.Render("DADOS DO CLIENTE") + "\n" +
		Truncate(q.Client.Name, half-2) + "\n" +
		"CNPJ: " + q.Client.CNPJ + "\n" +
		Truncate(q.Client.Address, half-2) + "\n" +
		"Fone: " + q.Client.Phone
	equip := bold.Render("EQUIPAMENTO") + "\n" +
		Truncate(q.Equipment.Label(), half-2) + "\n" +
		"Série: " + q.Equipment.SerialNumber + "\n" +
		"Tipo: " + q.Equipment.Type + "\n" +
		"Local: " + Truncate(q.Equipment.InstallationLocation, half-9)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left.Render(client), left.Render(equip)))
	b.WriteString("\n\n")

	b.WriteString(renderQuoteItems(bud))
	b.WriteString("\n")

	// Notes and totals
	notes := bud.TechnicalNotes
	if notes == "" {
		notes = noNotesText
	}
	remarks := lipgloss.NewStyle().Width(half).Render(
		bold.Render("Observações:") + "\n" + notes + "\n\nPagamento: " + bud.PaymentTerms)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, remarks, right.Render(renderQuoteTotals(bud, quoteWidth-half))))
	b.WriteString("\n\n\n")

	// Signatures
	sig := lipgloss.NewStyle().Width(half).Align(lipgloss.Center)
	line := strings.Repeat("_", 28)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		sig.Render(line+"\nResponsável Técnico"),
		sig.Render(line+"\nAssinatura Cliente")))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(quoteWidth + 2)
	return box.Render(b.String())
}

func renderQuoteItems(bud model.Budget) string {
	const qtyW, unitW, totalW = 6, 11, 11
	descW := quoteWidth - qtyW - unitW - totalW - 3

	row := func(desc, qty, unit, total string) string {
		return padRight(Truncate(desc, descW), descW) + " " +
			padLeft(qty, qtyW) + " " +
			padLeft(unit, unitW) + " " +
			padLeft(total, totalW)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(row("Descrição", "Qtd", "Unitário", "Total")))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", quoteWidth))
	b.WriteString("\n")

	for _, s := range bud.Services {
		desc := fmt.Sprintf("SERVIÇO: %s (%s)", s.Description, s.Type)
		b.WriteString(row(desc, "1", FormatAmount(s.Price), FormatAmount(s.Price)))
		b.WriteString("\n")
	}
	for _, m := range bud.Materials {
		desc := "PEÇA: " + m.Description
		if m.PartCode != "" {
			desc += " [" + m.PartCode + "]"
		}
		b.WriteString(row(desc, FormatQuantity(m.Quantity), FormatAmount(m.UnitPrice), FormatAmount(m.Quantity*m.UnitPrice)))
		b.WriteString("\n")
	}
	if len(bud.Services) == 0 && len(bud.Materials) == 0 {
		b.WriteString("(sem itens)\n")
	}
	b.WriteString(strings.Repeat("─", quoteWidth))
	return b.String()
}

// renderQuoteTotals prints the stored totals. Travel fee and discount lines
// appear only when positive.
func renderQuoteTotals(bud model.Budget, width int) string {
	line := func(label, value string) string {
		return label + padLeft(value, width-lipgloss.Width(label))
	}

	lines := []string{
		line("Serviços:", FormatMoney(bud.TotalLabor)),
		line("Materiais:", FormatMoney(bud.TotalMaterials)),
	}
	if bud.TravelFee > 0 {
		lines = append(lines, line("Deslocamento:", FormatMoney(bud.TravelFee)))
	}
	if bud.Discount > 0 {
		lines = append(lines, line("Desconto:", "- "+FormatMoney(bud.Discount)))
	}
	lines = append(lines, strings.Repeat("─", width))
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(line("TOTAL:", FormatMoney(bud.FinalTotal))))
	return strings.Join(lines, "\n")
}
