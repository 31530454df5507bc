package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/desk"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var budgetsCmd = &cobra.Command{
	Use:     "budgets",
	Aliases: []string{"budget", "quotes"},
	Short:   "Build, review and print service quotes",
	RunE:    runBudgetsList,
}

var budgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets",
	RunE:  runBudgetsList,
}

var budgetsShowCmd = &cobra.Command{
	Use:   "show <number|id>",
	Short: "Show a budget with its line items",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetsShow,
}

var budgetsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a budget (interactive without flags)",
	Args:  cobra.NoArgs,
	RunE:  runBudgetsNew,
}

var budgetsEditCmd = &cobra.Command{
	Use:   "edit <number|id>",
	Short: "Edit a budget (interactive without flags)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetsEdit,
}

var budgetsPrintCmd = &cobra.Command{
	Use:   "print <number|id>",
	Short: "Print the two-copy quote",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetsPrint,
}

var (
	budgetsStatus string
	budgetsClient string
	budgetsOutput string

	draftClient    string
	draftEquipment string
	draftServices  []string
	draftMaterials []string
	draftDiscount  string
	draftTravelFee string
	draftTerms     string
	draftValidity  int
	draftNotes     string
	draftStatus    string
)

var draftFlagNames = []string{
	"client", "equipment", "service", "material", "discount", "travel-fee",
	"payment-terms", "validity", "notes", "status",
}

func init() {
	for _, c := range []*cobra.Command{budgetsCmd, budgetsListCmd} {
		c.Flags().StringVar(&budgetsStatus, "status", "", "Only budgets with this status (analysis, approved, rejected)")
		c.Flags().StringVarP(&budgetsClient, "client", "c", "", "Only budgets of this client (id or prefix)")
	}

	for _, c := range []*cobra.Command{budgetsNewCmd, budgetsEditCmd} {
		addDraftFlags(c)
	}

	budgetsPrintCmd.Flags().StringVarP(&budgetsOutput, "output", "o", "", "Write the quote to a file instead of stdout")

	budgetsCmd.AddCommand(budgetsListCmd, budgetsShowCmd, budgetsNewCmd, budgetsEditCmd, budgetsPrintCmd)
	for _, sc := range []struct {
		use, short string
		status     model.BudgetStatus
	}{
		{"approve", "Mark a budget as approved", model.StatusApproved},
		{"reject", "Mark a budget as rejected", model.StatusRejected},
		{"reopen", "Put a budget back in analysis", model.StatusAnalysis},
	} {
		budgetsCmd.AddCommand(newStatusCmd(sc.use, sc.short, sc.status))
	}
	rootCmd.AddCommand(budgetsCmd)
}

func newStatusCmd(use, short string, status model.BudgetStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <number|id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ws, err := openWorkspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			budgets, err := ws.st.Budgets().GetAll()
			if err != nil {
				return err
			}
			b, err := resolveBudget(budgets, args[0])
			if err != nil {
				return err
			}
			b, err = ws.desk.SetStatus(b.ID, status)
			if err != nil {
				return err
			}
			progressf("  Budget %s is now %s\n", cli.FormatBudgetNumber(b.Number), b.Status)
			return nil
		},
	}
}

func runBudgetsList(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.desk.Load()
	if err != nil {
		return err
	}

	budgets := snap.Budgets
	if budgetsStatus != "" {
		st, err := model.ParseBudgetStatus(budgetsStatus)
		if err != nil {
			return err
		}
		budgets = pipeline.FilterByStatus(budgets, st)
	}
	if budgetsClient != "" {
		c, err := matchID(snap.Clients, "client", budgetsClient)
		if err != nil {
			return err
		}
		budgets = pipeline.FilterByClient(budgets, c.ID)
	}
	if len(budgets) == 0 {
		fmt.Println("\n  No budgets found.")
		return nil
	}

	rows := make([][]string, 0, len(budgets))
	total := 0.0
	for _, b := range budgets {
		rows = append(rows, []string{
			cli.FormatBudgetNumber(b.Number),
			cli.FormatDate(b.Date),
			cli.Truncate(pipeline.ClientName(snap.Clients, b.ClientID), 24),
			cli.Truncate(pipeline.EquipmentLabel(snap.Equipment, b.EquipmentID), 22),
			statusLabel(b),
			cli.FormatMoney(b.FinalTotal),
		})
		total += b.FinalTotal
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", "", "", "", "", cli.FormatMoney(total)})

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGETS  (%d)", len(budgets))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Nº", "Date", "Client", "Equipment", "Status", "Total"},
		Align:   []lipgloss.Position{lipgloss.Right, lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Left},
		Rows:    rows,
	}))
	return nil
}

// statusLabel renders the status, flagging quotes past their validity.
func statusLabel(b model.Budget) string {
	s := string(b.Status)
	if s == "" {
		s = string(model.StatusAnalysis)
	}
	if pipeline.IsExpired(b, time.Now()) {
		return cli.Warn(s + " (vencido)")
	}
	return s
}

func runBudgetsShow(_ *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.desk.Load()
	if err != nil {
		return err
	}
	b, err := resolveBudget(snap.Budgets, args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ORÇAMENTO Nº " + cli.FormatBudgetNumber(b.Number)))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Field", "Value"},
		Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Left},
		Rows: [][]string{
			{"ID", b.ID},
			{"Client", pipeline.ClientName(snap.Clients, b.ClientID)},
			{"Equipment", pipeline.EquipmentLabel(snap.Equipment, b.EquipmentID)},
			{"Status", statusLabel(b)},
			{"Issued", cli.FormatDate(b.Date)},
			{"Expires", cli.FormatDate(pipeline.ExpiresAt(b))},
			{"Payment", b.PaymentTerms},
		},
	}))

	if len(b.Services) > 0 {
		rows := make([][]string, 0, len(b.Services))
		for _, s := range b.Services {
			rows = append(rows, []string{
				cli.Truncate(s.Description, 40),
				string(s.Type),
				strconv.FormatFloat(s.EstimatedHours, 'f', -1, 64),
				cli.FormatMoney(s.Price),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Services",
			Headers: []string{"Description", "Type", "Hours", "Price"},
			Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Left},
			Rows:    rows,
		}))
	}

	if len(b.Materials) > 0 {
		rows := make([][]string, 0, len(b.Materials))
		for _, m := range b.Materials {
			rows = append(rows, []string{
				cli.Truncate(m.Description, 40),
				m.PartCode,
				cli.FormatQuantity(m.Quantity),
				cli.FormatMoney(m.UnitPrice),
				cli.FormatMoney(m.Quantity * m.UnitPrice),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Materials",
			Headers: []string{"Description", "Code", "Qty", "Unit", "Total"},
			Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Left},
			Rows:    rows,
		}))
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Totals", ""},
		Rows: [][]string{
			{"Labor", cli.FormatMoney(b.TotalLabor)},
			{"Materials", cli.FormatMoney(b.TotalMaterials)},
			{"Travel fee", cli.FormatMoney(b.TravelFee)},
			{"Discount", "- " + cli.FormatMoney(b.Discount)},
			{"---"},
			{"Final", cli.Money(cli.FormatMoney(b.FinalTotal))},
		},
	}))

	if b.TechnicalNotes != "" {
		fmt.Printf("\n  %s\n  %s\n", cli.Muted("Technical notes"), b.TechnicalNotes)
	}
	if err := pipeline.Verify(b); err != nil {
		fmt.Fprintf(os.Stderr, "\n  %s\n", cli.Warn(err.Error()))
	}
	fmt.Println()
	return nil
}

func addDraftFlags(c *cobra.Command) {
	c.Flags().StringVar(&draftClient, "client", "", "Client (id or prefix)")
	c.Flags().StringVar(&draftEquipment, "equipment", "", "Equipment (id or prefix)")
	c.Flags().StringArrayVar(&draftServices, "service", nil, `Service line "description;type;price[;hours]" (repeatable)`)
	c.Flags().StringArrayVar(&draftMaterials, "material", nil, `Material line "description;qty;unit price[;part code]" (repeatable)`)
	c.Flags().StringVar(&draftDiscount, "discount", "", "Discount in R$")
	c.Flags().StringVar(&draftTravelFee, "travel-fee", "", "Travel fee in R$")
	c.Flags().StringVar(&draftTerms, "payment-terms", "", "Payment terms")
	c.Flags().IntVar(&draftValidity, "validity", 0, "Validity in days")
	c.Flags().StringVar(&draftNotes, "notes", "", "Technical notes")
	c.Flags().StringVar(&draftStatus, "status", "", "Status (analysis, approved, rejected)")
}

// draftFromFlags overlays the flags that were set onto dr.
func draftFromFlags(cmd *cobra.Command, dr *desk.Draft, snap desk.Snapshot) error {
	var err error
	if cmd.Flags().Changed("client") {
		if dr.ClientID, err = resolveRef(snap.Clients, "client", draftClient); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("equipment") {
		if dr.EquipmentID, err = resolveRef(snap.Equipment, "equipment", draftEquipment); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("service") {
		if dr.Services, err = parseServices(draftServices); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("material") {
		if dr.Materials, err = parseMaterials(draftMaterials); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("discount") {
		if dr.Discount, err = parseAmount(draftDiscount); err != nil {
			return fmt.Errorf("discount: %w", err)
		}
	}
	if cmd.Flags().Changed("travel-fee") {
		if dr.TravelFee, err = parseAmount(draftTravelFee); err != nil {
			return fmt.Errorf("travel fee: %w", err)
		}
	}
	if cmd.Flags().Changed("payment-terms") {
		dr.PaymentTerms = draftTerms
	}
	if cmd.Flags().Changed("validity") {
		dr.ValidityDays = draftValidity
	}
	if cmd.Flags().Changed("notes") {
		dr.TechnicalNotes = draftNotes
	}
	if cmd.Flags().Changed("status") {
		if dr.Status, err = model.ParseBudgetStatus(draftStatus); err != nil {
			return err
		}
	}
	return nil
}

func runBudgetsNew(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.desk.Load()
	if err != nil {
		return err
	}

	dr := desk.Draft{
		ValidityDays: ws.cfg.Quotes.ValidityDays,
		PaymentTerms: ws.cfg.Quotes.PaymentTerms,
	}
	if anyChanged(cmd, draftFlagNames...) {
		err = draftFromFlags(cmd, &dr, snap)
	} else {
		err = budgetForm(&dr, snap, "Novo orçamento")
	}
	if err != nil {
		return err
	}

	b, err := ws.desk.CreateBudget(dr)
	if err != nil {
		return err
	}
	progressf("  Budget %s created: %s\n", cli.FormatBudgetNumber(b.Number), cli.FormatMoney(b.FinalTotal))
	return nil
}

func runBudgetsEdit(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.desk.Load()
	if err != nil {
		return err
	}
	b, err := resolveBudget(snap.Budgets, args[0])
	if err != nil {
		return err
	}

	dr := desk.DraftOf(b)
	if anyChanged(cmd, draftFlagNames...) {
		err = draftFromFlags(cmd, &dr, snap)
	} else {
		err = budgetForm(&dr, snap, "Editar orçamento "+cli.FormatBudgetNumber(b.Number))
	}
	if err != nil {
		return err
	}

	b, err = ws.desk.UpdateBudget(b.ID, dr)
	if err != nil {
		return err
	}
	progressf("  Budget %s updated: %s\n", cli.FormatBudgetNumber(b.Number), cli.FormatMoney(b.FinalTotal))
	return nil
}

func runBudgetsPrint(_ *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.desk.Load()
	if err != nil {
		return err
	}
	b, err := resolveBudget(snap.Budgets, args[0])
	if err != nil {
		return err
	}

	doc, err := cli.NewQuoteDoc(ws.cfg.Company, snap.Clients, snap.Equipment, b)
	if errors.Is(err, cli.ErrUnresolved) {
		return fmt.Errorf("cannot print budget %s: %w", cli.FormatBudgetNumber(b.Number), err)
	}
	if err != nil {
		return err
	}

	if budgetsOutput == "" {
		fmt.Print(cli.RenderQuote(doc))
		return nil
	}

	// Files get plain text.
	lipgloss.SetColorProfile(termenv.Ascii)
	if err := os.WriteFile(budgetsOutput, []byte(cli.RenderQuote(doc)), 0o644); err != nil {
		return fmt.Errorf("writing quote: %w", err)
	}
	progressf("  Quote %s written to %s\n", cli.FormatBudgetNumber(b.Number), budgetsOutput)
	return nil
}
