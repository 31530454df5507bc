package cmd

import (
	"fmt"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:     "clients",
	Aliases: []string{"client"},
	Short:   "List and register clients",
	RunE:    runClientsList,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE:  runClientsList,
}

var clientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a client (interactive without flags)",
	Args:  cobra.NoArgs,
	RunE:  runClientsAdd,
}

var clientsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a client (interactive without flags)",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientsEdit,
}

var (
	clientsSearch string
	clientInput   model.Client
)

var clientFlagNames = []string{"name", "trading-name", "cnpj", "ie", "address", "phone", "email"}

func init() {
	clientsCmd.PersistentFlags().StringVarP(&clientsSearch, "search", "s", "", "Filter by name, trading name or CNPJ")

	for _, c := range []*cobra.Command{clientsAddCmd, clientsEditCmd} {
		c.Flags().StringVar(&clientInput.Name, "name", "", "Legal name")
		c.Flags().StringVar(&clientInput.TradingName, "trading-name", "", "Trading name")
		c.Flags().StringVar(&clientInput.CNPJ, "cnpj", "", "CNPJ")
		c.Flags().StringVar(&clientInput.StateRegistration, "ie", "", "State registration")
		c.Flags().StringVar(&clientInput.Address, "address", "", "Address")
		c.Flags().StringVar(&clientInput.Phone, "phone", "", "Phone")
		c.Flags().StringVar(&clientInput.Email, "email", "", "E-mail")
	}

	clientsCmd.AddCommand(clientsListCmd, clientsAddCmd, clientsEditCmd)
	rootCmd.AddCommand(clientsCmd)
}

func runClientsList(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.desk.Load()
	if err != nil {
		return err
	}

	clients := pipeline.SearchClients(snap.Clients, clientsSearch)
	if len(clients) == 0 {
		fmt.Println("\n  No clients found.")
		return nil
	}

	stats := pipeline.AggregateClients(clients, snap.Equipment, snap.Budgets)
	byID := make(map[string]model.ClientStats, len(stats))
	for _, s := range stats {
		byID[s.ClientID] = s
	}

	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		s := byID[c.ID]
		rows = append(rows, []string{
			shortID(c.ID),
			cli.Truncate(c.Name, 32),
			c.CNPJ,
			c.Phone,
			cli.FormatNumber(int64(s.Equipment)),
			cli.FormatNumber(int64(s.Budgets)),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CLIENTS  (%d)", len(clients))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Name", "CNPJ", "Phone", "Equip.", "Budgets"},
		Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Left},
		Rows:    rows,
	}))
	return nil
}

func runClientsAdd(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	c := clientInput
	if !anyChanged(cmd, clientFlagNames...) {
		if err := clientForm(&c, "Novo cliente"); err != nil {
			return err
		}
	}

	saved, err := ws.desk.SaveClient(c)
	if err != nil {
		return err
	}
	progressf("  Client %s saved (%s)\n", saved.Name, shortID(saved.ID))
	return nil
}

func runClientsEdit(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	clients, err := ws.st.Clients().GetAll()
	if err != nil {
		return err
	}
	c, err := matchID(clients, "client", args[0])
	if err != nil {
		return err
	}

	if anyChanged(cmd, clientFlagNames...) {
		applyClientFlags(cmd, &c)
	} else if err := clientForm(&c, "Editar cliente"); err != nil {
		return err
	}

	saved, err := ws.desk.SaveClient(c)
	if err != nil {
		return err
	}
	progressf("  Client %s updated\n", saved.Name)
	return nil
}

func applyClientFlags(cmd *cobra.Command, c *model.Client) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("name", &c.Name, clientInput.Name)
	set("trading-name", &c.TradingName, clientInput.TradingName)
	set("cnpj", &c.CNPJ, clientInput.CNPJ)
	set("ie", &c.StateRegistration, clientInput.StateRegistration)
	set("address", &c.Address, clientInput.Address)
	set("phone", &c.Phone, clientInput.Phone)
	set("email", &c.Email, clientInput.Email)
}
