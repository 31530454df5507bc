package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/desk"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"
	"github.com/mproservicos/mpro/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var equipmentCmd = &cobra.Command{
	Use:     "equipment",
	Aliases: []string{"equip"},
	Short:   "List and register client equipment",
	RunE:    runEquipmentList,
}

var equipmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List equipment",
	RunE:  runEquipmentList,
}

var equipmentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register equipment (interactive without flags)",
	Args:  cobra.NoArgs,
	RunE:  runEquipmentAdd,
}

var equipmentEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit equipment (interactive without flags)",
	Args:  cobra.ExactArgs(1),
	RunE:  runEquipmentEdit,
}

var (
	equipmentClient string
	equipmentInput  model.Equipment
)

var equipmentFlagNames = []string{
	"client", "type", "brand", "model", "serial", "asset", "year", "location", "condition", "notes",
}

func init() {
	equipmentListCmd.Flags().StringVarP(&equipmentClient, "client", "c", "", "Only equipment of this client (id or prefix)")
	equipmentCmd.Flags().StringVarP(&equipmentClient, "client", "c", "", "Only equipment of this client (id or prefix)")

	for _, c := range []*cobra.Command{equipmentAddCmd, equipmentEditCmd} {
		c.Flags().StringVar(&equipmentInput.ClientID, "client", "", "Owner client (id or prefix)")
		c.Flags().StringVar(&equipmentInput.Type, "type", "", "Equipment type")
		c.Flags().StringVar(&equipmentInput.Brand, "brand", "", "Brand")
		c.Flags().StringVar(&equipmentInput.Model, "model", "", "Model")
		c.Flags().StringVar(&equipmentInput.SerialNumber, "serial", "", "Serial number")
		c.Flags().StringVar(&equipmentInput.AssetNumber, "asset", "", "Asset number")
		c.Flags().StringVar(&equipmentInput.ManufacturingYear, "year", "", "Manufacturing year")
		c.Flags().StringVar(&equipmentInput.InstallationLocation, "location", "", "Installation location")
		c.Flags().StringVar(&equipmentInput.Condition, "condition", "", "Condition")
		c.Flags().StringVar(&equipmentInput.Notes, "notes", "", "Notes")
	}

	equipmentCmd.AddCommand(equipmentListCmd, equipmentAddCmd, equipmentEditCmd)
	rootCmd.AddCommand(equipmentCmd)
}

func runEquipmentList(_ *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.desk.Load()
	if err != nil {
		return err
	}

	list := snap.Equipment
	if equipmentClient != "" {
		c, err := matchID(snap.Clients, "client", equipmentClient)
		if err != nil {
			return err
		}
		list = pipeline.EquipmentForClient(list, c.ID)
	}
	if len(list) == 0 {
		fmt.Println("\n  No equipment found.")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{
			shortID(e.ID),
			cli.Truncate(e.Label(), 28),
			e.SerialNumber,
			e.Type,
			cli.Truncate(pipeline.ClientName(snap.Clients, e.ClientID), 24),
			cli.Truncate(e.InstallationLocation, 20),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("EQUIPMENT  (%d)", len(list))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Equipment", "Serial", "Type", "Client", "Location"},
		Align:   []lipgloss.Position{lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Left},
		Rows:    rows,
	}))
	return nil
}

func runEquipmentAdd(cmd *cobra.Command, _ []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	clients, err := ws.st.Clients().GetAll()
	if err != nil {
		return err
	}

	e := equipmentInput
	if anyChanged(cmd, equipmentFlagNames...) {
		if e.ClientID, err = resolveClientRef(clients, e.ClientID); err != nil {
			return err
		}
	} else if err := equipmentForm(&e, clients, "Novo equipamento"); err != nil {
		return err
	}

	saved, err := ws.desk.SaveEquipment(e)
	if err != nil {
		return err
	}
	progressf("  Equipment %s saved (%s)\n", saved.Label(), shortID(saved.ID))
	return nil
}

func runEquipmentEdit(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	snap, err := ws.desk.Load()
	if err != nil {
		return err
	}
	e, err := matchID(snap.Equipment, "equipment", args[0])
	if err != nil {
		return err
	}

	if anyChanged(cmd, equipmentFlagNames...) {
		if err := applyEquipmentFlags(cmd, &e, snap.Clients); err != nil {
			return err
		}
	} else if err := equipmentForm(&e, snap.Clients, "Editar equipamento"); err != nil {
		return err
	}

	saved, err := ws.desk.SaveEquipment(e)
	if err != nil {
		return err
	}
	progressf("  Equipment %s updated\n", saved.Label())
	return nil
}

// resolveClientRef expands an ID prefix to a full client ID. A ref matching
// no client is kept as given; an empty ref is left for the desk to reject.
func resolveClientRef(clients []model.Client, ref string) (string, error) {
	return resolveRef(clients, "client", ref)
}

func resolveRef[T store.Record](records []T, kind, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", nil
	}
	r, err := matchID(records, kind, ref)
	if errors.Is(err, desk.ErrNotFound) {
		return strings.TrimSpace(ref), nil
	}
	if err != nil {
		return "", err
	}
	return r.RecordID(), nil
}

func applyEquipmentFlags(cmd *cobra.Command, e *model.Equipment, clients []model.Client) error {
	if cmd.Flags().Changed("client") {
		id, err := resolveClientRef(clients, equipmentInput.ClientID)
		if err != nil {
			return err
		}
		e.ClientID = id
	}
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("type", &e.Type, equipmentInput.Type)
	set("brand", &e.Brand, equipmentInput.Brand)
	set("model", &e.Model, equipmentInput.Model)
	set("serial", &e.SerialNumber, equipmentInput.SerialNumber)
	set("asset", &e.AssetNumber, equipmentInput.AssetNumber)
	set("year", &e.ManufacturingYear, equipmentInput.ManufacturingYear)
	set("location", &e.InstallationLocation, equipmentInput.InstallationLocation)
	set("condition", &e.Condition, equipmentInput.Condition)
	set("notes", &e.Notes, equipmentInput.Notes)
	return nil
}
