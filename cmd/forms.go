package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mproservicos/mpro/internal/cli"
	"github.com/mproservicos/mpro/internal/desk"
	"github.com/mproservicos/mpro/internal/model"
	"github.com/mproservicos/mpro/internal/pipeline"

	"github.com/charmbracelet/huh"
)

// errFormAborted is returned when the user leaves a form with ctrl+c or esc.
var errFormAborted = errors.New("cancelled")

func runForm(f *huh.Form) error {
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errFormAborted
		}
		return err
	}
	return nil
}

func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

func clientForm(c *model.Client, title string) error {
	return runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Razão social").Value(&c.Name).Validate(requiredField("name")),
			huh.NewInput().Title("Nome fantasia").Value(&c.TradingName),
			huh.NewInput().Title("CNPJ").Value(&c.CNPJ).Validate(requiredField("CNPJ")),
			huh.NewInput().Title("Inscrição estadual").Value(&c.StateRegistration),
		).Title(title),
		huh.NewGroup(
			huh.NewInput().Title("Endereço").Value(&c.Address),
			huh.NewInput().Title("Telefone").Value(&c.Phone),
			huh.NewInput().Title("E-mail").Value(&c.Email),
		).Title("Contato"),
	))
}

func clientOptions(clients []model.Client) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(clients))
	for _, c := range clients {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}
	return opts
}

func equipmentForm(e *model.Equipment, clients []model.Client, title string) error {
	if len(clients) == 0 {
		return errors.New("no clients registered; add one with `mpro clients add`")
	}
	return runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Cliente").Options(clientOptions(clients)...).Value(&e.ClientID),
			huh.NewInput().Title("Tipo").Placeholder("Compressor, chiller, motor...").Value(&e.Type),
			huh.NewInput().Title("Marca").Value(&e.Brand).Validate(requiredField("brand")),
			huh.NewInput().Title("Modelo").Value(&e.Model).Validate(requiredField("model")),
			huh.NewInput().Title("Número de série").Value(&e.SerialNumber).Validate(requiredField("serial number")),
		).Title(title),
		huh.NewGroup(
			huh.NewInput().Title("Patrimônio").Value(&e.AssetNumber),
			huh.NewInput().Title("Ano de fabricação").Value(&e.ManufacturingYear),
			huh.NewInput().Title("Local de instalação").Value(&e.InstallationLocation),
			huh.NewInput().Title("Estado de conservação").Value(&e.Condition),
			huh.NewText().Title("Observações").Value(&e.Notes),
		).Title("Detalhes"),
	))
}

// budgetForm edits dr in place. Existing line items can be removed or edited;
// new ones are added one at a time.
func budgetForm(dr *desk.Draft, snap desk.Snapshot, title string) error {
	if len(snap.Clients) == 0 {
		return errors.New("no clients registered; add one with `mpro clients add`")
	}

	err := runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Cliente").Options(clientOptions(snap.Clients)...).Value(&dr.ClientID),
			huh.NewSelect[string]().
				Title("Equipamento").
				OptionsFunc(func() []huh.Option[string] {
					var opts []huh.Option[string]
					for _, e := range pipeline.EquipmentForClient(snap.Equipment, dr.ClientID) {
						opts = append(opts, huh.NewOption(e.Label()+" ("+e.SerialNumber+")", e.ID))
					}
					return opts
				}, &dr.ClientID).
				Value(&dr.EquipmentID).
				Validate(requiredField("equipment")),
		).Title(title),
	))
	if err != nil {
		return err
	}

	if err := serviceLinesForm(dr); err != nil {
		return err
	}
	if err := materialLinesForm(dr); err != nil {
		return err
	}

	validity := strconv.Itoa(dr.ValidityDays)
	discount := formatEditAmount(dr.Discount)
	travel := formatEditAmount(dr.TravelFee)
	status := string(dr.Status)
	if status == "" {
		status = string(model.StatusAnalysis)
	}

	statusOpts := make([]huh.Option[string], 0, len(model.Statuses))
	for _, s := range model.Statuses {
		statusOpts = append(statusOpts, huh.NewOption(string(s), string(s)))
	}

	err = runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Deslocamento (R$)").Value(&travel).Validate(validAmount),
			huh.NewInput().Title("Desconto (R$)").Value(&discount).Validate(validAmount),
			huh.NewInput().Title("Condições de pagamento").Value(&dr.PaymentTerms),
			huh.NewInput().Title("Validade (dias)").Value(&validity).Validate(func(s string) error {
				if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
					return errors.New("validity must be a whole number of days")
				}
				return nil
			}),
			huh.NewText().Title("Observações técnicas").Value(&dr.TechnicalNotes),
			huh.NewSelect[string]().Title("Status").Options(statusOpts...).Value(&status),
		).Title("Condições"),
	))
	if err != nil {
		return err
	}

	dr.ValidityDays, _ = strconv.Atoi(strings.TrimSpace(validity))
	dr.Discount, _ = parseAmount(discount)
	dr.TravelFee, _ = parseAmount(travel)
	dr.Status = model.BudgetStatus(status)
	return nil
}

func serviceTypeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(model.ServiceTypes))
	for _, t := range model.ServiceTypes {
		opts = append(opts, huh.NewOption(string(t), string(t)))
	}
	return opts
}

// pickLines asks which of the existing lines to keep. All start selected.
func pickLines(title string, labels []string) ([]int, error) {
	keep := make([]int, len(labels))
	opts := make([]huh.Option[int], len(labels))
	for i, l := range labels {
		keep[i] = i
		opts[i] = huh.NewOption(l, i)
	}
	err := runForm(huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[int]().Title(title).Options(opts...).Value(&keep),
	)))
	return keep, err
}

func confirm(title string) (bool, error) {
	ok := false
	err := runForm(huh.NewForm(huh.NewGroup(huh.NewConfirm().Title(title).Value(&ok))))
	return ok, err
}

// editServiceLines lets the user drop existing services and change the rest.
func editServiceLines(dr *desk.Draft) error {
	if len(dr.Services) == 0 {
		return nil
	}
	labels := make([]string, len(dr.Services))
	for i, s := range dr.Services {
		labels[i] = fmt.Sprintf("%s (%s) %s", s.Description, s.Type, cli.FormatMoney(s.Price))
	}
	keep, err := pickLines("Serviços a manter", labels)
	if err != nil {
		return err
	}
	dr.Services = keepLines(dr.Services, keep)
	if len(dr.Services) == 0 {
		return nil
	}
	if edit, err := confirm("Editar serviços existentes?"); err != nil || !edit {
		return err
	}

	type fields struct{ desc, typ, price, hours string }
	rows := make([]fields, len(dr.Services))
	groups := make([]*huh.Group, len(dr.Services))
	for i, s := range dr.Services {
		rows[i] = fields{s.Description, string(s.Type), formatEditAmount(s.Price), formatEditAmount(s.EstimatedHours)}
		if rows[i].typ == "" {
			rows[i].typ = string(model.ServiceCorrective)
		}
		r := &rows[i]
		groups[i] = huh.NewGroup(
			huh.NewInput().Title("Descrição").Value(&r.desc),
			huh.NewSelect[string]().Title("Tipo").Options(serviceTypeOptions()...).Value(&r.typ),
			huh.NewInput().Title("Valor (R$)").Value(&r.price).Validate(validAmount),
			huh.NewInput().Title("Horas estimadas").Value(&r.hours).Validate(validAmount),
		).Title(fmt.Sprintf("Serviço %d de %d", i+1, len(rows)))
	}
	if err := runForm(huh.NewForm(groups...)); err != nil {
		return err
	}

	for i, r := range rows {
		s := &dr.Services[i]
		s.Description = strings.TrimSpace(r.desc)
		s.Type = model.ServiceType(r.typ)
		s.Price, _ = parseAmount(r.price)
		s.EstimatedHours, _ = parseAmount(r.hours)
	}
	return nil
}

// editMaterialLines lets the user drop existing parts and change the rest.
func editMaterialLines(dr *desk.Draft) error {
	if len(dr.Materials) == 0 {
		return nil
	}
	labels := make([]string, len(dr.Materials))
	for i, m := range dr.Materials {
		labels[i] = fmt.Sprintf("%s x%s %s", m.Description, cli.FormatQuantity(m.Quantity), cli.FormatMoney(m.UnitPrice))
	}
	keep, err := pickLines("Peças a manter", labels)
	if err != nil {
		return err
	}
	dr.Materials = keepLines(dr.Materials, keep)
	if len(dr.Materials) == 0 {
		return nil
	}
	if edit, err := confirm("Editar peças existentes?"); err != nil || !edit {
		return err
	}

	type fields struct{ desc, code, qty, unit string }
	rows := make([]fields, len(dr.Materials))
	groups := make([]*huh.Group, len(dr.Materials))
	for i, m := range dr.Materials {
		rows[i] = fields{m.Description, m.PartCode, formatEditAmount(m.Quantity), formatEditAmount(m.UnitPrice)}
		r := &rows[i]
		groups[i] = huh.NewGroup(
			huh.NewInput().Title("Descrição").Value(&r.desc),
			huh.NewInput().Title("Código").Value(&r.code),
			huh.NewInput().Title("Quantidade").Value(&r.qty).Validate(validAmount),
			huh.NewInput().Title("Valor unitário (R$)").Value(&r.unit).Validate(validAmount),
		).Title(fmt.Sprintf("Peça %d de %d", i+1, len(rows)))
	}
	if err := runForm(huh.NewForm(groups...)); err != nil {
		return err
	}

	for i, r := range rows {
		m := &dr.Materials[i]
		m.Description = strings.TrimSpace(r.desc)
		m.PartCode = strings.TrimSpace(r.code)
		m.Quantity, _ = parseAmount(r.qty)
		m.UnitPrice, _ = parseAmount(r.unit)
	}
	return nil
}

func serviceLinesForm(dr *desk.Draft) error {
	if err := editServiceLines(dr); err != nil {
		return err
	}

	for {
		more, err := confirm(fmt.Sprintf("Adicionar serviço? (%d no orçamento)", len(dr.Services)))
		if err != nil || !more {
			return err
		}

		var desc, price, hours string
		typ := string(model.ServiceCorrective)
		err = runForm(huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Descrição").Value(&desc),
			huh.NewSelect[string]().Title("Tipo").Options(serviceTypeOptions()...).Value(&typ),
			huh.NewInput().Title("Valor (R$)").Value(&price).Validate(validAmount),
			huh.NewInput().Title("Horas estimadas").Value(&hours).Validate(validAmount),
		).Title("Serviço")))
		if err != nil {
			return err
		}

		p, _ := parseAmount(price)
		h, _ := parseAmount(hours)
		dr.Services = append(dr.Services, model.ServiceItem{
			Description:    strings.TrimSpace(desc),
			Type:           model.ServiceType(typ),
			Price:          p,
			EstimatedHours: h,
		})
	}
}

func materialLinesForm(dr *desk.Draft) error {
	if err := editMaterialLines(dr); err != nil {
		return err
	}

	for {
		more, err := confirm(fmt.Sprintf("Adicionar peça? (%d no orçamento)", len(dr.Materials)))
		if err != nil || !more {
			return err
		}

		var desc, code, unit string
		qty := "1"
		err = runForm(huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Descrição").Value(&desc),
			huh.NewInput().Title("Código").Value(&code),
			huh.NewInput().Title("Quantidade").Value(&qty).Validate(validAmount),
			huh.NewInput().Title("Valor unitário (R$)").Value(&unit).Validate(validAmount),
		).Title("Peça")))
		if err != nil {
			return err
		}

		q, _ := parseAmount(qty)
		u, _ := parseAmount(unit)
		dr.Materials = append(dr.Materials, model.MaterialItem{
			Description: strings.TrimSpace(desc),
			Quantity:    q,
			UnitPrice:   u,
			PartCode:    strings.TrimSpace(code),
		})
	}
}
