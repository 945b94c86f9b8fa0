package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/timex"
)

// vehicleField is one prompted attribute of a case.
type vehicleField struct {
	label string
	get   func(v models.Vehicle) string
	set   func(in *models.VehicleInput, s string) error
}

func text(dst func(in *models.VehicleInput) **string) func(*models.VehicleInput, string) error {
	return func(in *models.VehicleInput, s string) error {
		*dst(in) = &s
		return nil
	}
}

func stamp(ts timex.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(timex.WireLayout)
}

var vehicleFields = []vehicleField{
	{"Plate (matricula)", func(v models.Vehicle) string { return v.Plate },
		text(func(in *models.VehicleInput) **string { return &in.Plate })},
	{"Brand", func(v models.Vehicle) string { return v.Brand },
		text(func(in *models.VehicleInput) **string { return &in.Brand })},
	{"Model", func(v models.Vehicle) string { return v.Model },
		text(func(in *models.VehicleInput) **string { return &in.Model })},
	{"VIN", func(v models.Vehicle) string { return v.VIN },
		text(func(in *models.VehicleInput) **string { return &in.VIN })},
	{"Value (EUR)", func(v models.Vehicle) string {
		if v.Value == nil {
			return ""
		}
		return strconv.FormatFloat(*v.Value, 'f', -1, 64)
	}, func(in *models.VehicleInput, s string) error {
		v, err := parseFloat(s)
		in.Value = v
		return err
	}},
	{"Status (em_tratamento, submetido, recuperado, perdido)", func(v models.Vehicle) string { return string(v.Status) },
		func(in *models.VehicleInput, s string) error {
			st := models.VehicleStatus(strings.ToLower(s))
			in.Status = &st
			return nil
		}},
	{"Disappeared at (YYYY-MM-DD HH:MM)", func(v models.Vehicle) string { return stamp(v.DisappearedAt) },
		func(in *models.VehicleInput, s string) error {
			ts, err := timex.ParseTime(s)
			in.DisappearedAt = &ts
			return err
		}},
	{"Police report filed (yes/no)", func(v models.Vehicle) string { return yesNo(v.PoliceReport) },
		func(in *models.VehicleInput, s string) error {
			b, err := parseBool(s)
			in.PoliceReport = b
			return err
		}},
	{"Police report number", func(v models.Vehicle) string { return v.PoliceReportNumber },
		text(func(in *models.VehicleInput) **string { return &in.PoliceReportNumber })},
	{"GPS active (yes/no)", func(v models.Vehicle) string { return yesNo(v.GPSActive) },
		func(in *models.VehicleInput, s string) error {
			b, err := parseBool(s)
			in.GPSActive = b
			return err
		}},
	{"Rental store", func(v models.Vehicle) string { return v.RentalStore },
		text(func(in *models.VehicleInput) **string { return &in.RentalStore })},
	{"Client name", func(v models.Vehicle) string { return v.ClientName },
		text(func(in *models.VehicleInput) **string { return &in.ClientName })},
	{"Client contact", func(v models.Vehicle) string { return v.ClientContact },
		text(func(in *models.VehicleInput) **string { return &in.ClientContact })},
	{"Client email", func(v models.Vehicle) string { return v.ClientEmail },
		text(func(in *models.VehicleInput) **string { return &in.ClientEmail })},
	{"Notes", func(v models.Vehicle) string { return v.Notes },
		text(func(in *models.VehicleInput) **string { return &in.Notes })},
}

func (a *App) listVehicles(ctx context.Context, args []string) error {
	var f models.VehicleFilter
	if len(args) > 0 {
		st := models.VehicleStatus(strings.ToLower(args[0]))
		if !st.Valid() {
			return fmt.Errorf("%w: unknown status %q", models.ErrInvalid, args[0])
		}
		f.Status = st
	}

	vs, err := a.Vehicles.List(ctx, f)
	if err != nil {
		return err
	}
	if len(vs) == 0 {
		a.println("No cases")
		return nil
	}

	rows := make([][]string, 0, len(vs))
	for _, v := range vs {
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10), v.Plate, v.Brand, orDash(v.Model),
			v.Status.Label(), orDash(v.RentalStore), v.DisappearedAt.String(),
		})
	}
	table(a.out, "ID\tPLATE\tBRAND\tMODEL\tSTATUS\tSTORE\tDISAPPEARED", rows)
	return nil
}

func (a *App) printVehicle(v models.Vehicle) {
	a.printf("Case #%d  %s  %s %s\n", v.ID, v.Plate, v.Brand, v.Model)
	a.printf("  Status:        %s\n", v.Status.Label())
	a.printf("  VIN:           %s\n", orDash(v.VIN))
	a.printf("  Value:         %s\n", money(v.Value))
	a.printf("  Store:         %s\n", orDash(v.RentalStore))
	a.printf("  Police report: %s %s\n", yesNo(v.PoliceReport), v.PoliceReportNumber)
	a.printf("  GPS active:    %s\n", yesNo(v.GPSActive))
	a.printf("  Disappeared:   %s\n", v.DisappearedAt)
	a.printf("  Submitted:     %s\n", v.SubmittedAt)
	a.printf("  Recovered:     %s\n", v.RecoveredAt)
	a.printf("  Client:        %s %s %s\n", orDash(v.ClientName), v.ClientContact, v.ClientEmail)
	if v.Notes != "" {
		a.printf("  Notes:         %s\n", v.Notes)
	}
}

func (a *App) showVehicle(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	d, err := a.Vehicles.Get(ctx, id)
	if err != nil {
		return err
	}

	a.printVehicle(d.Vehicle)
	a.printf("\nTimeline (%d)\n", len(d.Updates))
	for _, u := range d.Updates {
		a.printf("  #%d %s  %-12s %s%s\n", u.ID, u.CreatedAt, u.Type, u.Description, location(u.Location))
	}
	a.printf("\nDocuments (%d)\n", len(d.Documents))
	for _, doc := range d.Documents {
		a.printf("  #%d %s (%s)\n", doc.ID, doc.OriginalName, doc.Type)
	}
	return nil
}

func (a *App) findPlate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	v, err := a.Vehicles.ByPlate(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	a.printVehicle(v)
	return nil
}

func (a *App) addVehicle(ctx context.Context, _ []string) error {
	var in models.VehicleInput
	for _, f := range vehicleFields {
		v, err := a.askOptional(f.label)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		if err := f.set(&in, *v); err != nil {
			return err
		}
	}

	v, err := a.Vehicles.Create(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Case #%d created for %s\n", v.ID, v.Plate)
	return nil
}

// editVehicle prompts every field with its current value and sends only the
// changed ones.
func (a *App) editVehicle(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	d, err := a.Vehicles.Get(ctx, id)
	if err != nil {
		return err
	}

	var (
		in      models.VehicleInput
		changed bool
	)
	for _, f := range vehicleFields {
		v, err := a.askChange(f.label, f.get(d.Vehicle))
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		if err := f.set(&in, *v); err != nil {
			return err
		}
		changed = true
	}
	if !changed {
		a.println("Nothing to change")
		return nil
	}

	v, err := a.Vehicles.Update(ctx, id, in)
	if err != nil {
		return err
	}
	a.printf("Case #%d updated (%s)\n", v.ID, v.Status.Label())
	return nil
}

func (a *App) deleteVehicle(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	ok, err := a.confirm(fmt.Sprintf("Delete case #%d?", id))
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled")
		return nil
	}
	if err := a.Vehicles.Delete(ctx, id); err != nil {
		return err
	}
	a.printf("Case #%d deleted\n", id)
	return nil
}

func (a *App) addUpdate(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}

	kind, err := a.ask("Type (observacao, localizacao, acao, contacto) [observacao]")
	if err != nil {
		return err
	}
	if kind == "" {
		kind = string(models.UpdateObservation)
	}
	desc, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	loc, err := a.ask("Location (optional)")
	if err != nil {
		return err
	}

	u, err := a.Vehicles.AddUpdate(ctx, id, models.UpdateInput{
		Description: desc,
		Type:        models.UpdateType(strings.ToLower(kind)),
		Location:    loc,
	})
	if err != nil {
		return err
	}
	a.printf("Update #%d added to case #%d\n", u.ID, id)
	return nil
}

func (a *App) deleteUpdate(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	updateID, err := argID(args, 1)
	if err != nil {
		return err
	}
	if err := a.Vehicles.DeleteUpdate(ctx, id, updateID); err != nil {
		return err
	}
	a.printf("Update #%d deleted\n", updateID)
	return nil
}

func (a *App) listDocuments(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	docs, err := a.Vehicles.Documents(ctx, id)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		a.println("No documents")
		return nil
	}
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		size := "-"
		if d.Size != nil {
			size = strconv.FormatInt(*d.Size, 10)
		}
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10), d.OriginalName, d.Type, size, orDash(d.Origin), d.UploadedAt.String(),
		})
	}
	table(a.out, "ID\tNAME\tTYPE\tBYTES\tORIGIN\tUPLOADED", rows)
	return nil
}

func (a *App) documentTypes(ctx context.Context, _ []string) error {
	types, err := a.Vehicles.DocumentTypes(ctx)
	if err != nil {
		return err
	}
	a.println(strings.Join(types, ", "))
	return nil
}

func (a *App) download(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	path, err := a.Vehicles.Download(ctx, id, a.DownloadDir)
	if err != nil {
		return err
	}
	a.printf("Saved %s\n", path)
	return nil
}
