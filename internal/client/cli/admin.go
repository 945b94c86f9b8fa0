package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/client/services"
)

// refKind describes how the REPL lists and edits one reference entity.
type refKind[T models.Reference] struct {
	plural   string
	singular string
	mgr      *services.RefManager[T]
	// filterKey, when set, is the query parameter of the optional list argument.
	filterKey string
	header    string
	row       func(T) []string
	// edit prompts for the fields of v and returns the result.
	edit func(v T) (T, error)
}

// refCommands returns the list, add, edit and delete commands of k. All of
// them are admin-only.
func refCommands[T models.Reference](a *App, k refKind[T]) []command {
	listArgs := ""
	if k.filterKey != "" {
		listArgs = "[" + k.filterKey + "]"
	}
	return []command{
		{name: k.plural, args: listArgs, help: "list " + k.plural, admin: true,
			run: func(ctx context.Context, args []string) error {
				var filter url.Values
				if len(args) > 0 && k.filterKey != "" {
					id, err := argID(args, 0)
					if err != nil {
						return err
					}
					filter = url.Values{k.filterKey: {strconv.FormatInt(id, 10)}}
				}
				items, err := k.mgr.Load(ctx, filter)
				if err != nil {
					return err
				}
				printRefs(a, k, items)
				return nil
			}},
		{name: "add" + k.singular, help: "create a " + k.singular, admin: true,
			run: func(ctx context.Context, _ []string) error {
				var zero T
				v, err := k.edit(zero)
				if err != nil {
					return err
				}
				created, err := k.mgr.Create(ctx, v)
				if err != nil {
					return err
				}
				a.printf("Created %s #%d\n", k.singular, created.RefID())
				return nil
			}},
		{name: "edit" + k.singular, args: "<id>", help: "edit a " + k.singular, admin: true,
			run: func(ctx context.Context, args []string) error {
				id, err := argID(args, 0)
				if err != nil {
					return err
				}
				cur, err := findRef(ctx, k.mgr, id)
				if err != nil {
					return err
				}
				v, err := k.edit(cur)
				if err != nil {
					return err
				}
				if _, err := k.mgr.Update(ctx, id, v); err != nil {
					return err
				}
				a.printf("Updated %s #%d\n", k.singular, id)
				return nil
			}},
		{name: "del" + k.singular, args: "<id>", help: "delete a " + k.singular, admin: true,
			run: func(ctx context.Context, args []string) error {
				id, err := argID(args, 0)
				if err != nil {
					return err
				}
				msg, err := k.mgr.Delete(ctx, id)
				if err != nil {
					return err
				}
				if msg == "" {
					msg = fmt.Sprintf("Deleted %s #%d", k.singular, id)
				}
				a.println(msg)
				return nil
			}},
	}
}

// findRef looks id up in the displayed list, loading it on a miss.
func findRef[T models.Reference](ctx context.Context, m *services.RefManager[T], id int64) (T, error) {
	if v, ok := m.Find(id); ok {
		return v, nil
	}
	if _, err := m.Reload(ctx); err != nil {
		var zero T
		return zero, err
	}
	if v, ok := m.Find(id); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: #%d", services.ErrNotLoaded, id)
}

func printRefs[T models.Reference](a *App, k refKind[T], items []T) {
	if len(items) == 0 {
		a.printf("No %s\n", k.plural)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, k.row(it))
	}
	table(a.out, k.header, rows)
}

// field prompts for one value. With a non-empty current value an empty
// answer keeps it.
func (a *App) field(prompt, current string) (string, error) {
	if current == "" {
		return a.ask(prompt)
	}
	v, err := a.askChange(prompt, current)
	if err != nil || v == nil {
		return current, err
	}
	return *v, nil
}

func (a *App) idField(prompt string, current int64) (int64, error) {
	cur := ""
	if current > 0 {
		cur = strconv.FormatInt(current, 10)
	}
	v, err := a.field(prompt, cur)
	if err != nil {
		return 0, err
	}
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", models.ErrInvalid, v)
	}
	return id, nil
}

func (a *App) activeField(current bool, isNew bool) (bool, error) {
	if isNew {
		return true, nil
	}
	v, err := a.field("Active (yes/no)", yesNo(current))
	if err != nil {
		return current, err
	}
	b, err := parseBool(v)
	if err != nil {
		return current, err
	}
	return *b, nil
}

func brandKind(a *App) refKind[models.CarBrand] {
	return refKind[models.CarBrand]{
		plural: "brands", singular: "brand", mgr: a.Brands,
		header: "ID\tNAME\tACTIVE",
		row: func(b models.CarBrand) []string {
			return []string{strconv.FormatInt(b.ID, 10), b.Name, yesNo(b.IsActive)}
		},
		edit: func(b models.CarBrand) (models.CarBrand, error) {
			var err error
			if b.Name, err = a.field("Brand name", b.Name); err != nil {
				return b, err
			}
			b.IsActive, err = a.activeField(b.IsActive, b.ID == 0)
			return b, err
		},
	}
}

func carModelKind(a *App) refKind[models.CarModel] {
	return refKind[models.CarModel]{
		plural: "models", singular: "model", mgr: a.CarModels, filterKey: "brand_id",
		header: "ID\tNAME\tBRAND\tACTIVE\tDESCRIPTION",
		row: func(m models.CarModel) []string {
			brand := m.BrandName
			if brand == "" {
				brand = "#" + strconv.FormatInt(m.BrandID, 10)
			}
			return []string{strconv.FormatInt(m.ID, 10), m.Name, brand, yesNo(m.IsActive), orDash(m.Description)}
		},
		edit: func(m models.CarModel) (models.CarModel, error) {
			var err error
			if m.Name, err = a.field("Model name", m.Name); err != nil {
				return m, err
			}
			if m.BrandID, err = a.idField("Brand id", m.BrandID); err != nil {
				return m, err
			}
			if m.Description, err = a.field("Description", m.Description); err != nil {
				return m, err
			}
			m.IsActive, err = a.activeField(m.IsActive, m.ID == 0)
			return m, err
		},
	}
}

func companyKind(a *App) refKind[models.RentACar] {
	return refKind[models.RentACar]{
		plural: "companies", singular: "company", mgr: a.Companies,
		header: "ID\tNAME\tEMAIL\tPHONE\tNIF\tACTIVE",
		row: func(r models.RentACar) []string {
			return []string{strconv.FormatInt(r.ID, 10), r.Name, orDash(r.Email), orDash(r.Phone), orDash(r.NIF), yesNo(r.IsActive)}
		},
		edit: func(r models.RentACar) (models.RentACar, error) {
			var err error
			for _, f := range []struct {
				prompt string
				dst    *string
			}{
				{"Company name", &r.Name},
				{"Contact email", &r.Email},
				{"Contact phone", &r.Phone},
				{"Address", &r.Address},
				{"NIF", &r.NIF},
			} {
				if *f.dst, err = a.field(f.prompt, *f.dst); err != nil {
					return r, err
				}
			}
			r.IsActive, err = a.activeField(r.IsActive, r.ID == 0)
			return r, err
		},
	}
}

func locationKind(a *App) refKind[models.StoreLocation] {
	return refKind[models.StoreLocation]{
		plural: "locations", singular: "location", mgr: a.Locations, filterKey: "rent_a_car_id",
		header: "ID\tNAME\tCOMPANY\tCITY\tPHONE\tACTIVE",
		row: func(s models.StoreLocation) []string {
			company := s.RentACarName
			if company == "" {
				company = "#" + strconv.FormatInt(s.RentACarID, 10)
			}
			return []string{strconv.FormatInt(s.ID, 10), s.Name, company, orDash(s.City), orDash(s.Phone), yesNo(s.IsActive)}
		},
		edit: func(s models.StoreLocation) (models.StoreLocation, error) {
			var err error
			if s.Name, err = a.field("Location name", s.Name); err != nil {
				return s, err
			}
			if s.RentACarID, err = a.idField("Company id", s.RentACarID); err != nil {
				return s, err
			}
			for _, f := range []struct {
				prompt string
				dst    *string
			}{
				{"Address", &s.Address},
				{"City", &s.City},
				{"Postal code", &s.PostalCode},
				{"Country", &s.Country},
				{"Phone", &s.Phone},
				{"Email", &s.Email},
				{"Opening hours", &s.OpeningHours},
			} {
				if *f.dst, err = a.field(f.prompt, *f.dst); err != nil {
					return s, err
				}
			}
			s.IsActive, err = a.activeField(s.IsActive, s.ID == 0)
			return s, err
		},
	}
}
