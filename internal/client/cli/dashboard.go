package cli

import (
	"context"
	"fmt"
	"strconv"
)

func (a *App) health(ctx context.Context, _ []string) error {
	h, err := a.Dashboard.Health(ctx)
	if err != nil {
		return err
	}
	a.printf("%s: %s\n", h.Status, orDash(h.Message))
	return nil
}

func (a *App) stats(ctx context.Context, _ []string) error {
	s, err := a.Dashboard.Stats(ctx)
	if err != nil {
		return err
	}
	a.printf("Total cases:   %d\n", s.TotalVehicles)
	a.printf("In progress:   %d\n", s.InProgress)
	a.printf("Submitted:     %d\n", s.Submitted)
	a.printf("Recovered:     %d\n", s.Recovered)
	a.printf("Lost:          %d\n", s.Lost)
	a.printf("Missing value: %.2f €\n", s.MissingValue)

	if len(s.ByBrand) > 0 {
		rows := make([][]string, 0, len(s.ByBrand))
		for _, b := range s.ByBrand {
			rows = append(rows, []string{b.Brand, strconv.Itoa(b.Count)})
		}
		a.println()
		table(a.out, "BRAND\tCASES", rows)
	}
	if len(s.ByStore) > 0 {
		rows := make([][]string, 0, len(s.ByStore))
		for _, st := range s.ByStore {
			rows = append(rows, []string{orDash(st.Store), strconv.Itoa(st.Count)})
		}
		a.println()
		table(a.out, "STORE\tCASES", rows)
	}
	return nil
}

func (a *App) report(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	r, err := a.Dashboard.Report(ctx, id)
	if err != nil {
		return err
	}

	a.printf("Case report #%d, generated %s by %s\n\n", r.Vehicle.ID, r.GeneratedAt, orDash(r.GeneratedBy))
	a.printVehicle(r.Vehicle)

	a.printf("\nTimeline (%d)\n", len(r.Timeline))
	for _, u := range r.Timeline {
		a.printf("  %s  %-12s %s%s\n", u.CreatedAt, u.Type, u.Description, location(u.Location))
	}
	a.printf("\nDocuments (%d)\n", len(r.Documents))
	for _, d := range r.Documents {
		a.printf("  #%d %s (%s) %s\n", d.ID, d.OriginalName, d.Type, d.UploadedAt)
	}
	return nil
}

func location(s string) string {
	if s == "" {
		return ""
	}
	return fmt.Sprintf(" @ %s", s)
}
