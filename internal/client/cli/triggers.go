package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
)

// listTriggers shows one page of email triggers. Without arguments the
// previous filter and page are reloaded.
func (a *App) listTriggers(ctx context.Context, args []string) error {
	q := a.Triggers.Query()
	if len(args) > 0 {
		switch args[0] {
		case "all":
			q.Processed = nil
		case "pending":
			q.Processed = new(bool)
		case "processed":
			v := true
			q.Processed = &v
		default:
			return errUsage
		}
		q.Page = 1
	}
	if len(args) > 1 {
		p, err := strconv.Atoi(args[1])
		if err != nil || p <= 0 {
			return fmt.Errorf("%w: invalid page %q", errUsage, args[1])
		}
		q.Page = p
	}

	page, err := a.Triggers.Refresh(ctx, q)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Triggers))
	for _, t := range page.Triggers {
		state := "pending"
		if t.Processed {
			state = "processed"
		} else if t.ErrorMessage != "" {
			state = "failed: " + t.ErrorMessage
		}
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10), t.ReceivedAt.String(), t.From, t.Subject, state, idOrDash(t.VehicleID),
		})
	}
	table(a.out, "ID\tRECEIVED\tFROM\tSUBJECT\tSTATE\tCASE", rows)
	a.printf("Page %d of %d, %d triggers\n", page.CurrentPage, max(page.Pages, 1), page.Total)
	return nil
}

func (a *App) processTrigger(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	out, err := a.Triggers.Process(ctx, id)
	if err != nil {
		return err
	}
	a.printf("%s (case #%d)\n", out.Message, out.VehicleID)

	open, err := a.confirm(fmt.Sprintf("Open case #%d?", out.VehicleID))
	if err != nil || !open {
		return err
	}
	return a.showVehicle(ctx, []string{strconv.FormatInt(out.VehicleID, 10)})
}

func (a *App) checkNew(ctx context.Context, _ []string) error {
	res, err := a.Triggers.CheckNew(ctx)
	if err != nil {
		return err
	}
	a.println(res.Message)
	return nil
}

func (a *App) autoProcess(ctx context.Context, _ []string) error {
	res, err := a.Triggers.AutoProcess(ctx)
	if err != nil {
		return err
	}
	a.printf("%d processed, %d failed\n", res.Success, res.Failed)
	a.printAutoDetails(res.Details)
	return nil
}

func (a *App) printAutoDetails(details []models.AutoProcessDetail) {
	for _, d := range details {
		mark := "ok  "
		if !d.Success {
			mark = "fail"
		}
		a.printf("  %s #%d %s\n", mark, d.TriggerID, d.Message)
	}
}
