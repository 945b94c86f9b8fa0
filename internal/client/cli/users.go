package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
)

func (a *App) listUsers(ctx context.Context, _ []string) error {
	users, err := a.Users.List(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10), u.Username, orDash(u.Email), u.Role.Label(), yesNo(u.IsActive), u.LastLogin.String(),
		})
	}
	table(a.out, "ID\tUSERNAME\tEMAIL\tROLE\tACTIVE\tLAST LOGIN", rows)
	return nil
}

func (a *App) addUser(ctx context.Context, _ []string) error {
	var (
		in  models.NewUser
		err error
	)
	if in.Username, err = a.ask("Username"); err != nil {
		return err
	}
	if in.Email, err = a.ask("Email"); err != nil {
		return err
	}
	role, err := a.ask("Role (admin, operador, visualizador) [operador]")
	if err != nil {
		return err
	}
	if role == "" {
		role = string(models.RoleOperator)
	}
	in.Role = models.Role(role)
	if in.Password, err = a.askSecret("Password"); err != nil {
		return err
	}

	res, err := a.Users.Register(ctx, in)
	if err != nil {
		return err
	}
	if res.User != nil {
		a.printf("%s (#%d)\n", res.Message, res.User.ID)
		return nil
	}
	a.println(res.Message)
	return nil
}

func (a *App) toggleUser(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	res, err := a.Users.ToggleStatus(ctx, id)
	if err != nil {
		return err
	}
	a.println(res.Message)
	return nil
}

func (a *App) deleteUser(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	ok, err := a.confirm(fmt.Sprintf("Delete user #%d?", id))
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled")
		return nil
	}
	msg, err := a.Users.Delete(ctx, id)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}
