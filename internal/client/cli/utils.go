package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/recoverydesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askChange prompts with the current value shown. An empty answer keeps it
// and returns nil.
func (a *App) askChange(prompt, current string) (*string, error) {
	v, err := a.ask(fmt.Sprintf("%s [%s]", prompt, current))
	if err != nil || v == "" || v == current {
		return nil, err
	}
	return &v, nil
}

// askOptional returns nil for an empty answer.
func (a *App) askOptional(prompt string) (*string, error) {
	v, err := a.ask(prompt)
	if err != nil || v == "" {
		return nil, err
	}
	return &v, nil
}

// askSecret reads a password and returns it as a string. The raw bytes are
// wiped.
func (a *App) askSecret(prompt string) (string, error) {
	pw, err := getPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// confirm asks a yes/no question; only "y" or "yes" confirm.
func (a *App) confirm(prompt string) (bool, error) {
	v, err := a.ask(prompt + " (yes/no)")
	if err != nil {
		return false, err
	}
	v = strings.ToLower(v)
	return v == "y" || v == "yes", nil
}

// argID parses args[i] as a positive id.
func argID(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errUsage, args[i])
	}
	return id, nil
}

func parseFloat(s string) (*float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return &v, nil
}

func parseBool(s string) (*bool, error) {
	var v bool
	switch strings.ToLower(s) {
	case "y", "yes", "true", "sim", "s":
		v = true
	case "n", "no", "false", "nao", "não":
	default:
		return nil, fmt.Errorf("invalid yes/no answer %q", s)
	}
	return &v, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f €", *v)
}

func idOrDash(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

// table writes tab-separated rows aligned in columns.
func table(w io.Writer, header string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}
