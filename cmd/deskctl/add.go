package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"nivesh/internal/form"
	"nivesh/internal/investment"
	"nivesh/internal/models"
)

// assignments collects repeated -set name=value flags in order.
type assignments []assignment

type assignment struct {
	name, value string
}

func (a *assignments) String() string {
	parts := make([]string, len(*a))
	for i, as := range *a {
		parts[i] = as.name + "=" + as.value
	}
	return strings.Join(parts, ",")
}

func (a *assignments) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	*a = append(*a, assignment{name: name, value: value})
	return nil
}

type addCmd struct {
	avenue     uint
	clientCode string
	kind       string
	startDate  string
	endDate    string
	accountNo  string
	folioNo    string
	values     assignments
	listFields bool
	dryRun     bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an investment" }
func (*addCmd) Usage() string {
	return `deskctl add -avenue <id> -client <code> -start <YYYY-MM-DD> [-set name=value ...]

  The avenue decides the investment type; -type overrides it. Use -fields
  to list the fields of the chosen type, and -dry-run to print the payload
  without sending it.

  Example:
    deskctl add -avenue 4 -client C001 -start 2024-01-01 \
      -set bank_name="HDFC Bank" -set principal=500000 -set interest_rate=7.5 \
      -set maturity_date=2025-01-01
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.UintVar(&c.avenue, "avenue", 0, "Investment avenue ID (see deskctl avenues)")
	f.StringVar(&c.clientCode, "client", "", "Client code")
	f.StringVar(&c.kind, "type", "", "Override the avenue's investment type")
	f.StringVar(&c.startDate, "start", "", "Start date, YYYY-MM-DD")
	f.StringVar(&c.endDate, "end", "", "End date, YYYY-MM-DD")
	f.StringVar(&c.accountNo, "account", "", "Account number")
	f.StringVar(&c.folioNo, "folio", "", "Folio number")
	f.Var(&c.values, "set", "Variant field as name=value; repeatable")
	f.BoolVar(&c.listFields, "fields", false, "List the fields for the chosen type and exit")
	f.BoolVar(&c.dryRun, "dry-run", false, "Print the submission instead of sending it")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.avenue == 0 {
		fmt.Fprintln(os.Stderr, "-avenue is required")
		return subcommands.ExitUsageError
	}
	a, status, ok := setup(!c.listFields && !c.dryRun)
	if !ok {
		return status
	}

	ctl := form.New(ctx, investment.NewAvenueRegistry(a.api), a.api, form.WithTimeout(a.cfg.RequestTimeout))
	fields, err := ctl.SelectAvenue(c.avenue)
	if err != nil {
		return a.fail(err)
	}
	if c.kind != "" {
		if fields, err = ctl.OverrideType(models.InvestmentType(c.kind)); err != nil {
			return a.fail(err)
		}
	}
	if c.listFields {
		printMarkdown(fieldsMarkdown(ctl.Tag(), fields))
		return subcommands.ExitSuccess
	}

	if err := c.fill(ctl); err != nil {
		return a.fail(err)
	}

	if c.dryRun {
		return c.printSubmission(a, ctl)
	}

	record, err := ctl.Submit(ctx)
	if err != nil {
		return a.fail(err)
	}
	h := investment.Derive(record)
	fmt.Printf("Recorded investment #%d for %s: %s %s (%s)\n",
		h.DetailID, h.ClientCode, h.Label, h.Name, investment.FormatINR(h.CurrentValue))
	return subcommands.ExitSuccess
}

// fill copies the flag values into the form.
func (c *addCmd) fill(ctl *form.Controller) error {
	common := []assignment{
		{"client_code", c.clientCode},
		{"start_date", c.startDate},
		{"end_date", c.endDate},
		{"account_no", c.accountNo},
		{"folio_no", c.folioNo},
	}
	for _, as := range append(common, c.values...) {
		if as.value == "" {
			continue
		}
		if err := ctl.Set(as.name, as.value); err != nil {
			return err
		}
	}
	return nil
}

func (c *addCmd) printSubmission(a *app, ctl *form.Controller) subcommands.ExitStatus {
	data := ctl.Data()
	avenues := ctl.Avenues()
	known := func(id uint) bool {
		_, ok := investment.Lookup(avenues, id)
		return ok
	}
	if err := investment.Validate(&data, known); err != nil {
		return a.fail(err)
	}
	sub, err := investment.Transform(data)
	if err != nil {
		return a.fail(err)
	}
	out, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return a.fail(err)
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}

type removeCmd struct {
	id uint
}

func (*removeCmd) Name() string     { return "rm" }
func (*removeCmd) Synopsis() string { return "delete an investment" }
func (*removeCmd) Usage() string {
	return `deskctl rm -id <detail_id>
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.UintVar(&c.id, "id", 0, "Detail ID of the investment")
}

func (c *removeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		fmt.Fprintln(os.Stderr, "-id is required")
		return subcommands.ExitUsageError
	}
	a, status, ok := setup(true)
	if !ok {
		return status
	}
	if err := a.api.DeleteInvestment(ctx, c.id); err != nil {
		return a.fail(err)
	}
	fmt.Println("Deleted investment #" + strconv.FormatUint(uint64(c.id), 10))
	return subcommands.ExitSuccess
}
