package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"nivesh/internal/client"
	"nivesh/internal/investment"
	"nivesh/internal/models"
)

type avenuesCmd struct{}

func (*avenuesCmd) Name() string             { return "avenues" }
func (*avenuesCmd) Synopsis() string         { return "list investment avenues" }
func (*avenuesCmd) Usage() string            { return "deskctl avenues\n" }
func (*avenuesCmd) SetFlags(_ *flag.FlagSet) {}

func (*avenuesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status, ok := setup(false)
	if !ok {
		return status
	}
	// Same fallback as the form: the built-in list when the API is down.
	avenues := investment.NewAvenueRegistry(a.api).ListAvenues(ctx)
	printMarkdown(avenuesMarkdown(avenues))
	return subcommands.ExitSuccess
}

type clientsCmd struct {
	search string
}

func (*clientsCmd) Name() string     { return "clients" }
func (*clientsCmd) Synopsis() string { return "list clients" }
func (*clientsCmd) Usage() string {
	return `deskctl clients [-q <text>]

  Lists the client master, optionally filtered by name, code or PAN.
`
}

func (c *clientsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.search, "q", "", "Only clients whose name, code or PAN contains this text")
}

func (c *clientsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status, ok := setup(true)
	if !ok {
		return status
	}
	clients, err := a.api.ListClients(ctx)
	if err != nil {
		return a.fail(err)
	}
	printMarkdown(clientsMarkdown(filterClients(clients, c.search)))
	return subcommands.ExitSuccess
}

func filterClients(clients []models.Client, q string) []models.Client {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return clients
	}
	out := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.ClientName), q) ||
			strings.Contains(strings.ToLower(c.ClientCode), q) ||
			strings.Contains(strings.ToLower(c.PAN), q) {
			out = append(out, c)
		}
	}
	return out
}

type investmentsCmd struct {
	clientCode string
	kind       string
	search     string
}

func (*investmentsCmd) Name() string     { return "investments" }
func (*investmentsCmd) Synopsis() string { return "list investments with derived values" }
func (*investmentsCmd) Usage() string {
	return `deskctl investments [-client <code>] [-type <investment_type>] [-q <text>]
`
}

func (c *investmentsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.clientCode, "client", "", "Client code")
	f.StringVar(&c.kind, "type", "", "Investment type, e.g. fixed_deposit")
	f.StringVar(&c.search, "q", "", "Only holdings whose name or client contains this text")
}

func (c *investmentsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind := models.InvestmentType(c.kind)
	if kind != "" && !kind.Valid() {
		fmt.Fprintf(os.Stderr, "Unsupported investment type %q\n", c.kind)
		return subcommands.ExitUsageError
	}
	a, status, ok := setup(true)
	if !ok {
		return status
	}
	records, err := a.api.ListInvestments(ctx, client.InvestmentFilter{ClientCode: c.clientCode, InvestmentType: kind})
	if err != nil {
		return a.fail(err)
	}
	holdings := investment.Filter(investment.DeriveAll(records), c.search, "")
	printMarkdown(holdingsMarkdown(holdings))
	return subcommands.ExitSuccess
}

type summaryCmd struct{}

func (*summaryCmd) Name() string             { return "summary" }
func (*summaryCmd) Synopsis() string         { return "display the portfolio summary" }
func (*summaryCmd) Usage() string            { return "deskctl summary\n" }
func (*summaryCmd) SetFlags(_ *flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status, ok := setup(true)
	if !ok {
		return status
	}
	s, err := a.api.PortfolioSummary(ctx)
	if err != nil {
		return a.fail(err)
	}
	printMarkdown(summaryMarkdown(s))
	return subcommands.ExitSuccess
}

type maturitiesCmd struct {
	days int
}

func (*maturitiesCmd) Name() string     { return "maturities" }
func (*maturitiesCmd) Synopsis() string { return "list holdings maturing soon" }
func (*maturitiesCmd) Usage() string {
	return `deskctl maturities [-days <n>]
`
}

func (c *maturitiesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 60, "Look-ahead window in days")
}

func (c *maturitiesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.days < 1 {
		fmt.Fprintln(os.Stderr, "-days must be at least 1")
		return subcommands.ExitUsageError
	}
	a, status, ok := setup(true)
	if !ok {
		return status
	}
	ms, err := a.api.UpcomingMaturities(ctx, c.days)
	if err != nil {
		return a.fail(err)
	}
	printMarkdown(maturitiesMarkdown(c.days, ms))
	return subcommands.ExitSuccess
}
