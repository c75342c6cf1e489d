package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"nivesh/internal/investment"
	"nivesh/internal/models"
)

const wordWrap = 120

// printMarkdown renders md for the terminal, or prints it raw with -plain
// or when styling fails.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wordWrap))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not style output: %v\n", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func table(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func dateCell(d *models.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.String()
}

func avenuesMarkdown(avenues []models.InvestmentAvenue) string {
	var b strings.Builder
	b.WriteString("# Investment avenues\n\n")
	rows := make([][]string, 0, len(avenues))
	for _, a := range avenues {
		rows = append(rows, []string{strconv.FormatUint(uint64(a.AvenueID), 10), a.AvenueName, string(a.InvestmentType)})
	}
	table(&b, []string{"ID", "Avenue", "Type"}, rows)
	return b.String()
}

func clientsMarkdown(clients []models.Client) string {
	var b strings.Builder
	b.WriteString("# Clients\n\n")
	if len(clients) == 0 {
		b.WriteString("No clients found.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		status := "active"
		if !c.IsActive {
			status = "inactive"
		}
		rows = append(rows, []string{c.ClientCode, c.ClientName, c.GroupName, c.PAN, c.Mobile, status})
	}
	table(&b, []string{"Code", "Name", "Group", "PAN", "Mobile", "Status"}, rows)
	return b.String()
}

func holdingsMarkdown(holdings []investment.Holding) string {
	var b strings.Builder
	b.WriteString("# Investments\n\n")
	if len(holdings) == 0 {
		b.WriteString("No investments found.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(h.DetailID), 10),
			h.ClientCode,
			h.Label,
			h.Name,
			investment.FormatINR(h.PurchaseValue),
			investment.FormatINR(h.CurrentValue),
			investment.FormatPct(h.ReturnPct),
			dateCell(h.MaturityDate),
		})
	}
	table(&b, []string{"ID", "Client", "Type", "Name", "Invested", "Current", "Return", "Matures"}, rows)
	return b.String()
}

func summaryMarkdown(s *investment.Summary) string {
	var b strings.Builder
	b.WriteString("# Portfolio summary\n\n")
	fmt.Fprintf(&b, "* **Holdings:** %d across %d clients\n", s.Holdings, s.Clients)
	fmt.Fprintf(&b, "* **Invested:** %s\n", investment.FormatINR(s.PurchaseValue))
	fmt.Fprintf(&b, "* **Current value:** %s\n", investment.FormatINR(s.CurrentValue))
	fmt.Fprintf(&b, "* **Return:** %s (%s)\n\n", investment.FormatINR(s.ReturnAmount), investment.FormatPct(s.ReturnPct))
	if len(s.ByType) == 0 {
		return b.String()
	}
	b.WriteString("## Allocation\n\n")
	rows := make([][]string, 0, len(s.ByType))
	for _, t := range s.ByType {
		rows = append(rows, []string{t.Label, strconv.Itoa(t.Count), investment.FormatINR(t.CurrentValue), t.SharePct.StringFixed(1) + "%"})
	}
	table(&b, []string{"Type", "Count", "Value", "Share"}, rows)
	return b.String()
}

func maturitiesMarkdown(days int, ms []investment.Maturity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Maturing in the next %d days\n\n", days)
	if len(ms) == 0 {
		b.WriteString("Nothing matures in this window.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{
			m.MaturityDate.String(),
			strconv.Itoa(m.DaysLeft),
			m.ClientCode,
			m.Name,
			investment.FormatINR(m.Amount),
		})
	}
	table(&b, []string{"Date", "Days", "Client", "Holding", "Amount"}, rows)
	return b.String()
}

func fieldsMarkdown(t models.InvestmentType, fields []investment.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Fields for %s\n\n", t)
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		req := ""
		if f.Required {
			req = "yes"
		}
		rows = append(rows, []string{f.Name, f.Label, string(f.Kind), req, strings.Join(f.Options, ", ")})
	}
	table(&b, []string{"Name", "Label", "Kind", "Required", "Options"}, rows)
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
