// Command deskctl is the advisor's terminal client for the Nivesh API. It
// signs in, browses clients and avenues, records investments through the
// same form pipeline the dashboard uses, and prints portfolio reports.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"

	"nivesh/internal/config"
	"nivesh/internal/logger"
)

var (
	configPath = flag.String("config", config.DefaultDeskPath(), "Path to the deskctl TOML profile")
	plain      = flag.Bool("plain", false, "Print raw markdown instead of styled output")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&loginCmd{}, "session")
	commander.Register(&logoutCmd{}, "session")
	commander.Register(&whoamiCmd{}, "session")

	commander.Register(&avenuesCmd{}, "browse")
	commander.Register(&clientsCmd{}, "browse")
	commander.Register(&investmentsCmd{}, "browse")

	commander.Register(&addCmd{}, "investments")
	commander.Register(&removeCmd{}, "investments")

	commander.Register(&summaryCmd{}, "reports")
	commander.Register(&maturitiesCmd{}, "reports")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	logger.Sync()
	os.Exit(int(status))
}
