package main

import (
	"context"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/astba/console/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login     commands.LoginCmd     `cmd:"" help:"Sign in to the ASTBA console"`
		Logout    commands.LogoutCmd    `cmd:"" help:"Sign out and clear the local session"`
		Whoami    commands.WhoamiCmd    `cmd:"" help:"Show the current identity, role and permissions"`
		Dashboard commands.DashboardCmd `cmd:"" help:"Show console statistics"`
		Users     commands.UsersCmd     `cmd:"" help:"Manage staff accounts"`
		Messages  commands.MessagesCmd  `cmd:"" help:"Staff messaging"`
		Audit     commands.AuditCmd     `cmd:"" help:"Browse the audit trail"`
		Jobs      commands.JobsCmd      `cmd:"" help:"Review hiring applications"`
		Apply     commands.ApplyCmd     `cmd:"" help:"Submit a public job application"`
		Signup    commands.SignupCmd    `cmd:"" help:"Submit a public student signup"`
		Debug     bool                  `help:"Enable debug mode."`
		Version   kong.VersionFlag
	}
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	if cli.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
