// Command catalogctl runs catalog maintenance against the configured database:
//
//	catalogctl seed [-admin-password pw]
//	catalogctl import -user admin_seller catalog.xlsx
//	catalogctl export -user admin_seller catalog.xlsx
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/exactmatch/internal/adapters/spreadsheet"
	"github.com/phenrril/exactmatch/internal/app"
	"github.com/phenrril/exactmatch/internal/domain"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: catalogctl <seed|import|export> [flags] [file.xlsx]")
	os.Exit(2)
}

func main() {
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if len(os.Args) < 2 {
		usage()
	}
	cmd, args := os.Args[1], os.Args[2:]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	user := fs.String("user", "admin_seller", "staff username the change is made as")
	adminPassword := fs.String("admin-password", "", "password for a newly created admin account (random when empty)")
	_ = fs.Parse(args)

	cfg, err := app.LoadConfig()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	db, err := app.OpenDB(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}
	a, err := app.NewApp(db, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create app")
	}
	if err := a.MigrateAndSeed(); err != nil {
		zlog.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx := context.Background()
	switch cmd {
	case "seed":
		res, err := a.Seed(ctx, *adminPassword)
		if err != nil {
			zlog.Fatal().Err(err).Msg("seed")
		}
		fmt.Printf("brands: %d new, categories: %d new, batteries: %d created %d updated\n",
			res.Brands, res.Categories, res.Batteries.Created, res.Batteries.Updated)
	case "import":
		err = importFile(ctx, a, *user, fs.Arg(0))
	case "export":
		err = exportFile(ctx, a, *user, fs.Arg(0))
	default:
		usage()
	}
	if err != nil {
		zlog.Fatal().Err(err).Msg(cmd)
	}
}

func staffActor(ctx context.Context, a *app.App, username string) (domain.Actor, error) {
	u, err := a.Users.FindByUsername(ctx, username)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("user %q: %w", username, err)
	}
	if !u.IsStaff {
		return domain.Actor{}, fmt.Errorf("user %q: %w", username, domain.ErrForbidden)
	}
	return u.Actor(), nil
}

func importFile(ctx context.Context, a *app.App, username, path string) error {
	if path == "" {
		return errors.New("missing file argument")
	}
	actor, err := staffActor(ctx, a, username)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := spreadsheet.ReadCatalog(f)
	if err != nil {
		return err
	}
	rep, err := a.CatalogUC.ImportCatalog(ctx, actor, rows)
	if err != nil {
		return err
	}
	fmt.Printf("created %d, updated %d, rejected %d\n", rep.Created, rep.Updated, len(rep.Errors))
	for _, e := range rep.Errors {
		fmt.Printf("  line %d: %s\n", e.Line, e.Err)
	}
	return nil
}

func exportFile(ctx context.Context, a *app.App, username, path string) error {
	if path == "" {
		return errors.New("missing file argument")
	}
	actor, err := staffActor(ctx, a, username)
	if err != nil {
		return err
	}
	list, err := a.CatalogUC.ExportCatalog(ctx, actor)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := spreadsheet.WriteCatalog(w, list); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported %d batteries to %s\n", len(list), path)
	return nil
}
