package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/heartmarshall/zinote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/zinote-backend/internal/app"
	"github.com/heartmarshall/zinote-backend/internal/auth"
	"github.com/heartmarshall/zinote-backend/internal/config"
	"github.com/heartmarshall/zinote-backend/internal/domain"
	"github.com/heartmarshall/zinote-backend/internal/service/dictionary"
	"github.com/heartmarshall/zinote-backend/internal/service/impex"
	"github.com/heartmarshall/zinote-backend/pkg/ctxutil"
)

func collectionFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "collection",
		Aliases:  []string{"c"},
		Usage:    "collection name, e.g. health_dictionary",
		Required: true,
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "file format: basic|matecat|smartcat + csv|xlsx, e.g. matecat-xlsx",
		Value:   "basic-csv",
	}
}

func actorFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "actor",
		Usage:   "identity stamped on written records",
		Sources: cli.EnvVars("ZINOTE_ACTOR"),
	}
}

func newCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "zinotectl",
		Usage:     "Manage zinote dictionary collections",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to config.yaml",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Apply PostgreSQL schema migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runMigrate(ctx, out, cmd.String("config"))
				},
			},
			{
				Name:      "import",
				Usage:     "Import a CSV or spreadsheet file into a collection",
				ArgsUsage: "FILE",
				Flags:     []cli.Flag{collectionFlag(), formatFlag(), actorFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runImport(ctx, out, cmd.String("config"), cmd.String("collection"), cmd.String("format"), cmd.String("actor"), cmd.Args().First())
				},
			},
			{
				Name:  "export",
				Usage: "Export a collection to a CSV or spreadsheet file",
				Flags: []cli.Flag{
					collectionFlag(),
					formatFlag(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory", Value: "."},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runExport(ctx, out, cmd.String("config"), cmd.String("collection"), cmd.String("format"), cmd.String("out"))
				},
			},
			{
				Name:  "token",
				Usage: "Issue a bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "actor", Usage: "actor id", Value: auth.GuestID},
					&cli.StringFlag{Name: "email", Usage: "actor email"},
					&cli.BoolFlag{Name: "guest", Usage: "issue a read-only guest token"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runToken(out, cmd.String("config"), ctxutil.Actor{
						ID:    cmd.String("actor"),
						Email: cmd.String("email"),
						Guest: cmd.Bool("guest"),
					})
				},
			},
			{
				Name:      "search",
				Usage:     "Search a collection by source term",
				ArgsUsage: "[QUERY]",
				Flags: []cli.Flag{
					collectionFlag(),
					&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "read queries line by line from stdin"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Bool("interactive") {
						return runInteractiveSearch(ctx, in, out, cmd.String("config"), cmd.String("collection"))
					}
					return runSearch(ctx, out, cmd.String("config"), cmd.String("collection"), cmd.Args().First())
				},
			},
		},
	}
}

// env is the loaded configuration plus a dictionary service over the
// configured store.
type env struct {
	cfg   *config.Config
	log   *slog.Logger
	store *app.Store
	dict  *dictionary.Service
}

func openEnv(ctx context.Context, cfgPath, actor string) (*env, error) {
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		return nil, err
	}
	log := app.NewLogger(cfg.Log)

	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if store.Driver == config.DriverMemory {
		log.Warn("running against the in-memory store, nothing will persist")
	}

	dict := dictionary.NewService(log, store, nil, auth.StaticIdentity(actor), cfg.Dictionary)
	return &env{cfg: cfg, log: log, store: store, dict: dict}, nil
}

func (e *env) close() {
	if err := e.store.Close(context.Background()); err != nil {
		e.log.Error("close store", slog.String("error", err.Error()))
	}
}

func runMigrate(ctx context.Context, out io.Writer, cfgPath string) error {
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		return err
	}

	creds, err := config.ResolveCredentials(cfg.Store)
	switch {
	case err == nil:
		creds.Apply(cfg)
	case errors.Is(err, domain.ErrConfigurationMissing) && cfg.Database.DSN != "":
	default:
		return err
	}

	n, err := postgres.Migrate(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "applied %d migration(s)\n", n)
	return nil
}

func runImport(ctx context.Context, out io.Writer, cfgPath, collection, format, actor, path string) error {
	if path == "" {
		return errors.New("import: FILE argument is required")
	}
	f, err := impex.ParseFormat(format)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer file.Close()

	e, err := openEnv(ctx, cfgPath, actor)
	if err != nil {
		return err
	}
	defer e.close()

	res, err := impex.NewService(e.log, e.dict).Import(ctx, collection, f, file)
	if impex.IsHeaderError(err) {
		return fmt.Errorf("import: %s does not have the %s header %q", filepath.Base(path), f, f.Header())
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "imported %d record(s) into %s in %d chunk(s), skipped %d row(s)\n",
		res.Imported, collection, res.Chunks, res.Skipped)
	return nil
}

func runExport(ctx context.Context, out io.Writer, cfgPath, collection, format, dir string) error {
	f, err := impex.ParseFormat(format)
	if err != nil {
		return err
	}

	e, err := openEnv(ctx, cfgPath, "")
	if err != nil {
		return err
	}
	defer e.close()

	path := filepath.Join(dir, impex.ExportFileName(collection, f, time.Now()))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	n, err := impex.NewService(e.log, e.dict).Export(ctx, collection, f, file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path) //nolint:errcheck
		return err
	}

	fmt.Fprintf(out, "exported %d record(s) to %s\n", n, path)
	return nil
}

func runToken(out io.Writer, cfgPath string, actor ctxutil.Actor) error {
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("token: auth.jwt_secret is not configured")
	}

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	token, err := jwt.GenerateAccessToken(actor)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

func runSearch(ctx context.Context, out io.Writer, cfgPath, collection, query string) error {
	e, err := openEnv(ctx, cfgPath, "")
	if err != nil {
		return err
	}
	defer e.close()

	recs, err := e.dict.Search(ctx, collection, query)
	if err != nil {
		return err
	}
	printRecords(out, query, recs)
	return nil
}

// runInteractiveSearch treats every stdin line as a keystroke burst: lines
// arriving within the debounce window supersede each other.
func runInteractiveSearch(ctx context.Context, in io.Reader, out io.Writer, cfgPath, collection string) error {
	e, err := openEnv(ctx, cfgPath, "")
	if err != nil {
		return err
	}
	defer e.close()

	deb := dictionary.NewDebouncer(e.cfg.Dictionary.SearchDebounce, e.cfg.Dictionary.SearchMinLength,
		func(ctx context.Context, query string) ([]domain.Record, error) {
			return e.dict.Search(ctx, collection, query)
		})
	defer deb.Close()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	finish := func() error {
		select {
		case err := <-scanErr:
			return err
		default:
			return nil
		}
	}

	var (
		pending bool
		drain   <-chan time.Time
	)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				if !pending {
					return finish()
				}
				lines = nil
				drain = time.After(e.cfg.Dictionary.SearchDebounce + 5*time.Second)
				continue
			}
			pending = deb.Submit(line)
		case res := <-deb.Results():
			pending = false
			if res.Err != nil {
				fmt.Fprintf(out, "search %q: %v\n", res.Query, res.Err)
			} else {
				printRecords(out, res.Query, res.Records)
			}
			if lines == nil {
				return finish()
			}
		case <-drain:
			return finish()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func printRecords(out io.Writer, query string, recs []domain.Record) {
	fmt.Fprintf(out, "%q: %d match(es)\n", query, len(recs))
	for _, r := range recs {
		fmt.Fprintf(out, "  %-30s  %s\n", r.SourceTerm, r.TargetTerm)
	}
}
