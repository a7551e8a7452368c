package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/instasched/instasched/internal/config"
	"github.com/instasched/instasched/internal/engine"
	"github.com/instasched/instasched/internal/instagram"
	"github.com/instasched/instasched/internal/media"
	"github.com/instasched/instasched/internal/model"
	"github.com/instasched/instasched/internal/outcome"
	"github.com/instasched/instasched/internal/runner"
	"github.com/instasched/instasched/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	app := cli.NewApp()
	app.Name = "instasched"
	app.Usage = "schedule a folder of images for publication at fixed times"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Value: "config.yaml", Usage: "path to the YAML config file"},
		cli.StringFlag{Name: "username, u", Usage: "account username (stored credentials are used when omitted)"},
		cli.StringFlag{Name: "password, p", Usage: "account password (stored credentials are used when omitted)"},
		cli.StringFlag{Name: "folder, f", Usage: "folder containing the images to publish"},
		cli.StringFlag{Name: "caption", Usage: "caption applied to every post"},
		cli.StringFlag{Name: "date, d", Usage: "base date for the time slots (YYYY-MM-DD)"},
		cli.StringFlag{Name: "times, t", Usage: "comma-separated publication times (HH:MM,HH:MM,...)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	sessions := session.NewStore(fs, cfg.Storage.SessionFile, cfg.Storage.CredentialsFile)
	log := outcome.NewLog(fs, cfg.Storage.LogFile)

	username := c.String("username")
	password := c.String("password")
	if username == "" || password == "" {
		creds, ok := sessions.LoadCredentials()
		if !ok {
			return fmt.Errorf("no stored credentials, pass --username and --password")
		}
		username, password = creds.Username, creds.Password
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(engine.Deps{
		Client:   instagram.NewHTTPClient(cfg.API.BaseURL, cfg.API.UserAgent, fs),
		Sessions: sessions,
		Scanner:  media.NewScanner(fs),
		Log:      log,
		Runner:   runner.New(ctx),
		Fs:       fs,
		Location: loc,
	})

	results := make(chan model.Outcome, 256)
	eng.SetReporter(func(o model.Outcome) { results <- o })

	outcomes, err := eng.Schedule(ctx, engine.Request{
		Username: username,
		Password: password,
		Folder:   c.String("folder"),
		Caption:  strings.TrimSpace(c.String("caption")),
		Date:     c.String("date"),
		Times:    c.String("times"),
	})
	if err != nil {
		return err
	}

	pending := 0
	for _, o := range outcomes {
		fmt.Println(o)
		if o.Kind == model.KindScheduled {
			pending++
		}
	}
	if pending == 0 {
		return nil
	}
	fmt.Printf("%d post(s) scheduled, keep the program open until all of them complete\n", pending)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for pending > 0 {
		select {
		case o := <-results:
			fmt.Println(o)
			pending--
		case <-quit:
			slog.Info("Interrupted, dropping pending posts", "pending", pending)
			return nil
		}
	}
	return nil
}
