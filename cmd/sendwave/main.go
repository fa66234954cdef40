package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/saltline/sendwave/internal/adapters/brevo"
	logAdapter "github.com/saltline/sendwave/internal/adapters/log"
	"github.com/saltline/sendwave/internal/adapters/report"
	"github.com/saltline/sendwave/internal/adapters/sqlite"
	"github.com/saltline/sendwave/internal/adapters/whatsapp"
	"github.com/saltline/sendwave/internal/api"
	"github.com/saltline/sendwave/internal/app"
	"github.com/saltline/sendwave/internal/cliconfig"
	"github.com/saltline/sendwave/internal/domain"
	"github.com/saltline/sendwave/internal/ports"
)

const longHelp = `
Run outbound templated messaging campaigns against a contact directory.

Recipients are resolved from Brevo lists, deduplicated against a local send
ledger, rate limited, and delivered as WhatsApp template messages with
automatic retry on transient failures. Live sends in the prod environment
require --confirm.
`

var exampleUsage = strings.TrimSpace(`
  sendwave validate
  sendwave dry-run --category Engineering --limit 20
  sendwave send --campaign-id aug-2026 --limit 50 --confirm \
      --job-title "Go Engineer" --company Saltline --location Remote \
      --apply-link https://saltline.example/jobs/42
  sendwave daily-summary
  sendwave serve
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// deps bundles the live adapters built from configuration.
type deps struct {
	directory *brevo.Client
	sender    *whatsapp.Client
	ledger    *sqlite.Ledger
	reporter  *report.JSONLReporter
}

func (d *deps) close() {
	if d.ledger != nil {
		_ = d.ledger.Close()
	}
}

func (d *deps) api() api.Deps {
	return api.Deps{
		Directory: d.directory,
		Sender:    d.sender,
		Ledger:    d.ledger,
		Reporter:  d.reporter,
	}
}

func buildDeps(cfg cliconfig.Config) (*deps, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	ledger, err := sqlite.Open(cfg.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("open send ledger: %w", err)
	}

	return &deps{
		directory: brevo.New(brevo.DefaultBaseURL, cfg.BrevoAPIKey, httpClient),
		sender:    whatsapp.New(cfg.WhatsAppAPIVersion, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppToken, httpClient),
		ledger:    ledger,
		reporter:  report.NewJSONLReporter(cfg.ResultsPath, cfg.Env),
	}, nil
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var (
		cfgPath    string
		limit      int
		confirm    bool
		campaignID string
		experience string
		category   string
		jobTitle   string
		company    string
		location   string
		applyLink  string
	)

	// resolveConfig layers file and env values under any explicitly set
	// flags, then validates. Safe to call once per command invocation.
	resolveConfig := func(cmd *cobra.Command) error {
		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}
		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return err
			}
		}
		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return err
		}
		return cfg.Validate()
	}

	newLogger := func() ports.Logger {
		return logAdapter.NewZerologAdapter(cfg.LogLevel)
	}

	variables := func() []string {
		if jobTitle == "" && company == "" && location == "" && applyLink == "" {
			return nil
		}
		return []string{jobTitle, company, location, applyLink}
	}

	runSpec := func(ctx context.Context, d *deps, id string) (app.RunSpec, error) {
		segments, err := app.BuildSegments(ctx, d.directory, category, experience, cfg.ListID)
		if err != nil {
			return app.RunSpec{}, err
		}
		return app.RunSpec{
			Segments:   segments,
			Limit:      limit,
			CampaignID: id,
			Variables:  variables(),
		}, nil
	}

	root := &cobra.Command{
		Use:           "sendwave",
		Short:         "Outbound templated messaging campaigns with dedup, rate limiting and retries",
		Long:          strings.TrimSpace(longHelp),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.sendwave/config.toml)")
	root.PersistentFlags().StringVar(&cfg.Env, "env", cfg.Env, "environment: test or prod")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&category, "category", "", "directory folder whose lists become experience segments")
	root.PersistentFlags().StringVar(&experience, "experience", "", "restrict the run to segments matching this label")
	root.PersistentFlags().Int64Var(&cfg.ListID, "list-id", cfg.ListID, "contact list id to target (when no category is set)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check configuration and connectivity to both providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd); err != nil {
				return err
			}
			log := newLogger()
			d, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			defer d.close()

			ctx := cmd.Context()
			ok := true
			if err := d.directory.Ping(ctx); err != nil {
				log.Error("contact directory check failed", ports.Err(err))
				ok = false
			} else {
				log.Info("contact directory reachable")
			}
			if err := d.sender.Verify(ctx); err != nil {
				log.Error("messaging provider check failed", ports.Err(err))
				ok = false
			} else {
				log.Info("messaging provider reachable")
			}
			if !ok {
				return errors.New("validation failed")
			}
			fmt.Printf("configuration valid (env=%s, daily limit=%d, template=%s)\n",
				cfg.Env, cfg.DailyLimit, cfg.TemplateDefault)
			return nil
		},
	}

	dryRunCmd := &cobra.Command{
		Use:   "dry-run",
		Short: "Preview eligible recipients without sending",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd); err != nil {
				return err
			}
			log := newLogger()
			d, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			defer d.close()

			ctx := cmd.Context()
			spec, err := runSpec(ctx, d, "dry-run")
			if err != nil {
				return err
			}

			orch := app.NewEngine(d.directory, d.sender, d.ledger, d.reporter, api.EngineParams(cfg), log)
			plans, err := orch.Plan(ctx, spec)
			if err != nil {
				return err
			}

			total := 0
			for _, p := range plans {
				fmt.Printf("segment %q (list %d) -> template %q\n", p.Segment.Label, p.Segment.ListID, p.Template)
				for _, cand := range p.Candidates {
					fmt.Printf("  %s  %s\n", cand.ExternalID, domain.MaskPhone(cand.Phone))
					total++
				}
			}
			fmt.Printf("%d eligible recipient(s)\n", total)
			return nil
		},
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate-send",
		Short: "Print the provider payloads that a send would produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd); err != nil {
				return err
			}
			log := newLogger()
			d, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			defer d.close()

			ctx := cmd.Context()
			spec, err := runSpec(ctx, d, "simulate")
			if err != nil {
				return err
			}

			orch := app.NewEngine(d.directory, d.sender, d.ledger, d.reporter, api.EngineParams(cfg), log)
			plans, err := orch.Plan(ctx, spec)
			if err != nil {
				return err
			}

			for _, p := range plans {
				for _, cand := range p.Candidates {
					payload, err := whatsapp.BuildPayload(ports.TemplateMessage{
						To:             cand.Phone,
						Template:       p.Template,
						Language:       cfg.TemplateLanguage,
						HeaderImageURL: cfg.HeaderImageURL,
						BodyVariables:  spec.Variables,
					})
					if err != nil {
						return err
					}
					fmt.Printf("-- %s (%s)\n%s\n", cand.ExternalID, domain.MaskPhone(cand.Phone), payload)
				}
			}
			return nil
		},
	}

	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Run the campaign and deliver messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd); err != nil {
				return err
			}
			if campaignID == "" {
				return domain.ErrMissingCampaignID
			}
			if cfg.Env == cliconfig.EnvProd && !confirm {
				return domain.ErrConfirmRequired
			}

			log := newLogger()
			d, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			defer d.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			spec, err := runSpec(ctx, d, campaignID)
			if err != nil {
				return err
			}

			orch := app.NewEngine(d.directory, d.sender, d.ledger, d.reporter, api.EngineParams(cfg), log)
			rep, err := orch.Run(ctx, spec)
			if err != nil {
				return err
			}

			fmt.Printf("run %s finished in %s: %d sent, %d failed, %d skipped\n",
				rep.RunID, rep.Duration.Round(time.Millisecond), rep.Success, rep.Failed, rep.Skipped)
			if rep.BreakerTripped {
				fmt.Println("stopped early: too many consecutive failures")
			}
			if rep.LimitReached {
				fmt.Println("stopped at the send limit")
			}
			return nil
		},
	}
	sendCmd.Flags().BoolVar(&confirm, "confirm", false, "confirm a live send (required when env=prod)")

	summaryCmd := &cobra.Command{
		Use:   "daily-summary",
		Short: "Aggregate today's results from the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd); err != nil {
				return err
			}
			d, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			defer d.close()

			summary, err := d.reporter.Summary(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API with config hot reload",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd); err != nil {
				return err
			}
			log := newLogger()
			d, err := buildDeps(cfg)
			if err != nil {
				return err
			}
			defer d.close()

			server := api.NewServer(cfg, d.api(), log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				reload := func() (cliconfig.Config, error) {
					next := cliconfig.DefaultConfig()
					fc, err := cliconfig.LoadFileConfig(cfgFile)
					if err != nil {
						return next, err
					}
					if err := cliconfig.ApplyFileConfig(&next, fc, nil); err != nil {
						return next, err
					}
					if err := cliconfig.ApplyEnvConfig(&next, nil); err != nil {
						return next, err
					}
					if err := next.Validate(); err != nil {
						return next, err
					}
					return next, nil
				}
				watcher := api.NewConfigWatcher(cfgFile, reload, server.UpdateConfig, log)
				go func() {
					if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Warn("config watcher stopped", ports.Err(err))
					}
				}()
			}

			if cfg.CronSchedule != "" {
				job := func() {
					runCtx, cancel := context.WithTimeout(ctx, time.Hour)
					defer cancel()

					id := "scheduled-" + time.Now().Format("2006-01-02")
					orch := app.NewEngine(d.directory, d.sender, d.ledger, d.reporter, api.EngineParams(cfg), log)
					segments, err := app.BuildSegments(runCtx, d.directory, cfg.CategoryFolder, "", cfg.ListID)
					if err != nil {
						log.Error("scheduled run setup failed", ports.Err(err))
						return
					}
					rep, err := orch.Run(runCtx, app.RunSpec{
						Segments:   segments,
						Limit:      cfg.DailyLimit,
						CampaignID: id,
					})
					if err != nil {
						log.Error("scheduled run failed", ports.Err(err))
						return
					}
					log.Info("scheduled run finished",
						ports.String("run_id", rep.RunID),
						ports.Int("success", rep.Success),
						ports.Int("failed", rep.Failed),
					)
				}
				scheduler, err := api.NewScheduler(cfg.CronSchedule, job, log)
				if err != nil {
					return err
				}
				scheduler.Start()
				defer scheduler.Stop()
			}

			httpServer := &http.Server{Addr: cfg.ServeAddr, Handler: server.Handler()}
			errCh := make(chan error, 1)
			go func() {
				log.Info("dashboard api listening", ports.String("addr", cfg.ServeAddr))
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			case err := <-errCh:
				return err
			}
		},
	}

	for _, c := range []*cobra.Command{dryRunCmd, simulateCmd, sendCmd} {
		c.Flags().IntVar(&limit, "limit", 10, "maximum messages for this run")
		c.Flags().StringVar(&campaignID, "campaign-id", "", "campaign identifier (dedup unit together with the template)")
		c.Flags().StringVar(&jobTitle, "job-title", "", "job title template variable")
		c.Flags().StringVar(&company, "company", "", "company template variable")
		c.Flags().StringVar(&location, "location", "", "location template variable")
		c.Flags().StringVar(&applyLink, "apply-link", "", "application link template variable")
	}

	root.AddCommand(validateCmd, dryRunCmd, simulateCmd, sendCmd, summaryCmd, serveCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sendwave:", err)
		os.Exit(1)
	}
}
