package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sumeshkk123/localink"
	"github.com/sumeshkk123/localink/cache"
	"github.com/sumeshkk123/localink/provider"
	"github.com/sumeshkk123/localink/store"
)

type rootFlags struct {
	configFile string
	dbPath     string
	redisURL   string
	cacheTTL   int
	locales    []string
	primary    string
	fanOut     int
	overwrite  bool
	dryRun     bool
	jsonOut    bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "localink",
		Short:         "Synchronize content translations across locales",
		Version:       localink.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default: $HOME/.localink.yaml)")
	pf.StringVar(&flags.dbPath, "db", "content.db", "SQLite database path")
	pf.StringVar(&flags.redisURL, "redis", "", "Redis URL for the translation cache (default: in-memory)")
	pf.IntVar(&flags.cacheTTL, "cache-ttl", 0, "translation cache TTL in seconds (0 = no expiration)")
	pf.StringSliceVar(&flags.locales, "locales", nil, "supported locales, primary included (default: site set)")
	pf.StringVar(&flags.primary, "primary", localink.DefaultPrimaryLocale, "primary (source of truth) locale")
	pf.IntVar(&flags.fanOut, "fanout", 4, "concurrent locale translations per item")
	pf.BoolVar(&flags.overwrite, "overwrite", false, "re-translate locale rows that already exist")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "report without writing")
	pf.BoolVar(&flags.jsonOut, "json", false, "emit reports as JSON")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")

	for _, name := range localink.ContentTypeNames() {
		root.AddCommand(newSyncCmd(flags, name))
	}
	root.AddCommand(newSyncCmd(flags, "all"))

	return root
}

// initConfig wires viper so credentials come from the environment or an
// optional config file; the engine itself only ever sees the explicit
// Config built in buildEngine.
func initConfig(flags *rootFlags) error {
	viper.SetEnvPrefix("localink")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if flags.configFile != "" {
		viper.SetConfigFile(flags.configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".localink")
			viper.SetConfigType("yaml")
			// Missing default config is fine.
			_ = viper.ReadInConfig()
		}
	}
	return nil
}

func newSyncCmd(flags *rootFlags, contentType string) *cobra.Command {
	short := fmt.Sprintf("Synchronize %s translations", contentType)
	if contentType == "all" {
		short = "Synchronize every content type"
	}

	return &cobra.Command{
		Use:   contentType,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := buildEngine(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			opts := localink.Options{Overwrite: flags.overwrite, DryRun: flags.dryRun}

			var reports []*localink.Report
			var runErr error
			if contentType == "all" {
				reports, runErr = engine.SyncAll(cmd.Context(), opts)
			} else {
				var report *localink.Report
				report, runErr = engine.Sync(cmd.Context(), contentType, opts)
				if report != nil {
					reports = append(reports, report)
				}
			}

			if err := printReports(cmd, reports, flags.jsonOut); err != nil {
				return err
			}
			return runErr
		},
	}
}

func buildEngine(flags *rootFlags) (*localink.Engine, func(), error) {
	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if flags.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := localink.DefaultConfig()
	cfg.PrimaryLocale = flags.primary
	if len(flags.locales) > 0 {
		cfg.Locales = flags.locales
	}
	cfg.FanOut = flags.fanOut
	cfg.OpenAI = localink.OpenAICredentials{
		APIKey:  viper.GetString("openai_api_key"),
		Model:   viper.GetString("openai_model"),
		BaseURL: viper.GetString("openai_base_url"),
	}
	cfg.DeepL = localink.DeepLCredentials{
		APIKey:   viper.GetString("deepl_api_key"),
		FreeTier: viper.GetBool("deepl_free"),
	}
	cfg.MyMemory = localink.MyMemoryCredentials{
		Email:    viper.GetString("mymemory_email"),
		Disabled: viper.GetBool("mymemory_disabled"),
	}

	cleanup := func() {}

	var tc localink.TranslationCache
	if flags.redisURL != "" {
		rc, err := cache.NewRedisCache(cache.RedisConfig{URL: flags.redisURL, TTL: flags.cacheTTL})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting redis: %w", err)
		}
		cleanup = func() { _ = rc.Close() }
		tc = rc
	} else {
		tc = cache.NewInMemoryCache(flags.cacheTTL)
	}

	chain := provider.BuildChain(cfg,
		localink.WithCache(tc),
		localink.WithChainLogger(log),
	)
	if chain.Len() == 0 {
		log.Warn("no translation providers configured; items will keep original text")
	}

	db, err := store.Open(flags.dbPath)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	closeCache := cleanup
	cleanup = func() {
		_ = db.Close()
		closeCache()
	}
	contentStore := store.NewBunStore(db)
	if err := contentStore.CreateSchema(context.Background()); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("ensuring schema: %w", err)
	}

	engine := localink.New(contentStore, chain, cfg, localink.WithLogger(log))
	return engine, cleanup, nil
}

func printReports(cmd *cobra.Command, reports []*localink.Report, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, r := range reports {
		fmt.Fprint(cmd.OutOrStdout(), formatReport(r))
	}
	return nil
}

func formatReport(r *localink.Report) string {
	var b strings.Builder
	label := r.ContentType
	if r.DryRun {
		label += " (dry run)"
	}
	fmt.Fprintf(&b, "%s: %d created, %d updated, %d skipped\n", label, r.Created, r.Updated, r.Skipped)

	for _, id := range r.Unlinkable {
		fmt.Fprintf(&b, "  unlinkable: %s (synced as singleton, review manually)\n", id)
	}
	for _, key := range r.Collisions {
		fmt.Fprintf(&b, "  collision risk: %s (membership resolved heuristically)\n", key)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "  error: item %s locale %s: %s\n", e.ItemID, e.Locale, e.Error)
	}
	if r.TruncatedErrors > 0 {
		fmt.Fprintf(&b, "  ... and %d more errors\n", r.TruncatedErrors)
	}
	return b.String()
}
