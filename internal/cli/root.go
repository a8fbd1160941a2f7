package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/studygen/studygen/internal/cache"
	"github.com/studygen/studygen/internal/config"
	"github.com/studygen/studygen/internal/content"
	"github.com/studygen/studygen/internal/fetch"
	"github.com/studygen/studygen/internal/output"
	"github.com/studygen/studygen/internal/pricing"
	"github.com/studygen/studygen/internal/prompt"
	"github.com/studygen/studygen/internal/spinner"
)

var (
	cfgFile       string
	profile       string
	noCache       bool
	verbose       bool
	debug         bool
	dryRun        bool
	quiet         bool
	templatesFile string
)

func Execute(version, commit, date string) error {
	rootCmd := &cobra.Command{
		Use:   "studygen [flags] <kind> <topic>",
		Short: "AI-generated study content",
		Long: `studygen generates educational content about a topic in a chosen style
(request kind), with a session cache and retry-hardened API calls.

Example:
  studygen explain-simply "Ohm's Law"
  studygen follow-up "Hash Tables"
  studygen session`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.MinimumNArgs(2),
		RunE:    run,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/studygen/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "LLM profile to use")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass cache for this request")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show operation details")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress messages")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "show full request details")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "show prompt without making API call")
	rootCmd.PersistentFlags().StringVar(&templatesFile, "templates", "", "YAML file overriding built-in prompt templates")

	// Output mode flags
	rootCmd.Flags().BoolP("json", "j", false, "JSON output with metadata")
	rootCmd.Flags().BoolP("tokens", "t", false, "show token usage and costs")

	// Management commands
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(setupCmd())
	rootCmd.AddCommand(setProfileCmd())
	rootCmd.AddCommand(listProfilesCmd())
	rootCmd.AddCommand(testConfigCmd())
	rootCmd.AddCommand(kindsCmd())
	rootCmd.AddCommand(subjectsCmd())

	// Bind flags to viper
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("no-cache", rootCmd.PersistentFlags().Lookup("no-cache"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	// Environment variable support
	viper.SetEnvPrefix("STUDYGEN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return rootCmd.Execute()
}

// loadCatalog returns the template catalog: built-in, optionally overridden
// by --templates or the config's template_file.
func loadCatalog(cfg *config.Config) (prompt.Catalog, error) {
	path := templatesFile
	if path == "" {
		path = cfg.TemplateFile
	}
	if path == "" {
		return prompt.DefaultCatalog(), nil
	}
	return prompt.LoadOverrides(path)
}

// newGenerator wires the cache, fetcher and catalog for one process. The
// cache lives exactly as long as the returned generator.
func newGenerator(cmd *cobra.Command, cfg *config.Config, catalog prompt.Catalog) (*content.Generator, *config.Profile, error) {
	activeProfile, err := cfg.GetActiveProfile()
	if err != nil {
		return nil, nil, fmt.Errorf("no profile configured: %w\nRun 'studygen setup' to configure", err)
	}

	providerConfig, err := CreateProvider(cmd.Context(), cfg, activeProfile, verbose)
	if err != nil {
		return nil, nil, err
	}

	ttl := time.Duration(cfg.CacheHours) * time.Hour
	generator := content.NewGenerator(
		cache.New(ttl),
		fetch.New(providerConfig.Provider, fetch.DefaultConfig()),
		catalog,
		content.Options{
			Model:         activeProfile.Model,
			ContextWindow: providerConfig.ContextWindow,
		},
	)

	return generator, activeProfile, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return err
	}
	topic := strings.Join(args[1:], " ")
	if topic == "" {
		return fmt.Errorf("no topic specified")
	}

	if dryRun {
		tmpl, _ := catalog.Get(kind)
		fmt.Printf("System prompt:\n%s\n\nUser prompt:\n%s\n", tmpl.System, tmpl.Render(topic))
		return nil
	}

	generator, activeProfile, err := newGenerator(cmd, cfg, catalog)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Kind: %s\n", kind)
		fmt.Printf("Topic: %s\n", topic)
		fmt.Printf("Using profile: %s (%s %s)\n", activeProfile.Name, activeProfile.Provider, activeProfile.Model)
	}

	result, err := generate(cmd, generator, activeProfile, catalog, topic, kind)
	if err != nil {
		return err
	}

	return printResult(cmd, result, activeProfile)
}

// generate runs one Generate call with prompt-size warnings, debug output
// and a spinner when appropriate.
func generate(cmd *cobra.Command, generator *content.Generator, activeProfile *config.Profile, catalog prompt.Catalog, topic string, kind prompt.Kind) (*content.Result, error) {
	tmpl, _ := catalog.Get(kind)
	userPrompt := tmpl.Render(topic)

	actualTokens := countTokens(userPrompt+tmpl.System, verbose)
	if actualTokens > activeProfile.GetContextWindow() {
		fmt.Fprintf(os.Stderr, "Warning: prompt (%d tokens) exceeds %d token context window.\n", actualTokens, activeProfile.GetContextWindow())
	}

	if debug {
		fmt.Fprintf(os.Stderr, "\n=== DEBUG: System Prompt ===\n%s\n", tmpl.System)
		fmt.Fprintf(os.Stderr, "\n=== DEBUG: User Prompt ===\n%s\n\n", truncate(userPrompt, 500))
	}

	showProgress := !quiet && !verbose && !debug
	var spin *spinner.Spinner
	if showProgress {
		spin = spinner.New(fmt.Sprintf("Generating with %s...", activeProfile.Model))
		spin.Start()
	}

	var result *content.Result
	var err error
	if noCache {
		result, err = generator.Refresh(cmd.Context(), topic, kind)
	} else {
		result, err = generator.Generate(cmd.Context(), topic, kind)
	}

	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		if verbose {
			var cerr *content.Error
			if errors.As(err, &cerr) && cerr.Cause != nil {
				fmt.Fprintf(os.Stderr, "Underlying failure: %v\n", cerr.Cause)
			}
		}
		return nil, err
	}

	if verbose && result.Cached {
		fmt.Println("Found in cache")
	}
	return result, nil
}

func printResult(cmd *cobra.Command, result *content.Result, activeProfile *config.Profile) error {
	jsonFlag, _ := cmd.Flags().GetBool("json")
	tokensFlag, _ := cmd.Flags().GetBool("tokens")

	var costPtr *float64
	if jsonFlag || tokensFlag {
		pricingDB := pricing.GetDatabase()
		if modelPricing := pricingDB.GetPricing(activeProfile.Model); modelPricing != nil {
			cost := modelPricing.CalculateCost(result.TokensInput, result.TokensOutput)
			costPtr = &cost
		}
	}

	if jsonFlag {
		jsonOutput, err := output.FormatJSON(result, costPtr)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Println(jsonOutput)
		return nil
	}

	fmt.Println(output.FormatPlain(result))

	if tokensFlag {
		fmt.Println()
		pricingDB := pricing.GetDatabase()
		modelPricing := pricingDB.GetPricing(activeProfile.Model)
		fmt.Println(pricing.FormatTokenUsage(result.TokensInput, result.TokensOutput, modelPricing, pricingDB.LastUpdated))
	}

	return nil
}
