package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studygen/studygen/internal/catalog"
	"github.com/studygen/studygen/internal/config"
	"github.com/studygen/studygen/internal/prompt"
)

func setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive configuration wizard",
		Long: `Interactive setup wizard to configure studygen profiles.

You can also set up profiles manually by editing:
  ~/.config/studygen/config.toml (Linux/others)
  ~/Library/Application Support/studygen/config.toml (macOS)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Studygen Setup Wizard")
			fmt.Println("=====================")
			fmt.Println()

			cfg, err := config.Load()
			if err != nil {
				cfg = &config.Config{
					CacheHours: config.DefaultCacheHours,
					Profiles:   make(map[string]config.Profile),
				}
			}

			fmt.Println("Select a provider:")
			fmt.Println("  1) OpenAI")
			fmt.Println("  2) Anthropic")
			fmt.Println("  3) Ollama (local)")
			fmt.Print("\nChoice [1-3]: ")

			var choice string
			fmt.Scanln(&choice)

			var provider, model, profileName string

			switch choice {
			case "1":
				provider = "openai"
				model = "gpt-4o-mini" // Default to cheaper model
				profileName = "openai-gpt4o-mini"
				fmt.Println("\nUsing OpenAI with gpt-4o-mini")
				fmt.Println("Set your API key with: export OPENAI_API_KEY=sk-...")
			case "2":
				provider = "anthropic"
				model = "claude-3-5-haiku-20241022"
				profileName = "anthropic-haiku"
				fmt.Println("\nUsing Anthropic with Claude 3.5 Haiku")
				fmt.Println("Set your API key with: export ANTHROPIC_API_KEY=sk-...")
			case "3":
				provider = "ollama"
				fmt.Print("\nEnter model name (e.g., llama3.2:latest): ")
				fmt.Scanln(&model)
				if model == "" {
					model = "llama3.2:latest"
				}
				profileName = "ollama-" + strings.Split(model, ":")[0]
				fmt.Println("\nUsing Ollama with", model)
				fmt.Println("Make sure Ollama is running: ollama serve")
			default:
				return fmt.Errorf("invalid choice: must be 1, 2, or 3")
			}

			cfg.AddProfile(profileName, config.Profile{
				Provider: provider,
				Model:    model,
			})
			cfg.DefaultProfile = profileName

			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("\n✓ Configuration saved!\n")
			fmt.Printf("  Profile: %s\n", profileName)
			fmt.Printf("  Provider: %s\n", provider)
			fmt.Printf("  Model: %s\n", model)
			fmt.Printf("\nTry it out:\n")
			fmt.Printf("  studygen explain-simply \"Ohm's Law\"\n")

			return nil
		},
	}
}

func setProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-profile <name>",
		Short: "Set the default profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			name := args[0]
			if _, ok := cfg.Profiles[name]; !ok {
				return fmt.Errorf("profile %q not found", name)
			}

			cfg.DefaultProfile = name
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Default profile set to %s\n", name)
			return nil
		},
	}
}

func listProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-profiles",
		Short: "List configured profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if len(cfg.Profiles) == 0 {
				fmt.Println("No profiles configured. Run 'studygen setup' to create one.")
				return nil
			}

			names := make([]string, 0, len(cfg.Profiles))
			for name := range cfg.Profiles {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				p := cfg.Profiles[name]
				marker := " "
				if name == cfg.DefaultProfile {
					marker = "*"
				}
				fmt.Printf("%s %s (%s %s)\n", marker, name, p.Provider, p.Model)
			}

			fmt.Println("* = default profile")
			return nil
		},
	}
}

func testConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-config",
		Short: "Validate all profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if len(cfg.Profiles) == 0 {
				return fmt.Errorf("no profiles configured")
			}

			fmt.Println("Testing profiles...")
			fmt.Println()

			hasErrors := false

			for name, profile := range cfg.Profiles {
				fmt.Printf("Testing %s (%s %s)... ", name, profile.Provider, profile.Model)

				switch profile.Provider {
				case "openai":
					if cfg.GetAPIKey("openai") == "" {
						fmt.Println("❌ Missing OPENAI_API_KEY")
						hasErrors = true
						continue
					}
				case "anthropic":
					if cfg.GetAPIKey("anthropic") == "" {
						fmt.Println("❌ Missing ANTHROPIC_API_KEY")
						hasErrors = true
						continue
					}
				case "ollama":
					// No key needed; assume the daemon is reachable
				default:
					fmt.Printf("❌ Unknown provider %q\n", profile.Provider)
					hasErrors = true
					continue
				}

				fmt.Println("✓")
			}

			if hasErrors {
				return fmt.Errorf("some profiles have configuration issues")
			}

			fmt.Println("\n✓ All profiles configured correctly")
			return nil
		},
	}
}

func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List available request kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			templates, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			for _, kind := range templates.Kinds() {
				tmpl, _ := templates.Get(kind)
				fmt.Printf("%-20s %s\n", kind, truncate(tmpl.Text, 70))
			}
			return nil
		},
	}
}

func subjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects [subject]",
		Short: "List subjects, or the topics of one subject",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, s := range catalog.Subjects() {
					fmt.Printf("%s (%d topics)\n", s.Name, len(s.Topics))
				}
				return nil
			}

			topics := catalog.Topics(args[0])
			if topics == nil {
				return fmt.Errorf("unknown subject %q", args[0])
			}
			for _, t := range topics {
				fmt.Println(t)
			}
			return nil
		},
	}
}

// kindNames is used by the session help text.
func kindNames(templates prompt.Catalog) string {
	names := make([]string, 0, len(templates))
	for _, k := range templates.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
