package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studygen/studygen/internal/catalog"
	"github.com/studygen/studygen/internal/config"
	"github.com/studygen/studygen/internal/content"
	"github.com/studygen/studygen/internal/prompt"
)

// sessionCmd runs the interactive study session. One process, one cache:
// repeating a request within the TTL window is answered from memory with no
// remote call.
func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Interactive study session with a shared cache",
		Long: `Start an interactive session. Each line is a request:

  <kind> <topic>        e.g.  explain-simply Ohm's Law

Session commands:
  :help      show this help
  :kinds     list request kinds
  :subjects  list subjects and topics
  :stats     show cache statistics
  :clear     drop all cached results
  :quit      leave the session`,
		RunE: runSession,
	}
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	templates, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	generator, activeProfile, err := newGenerator(cmd, cfg, templates)
	if err != nil {
		return err
	}

	fmt.Printf("studygen session — %s %s (cache TTL %dh)\n", activeProfile.Provider, activeProfile.Model, cfg.CacheHours)
	fmt.Println("Type ':help' for commands, ':quit' to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if done := sessionCommand(cmd, generator, templates, line); done {
				return nil
			}
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 2 {
			fmt.Println("Usage: <kind> <topic> — try ':kinds'")
			continue
		}

		kind, err := templates.ParseKind(parts[0])
		if err != nil {
			fmt.Println(err)
			continue
		}
		topic := parts[1]

		result, err := generate(cmd, generator, activeProfile, templates, topic, kind)
		if err != nil {
			fmt.Println(err)
			continue
		}

		if err := printResult(cmd, result, activeProfile); err != nil {
			fmt.Println(err)
		}
		fmt.Println()
	}
}

// sessionCommand handles a ':'-prefixed line. Returns true when the session
// should end.
func sessionCommand(cmd *cobra.Command, generator *content.Generator, templates prompt.Catalog, line string) bool {
	switch line {
	case ":quit", ":q", ":exit":
		return true

	case ":help":
		fmt.Println(cmd.Long)

	case ":kinds":
		fmt.Println(kindNames(templates))

	case ":subjects":
		for _, s := range catalog.Subjects() {
			fmt.Printf("%s: %s\n", s.Name, strings.Join(s.Topics, "; "))
		}

	case ":stats":
		stats := generator.CacheStats()
		fmt.Printf("Cache: %d entries, %d hits, %d misses (%d expired), TTL %s\n",
			stats.Entries, stats.Hits, stats.Misses, stats.Expired, stats.TTL)

	case ":clear":
		removed := generator.ClearCache()
		fmt.Printf("Cleared %d cached entries\n", removed)

	default:
		fmt.Printf("Unknown command %q — try ':help'\n", line)
	}

	return false
}
