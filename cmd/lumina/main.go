package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aribellam/lumina/internal/session"
	"github.com/aribellam/lumina/internal/tui"
	"github.com/aribellam/lumina/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// configDir returns the session/config directory, honoring the
// LUMINA_CONFIG_DIR override.
func configDir() (string, error) {
	if dir := os.Getenv("LUMINA_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	return session.DefaultDir()
}

func run() error {
	apiURL := os.Getenv("LUMINA_API_URL")
	if apiURL == "" {
		apiURL = "https://api.lumina.app"
	}

	dir, err := configDir()
	if err != nil {
		return err
	}

	var resetToken string
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("lumina " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout(dir)
		case "reset-password":
			if len(os.Args) > 2 {
				resetToken = os.Args[2]
			}
			// No token still opens the flow; it explains itself there.
		default:
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
			printHelp()
			return nil
		}
	}

	store := session.NewStore(session.NewFileStorage(dir), newLogger(dir))

	// The bearer token follows the session store; hydration installs the
	// persisted one through the app's store subscription.
	c := client.New(apiURL, "")

	app := tui.NewApp(c, store, version)
	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		app = app.WithResetToken(resetToken)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// newLogger writes diagnostics to <dir>/debug.log. The TUI owns the
// terminal, so nothing may log to stderr while it runs. A nil return
// means diagnostics are discarded.
func newLogger(dir string) *slog.Logger {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil
	}
	return slog.New(slog.NewTextHandler(f, nil))
}

func runLogout(dir string) error {
	storage := session.NewFileStorage(dir)
	restored, err := storage.Load()
	if err == nil && !restored.Authenticated() {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := storage.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a5b4fc")).
		Bold(true).
		Render("L U M I N A")

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	fmt.Println()
	fmt.Println("  " + title)
	fmt.Println()
	fmt.Println("  " + dim.Render("the idea engine, in your terminal"))
	fmt.Println()
	fmt.Println("  usage:")
	fmt.Println("    lumina                        launch (sign in inside)")
	fmt.Println("    lumina reset-password <token> redeem a password reset link")
	fmt.Println("    lumina logout                 clear the stored session")
	fmt.Println("    lumina version                print version")
	fmt.Println()
	fmt.Println("  environment:")
	fmt.Println("    LUMINA_API_URL     API base URL (default https://api.lumina.app)")
	fmt.Println("    LUMINA_CONFIG_DIR  session/config directory (default ~/.lumina)")
	fmt.Println()
}
