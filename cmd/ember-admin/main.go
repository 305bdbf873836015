// ABOUTME: Admin CLI for inspecting widget configuration and chat sessions
// ABOUTME: Talks to the chat backend API directly, no widget server required

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/emberhq/ember-widget/internal/backend"
	"github.com/emberhq/ember-widget/internal/widget"
)

const banner = `
                 _                            _           _
   ___ _ __ ___ | |__   ___ _ __         __ _| |_ __ ___ (_)_ __
  / _ \ '_ ' _ \| '_ \ / _ \ '__|_____ / _' | | '_ ' _ \| | '_ \
 |  __/ | | | | | |_) |  __/ | |_____| (_| | | | | | | | | | | |
  \___|_| |_| |_|_.__/ \___|_|        \__,_|_|_| |_| |_|_|_| |_|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	baseURL := os.Getenv("EMBER_BACKEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	be := backend.New(baseURL, 30*time.Second)

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "settings":
		err = cmdSettings(ctx, be, args)
	case "sessions":
		err = cmdSessions(ctx, be, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: ember-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  settings --agent ID            Show an agent's widget configuration")
	fmt.Println("  sessions --agent ID --user ID  List a user's chat sessions with an agent")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  EMBER_BACKEND_URL   Chat backend base URL (default: http://localhost:8000)")
	fmt.Println()
}

// parseFlag extracts one "--name value" or "--name=value" flag
func parseFlag(args []string, name string) (string, error) {
	long := "--" + name
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == long:
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", long)
			}
			return args[i+1], nil
		case strings.HasPrefix(arg, long+"="):
			return strings.TrimPrefix(arg, long+"="), nil
		}
	}
	return "", nil
}

func cmdSettings(ctx context.Context, be *backend.Client, args []string) error {
	agentID, err := parseFlag(args, "agent")
	if err != nil {
		return err
	}
	if agentID == "" {
		return fmt.Errorf("--agent flag is required")
	}

	settings, err := widget.LoadSettings(ctx, be, agentID)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("Widget settings for %s\n\n", agentID)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Display name:\t%s\n", settings.DisplayName)
	fmt.Fprintf(w, "Greeting:\t%s\n", settings.InitialMessage)
	fmt.Fprintf(w, "Placeholder:\t%s\n", settings.MessagePlaceholder)
	fmt.Fprintf(w, "Theme:\t%s\n", settings.Theme)
	fmt.Fprintf(w, "Bubble alignment:\t%s\n", settings.BubbleAlignment)
	if settings.PrimaryColor != "" {
		fmt.Fprintf(w, "Primary color:\t%s\n", settings.PrimaryColor)
	}
	if len(settings.SuggestedQuestions) > 0 {
		fmt.Fprintf(w, "Suggestions:\t%s\n", strings.Join(settings.SuggestedQuestions, " | "))
	}
	return w.Flush()
}

func cmdSessions(ctx context.Context, be *backend.Client, args []string) error {
	agentID, err := parseFlag(args, "agent")
	if err != nil {
		return err
	}
	userID, err := parseFlag(args, "user")
	if err != nil {
		return err
	}
	if agentID == "" || userID == "" {
		return fmt.Errorf("--agent and --user flags are required")
	}

	sessions, err := be.ListSessions(ctx, agentID, userID)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSTARTED\tFIRST MESSAGE")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			s.SessionID,
			s.CreatedAt.Format("2006-01-02 15:04"),
			truncate(s.Input, 60))
	}
	return w.Flush()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
