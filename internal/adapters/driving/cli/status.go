package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show watcher status and recent polls",
	Long: `Shows the watcher state and the most recent polls recorded in the ledger.

With --test the remote drive is resolved to check credentials and the
watched folder without ingesting anything.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// Status flags.
var (
	statusTest  bool
	statusPolls int
)

// stdoutIsTerminal reports whether status output should be styled.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	statusCmd.Flags().BoolVar(&statusTest, "test", false, "Resolve the remote drive")
	statusCmd.Flags().IntVarP(&statusPolls, "polls", "n", 5, "Number of recent polls to show")
	rootCmd.AddCommand(statusCmd)
}

// statusStyles holds the styles used by the status output.
// The zero value renders plain text.
type statusStyles struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
}

func newStatusStyles(styled bool) statusStyles {
	if !styled {
		plain := lipgloss.NewStyle()
		return statusStyles{title: plain, label: plain, ok: plain, warn: plain, fail: plain}
	}
	return statusStyles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if watcher == nil {
		return notConfigured("watcher")
	}

	st := newStatusStyles(stdoutIsTerminal())
	ctx := cmd.Context()

	cmd.Println(renderWatcherStatus(st, watcher.Status()))

	if statusTest {
		identity, err := watcher.TestConnection(ctx)
		cmd.Println(st.title.Render("Remote drive"))
		if err != nil {
			cmd.Printf("  %s %s\n", st.label.Render("Connection:"), st.fail.Render("failed: "+err.Error()))
		} else {
			cmd.Printf("  %s %s\n", st.label.Render("Connection:"), st.ok.Render("ok"))
			if identity.SiteID != "" {
				cmd.Printf("  %s %s\n", st.label.Render("Site:      "), identity.SiteID)
			}
			cmd.Printf("  %s %s\n", st.label.Render("Drive:     "), identity.DriveID)
			if identity.Name != "" {
				cmd.Printf("  %s %s\n", st.label.Render("Name:      "), identity.Name)
			}
		}
		cmd.Println()
	}

	polls, err := watcher.History(ctx, statusPolls)
	if err != nil {
		return fmt.Errorf("failed to load poll history: %w", err)
	}
	cmd.Print(renderPolls(st, polls))
	return nil
}

func renderWatcherStatus(st statusStyles, s domain.WatcherStatus) string {
	var b strings.Builder

	state := st.warn.Render(string(s.State))
	if s.Running() {
		state = st.ok.Render(string(s.State))
	}
	lastSync := "never"
	if !s.LastSync.IsZero() {
		lastSync = s.LastSync.Format(timeLayout)
	}

	b.WriteString(st.title.Render("Watcher") + "\n")
	fmt.Fprintf(&b, "  %s %s\n", st.label.Render("State:          "), state)
	fmt.Fprintf(&b, "  %s %s\n", st.label.Render("Poll interval:  "), s.PollInterval)
	fmt.Fprintf(&b, "  %s %s\n", st.label.Render("Last sync:      "), lastSync)
	fmt.Fprintf(&b, "  %s %d\n", st.label.Render("Files processed:"), s.FilesProcessed)
	if s.DriveID != "" {
		fmt.Fprintf(&b, "  %s %s\n", st.label.Render("Drive:          "), s.DriveID)
	}
	if s.LastError != "" {
		fmt.Fprintf(&b, "  %s %s\n", st.label.Render("Last error:     "), st.fail.Render(s.LastError))
	}
	return b.String()
}

func renderPolls(st statusStyles, polls []domain.PollResult) string {
	var b strings.Builder

	b.WriteString(st.title.Render("Recent polls") + "\n")
	if len(polls) == 0 {
		b.WriteString("  No polls recorded.\n")
		return b.String()
	}

	for i := range polls {
		p := &polls[i]
		outcome := st.ok.Render("ok    ")
		if !p.Success {
			outcome = st.fail.Render("failed")
		}
		fmt.Fprintf(&b, "  %s  %-8s %s  %d ingested, %d skipped, %d failed",
			p.StartedAt.Format(timeLayout), p.Trigger, outcome,
			p.FilesProcessed, p.FilesSkipped, p.FilesFailed)
		if p.Error != "" {
			fmt.Fprintf(&b, "  %s", st.fail.Render(p.Error))
		}
		b.WriteString("\n")
	}
	return b.String()
}
