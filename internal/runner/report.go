package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/latch/internal/executor"
)

//nolint:gochecknoglobals // Package-level style constants for report rendering
var (
	stylePassed = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}).
			Bold(true)

	styleFailed = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}).
			Bold(true)

	styleModified = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"})

	styleSkipped = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"})

	styleHookName = lipgloss.NewStyle().Bold(true)
)

// CheckNoColor disables styling when the NO_COLOR environment variable is set
// (any value, including empty) or TERM is dumb. Call before rendering.
// Follows https://no-color.org/.
func CheckNoColor() {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	if os.Getenv("TERM") == "dumb" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Render writes the human-readable report: one line per hook in declaration
// order, captured output for failing hooks, and a summary line.
func Render(w io.Writer, report *Report) {
	nameWidth := 0
	for _, res := range report.Results {
		if l := len(displayName(res)); l > nameWidth {
			nameWidth = l
		}
	}

	for _, res := range report.Results {
		fmt.Fprintf(w, "%s%s%s\n",
			styleHookName.Render(displayName(res)),
			strings.Repeat(".", nameWidth-len(displayName(res))+3),
			statusLabel(res),
		)

		switch {
		case res.Status == executor.StatusSkipped && res.SkipReason != "":
			fmt.Fprintf(w, "  %s\n", styleSkipped.Render(res.SkipReason))
		case res.Status == executor.StatusError && res.Err != nil:
			fmt.Fprintf(w, "  %s\n", styleFailed.Render(res.Err.Error()))
		case res.Failed():
			writeOutput(w, res)
		}
	}

	passed, failed, skipped, errored := report.Counts()
	fmt.Fprintf(w, "\n%s\n", summaryLine(passed, failed, skipped, errored, report))
}

// RenderJSON writes the machine-readable report. Errors are flattened to
// strings since the wire format has no error type.
func RenderJSON(w io.Writer, report *Report) error {
	type jsonResult struct {
		executor.Outcome
		Error string `json:"error,omitempty"`
	}
	type jsonReport struct {
		RunID    string       `json:"run_id"`
		Stage    string       `json:"stage"`
		Started  string       `json:"started"`
		Duration string       `json:"duration"`
		ExitCode int          `json:"exit_code"`
		Results  []jsonResult `json:"results"`
	}

	out := jsonReport{
		RunID:    report.RunID,
		Stage:    report.Stage,
		Started:  report.Started.Format("2006-01-02T15:04:05Z07:00"),
		Duration: report.Duration.String(),
		ExitCode: report.ExitCode(),
		Results:  make([]jsonResult, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		jr := jsonResult{Outcome: res}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		out.Results = append(out.Results, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// statusLabel renders the per-hook status column.
func statusLabel(res executor.Outcome) string {
	switch {
	case res.Status == executor.StatusPassed && res.Modified:
		return styleModified.Render("Passed (files modified)")
	case res.Status == executor.StatusPassed:
		return stylePassed.Render("Passed")
	case res.Status == executor.StatusFailed:
		return styleFailed.Render("Failed")
	case res.Status == executor.StatusSkipped:
		return styleSkipped.Render("Skipped")
	case res.Status == executor.StatusIncomplete:
		return styleSkipped.Render("Incomplete")
	default:
		return styleFailed.Render("Error")
	}
}

// writeOutput prints a failing hook's captured streams, indented.
func writeOutput(w io.Writer, res executor.Outcome) {
	for _, stream := range []string{res.Stdout, res.Stderr} {
		text := strings.TrimRight(stream, "\n")
		if text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// summaryLine formats the trailing one-line summary.
func summaryLine(passed, failed, skipped, errored int, report *Report) string {
	parts := []string{
		stylePassed.Render(fmt.Sprintf("%d passed", passed)),
	}
	if failed > 0 {
		parts = append(parts, styleFailed.Render(fmt.Sprintf("%d failed", failed)))
	}
	if errored > 0 {
		parts = append(parts, styleFailed.Render(fmt.Sprintf("%d errored", errored)))
	}
	if skipped > 0 {
		parts = append(parts, styleSkipped.Render(fmt.Sprintf("%d skipped", skipped)))
	}
	return fmt.Sprintf("%s (%s)", strings.Join(parts, ", "), report.Duration.Round(time.Millisecond))
}

// displayName prefers the hook's name, falling back to its identifier.
func displayName(res executor.Outcome) string {
	if res.Name != "" {
		return res.Name
	}
	return res.HookID
}
