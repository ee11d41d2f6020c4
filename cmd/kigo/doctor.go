package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/kigo-app/kigo/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and environment",
	Long: `Check that kigo is ready to run.

This command verifies that:
- The configuration loads
- A Groq API key is set
- The data directory is writable
- Desktop notifications are likely to work`,
	RunE: runDoctor,
}

type checkResult struct {
	name    string
	status  string
	details string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var results []checkResult
	allOk := true

	cfg, err := config.Load()
	if err != nil {
		results = append(results, checkResult{
			name:    "config",
			status:  "FAIL",
			details: err.Error(),
		})
		allOk = false
	} else {
		detail := "defaults only"
		if config.Exists() {
			detail = "loaded"
		}
		results = append(results, checkResult{
			name:    "config",
			status:  "OK",
			details: detail,
		})
	}

	if cfg == nil || cfg.APIKey == "" {
		results = append(results, checkResult{
			name:    "api key",
			status:  "FAIL",
			details: "Not set. Add api_key to the config or export GROQ_API_KEY",
		})
		allOk = false
	} else {
		results = append(results, checkResult{
			name:    "api key",
			status:  "OK",
			details: maskKey(cfg.APIKey),
		})
	}

	if cfg != nil {
		results = append(results, checkDataDir(cfg.DataDir, &allOk))
	}

	results = append(results, checkNotifications())

	rows := make([][]string, len(results))
	for i, r := range results {
		var icon string
		switch r.status {
		case "OK":
			icon = "✓"
		case "FAIL":
			icon = "⊗"
		case "WARN":
			icon = "⊘"
		}
		rows[i] = []string{r.name, icon, r.details}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("Check", "Status", "Details").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Foreground(colorPrimary).
					Bold(true).
					Padding(0, 1)
			}

			style := lipgloss.NewStyle().Padding(0, 1)

			if col == 1 {
				switch results[row].status {
				case "OK":
					return style.Foreground(colorSuccess)
				case "FAIL":
					return style.Foreground(colorError)
				case "WARN":
					return style.Foreground(colorWarning)
				}
			}

			if col == 0 {
				return style.Foreground(colorBase)
			}

			return style.Foreground(colorMuted)
		})

	fmt.Println(t)

	fmt.Println()
	successStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(colorError)

	if allOk {
		fmt.Println(successStyle.Render("✓ All checks passed!"))
		return nil
	}
	fmt.Println(errorStyle.Render("⊗ Some checks failed. Fix the items above and re-run."))
	return fmt.Errorf("doctor check failed")
}

func checkDataDir(dir string, allOk *bool) checkResult {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		*allOk = false
		return checkResult{name: "data dir", status: "FAIL", details: err.Error()}
	}
	probe := filepath.Join(dir, ".kigo-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		*allOk = false
		return checkResult{name: "data dir", status: "FAIL", details: "Not writable: " + err.Error()}
	}
	_ = os.Remove(probe)
	return checkResult{name: "data dir", status: "OK", details: dir}
}

// checkNotifications is a best-effort probe. Sending a real notification
// from doctor would be noisy, so only the transport's presence is checked.
func checkNotifications() checkResult {
	if runtime.GOOS == "linux" && os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
		return checkResult{
			name:    "notifications",
			status:  "WARN",
			details: "No D-Bus session bus. Reminders may not be delivered",
		}
	}
	return checkResult{name: "notifications", status: "OK", details: "Delivery available"}
}
