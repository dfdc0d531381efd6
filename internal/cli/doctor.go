package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cupspanel/internal/config"
	"cupspanel/internal/doctor"
)

var doctorJSON bool

// doctorCmd diagnoses panel and CUPS issues.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose panel and CUPS issues",
	Long: `Run diagnostic checks against everything the panel depends on.

Checks:
  - CUPS client tools and scheduler state
  - hostname and sensor sources
  - font resolution for the renderer
  - output path and display device

Examples:
  cupspanel doctor
  cupspanel doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

func doctorCommand() error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	checks := doctor.ChecksFor(cfg)
	results := doctor.RunAll(checks)

	if doctorJSON {
		if err := writeDoctorJSON(os.Stdout, checks, results); err != nil {
			return err
		}
	} else {
		writeDoctorText(os.Stdout, checks, results)
	}

	if doctor.HasFailures(results) {
		return fmt.Errorf("%s", doctor.Summary(results))
	}
	return nil
}

func writeDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) {
	lastCategory := ""
	for i, res := range results {
		if cat := checks[i].Category(); cat != lastCategory {
			fmt.Fprintf(w, "%s\n", cat)
			lastCategory = cat
		}
		fmt.Fprintf(w, "  [%s] %-14s %s\n", res.Status, res.Name, res.Message)
		if res.Suggestion != "" && res.Status != doctor.StatusPass {
			fmt.Fprintf(w, "         hint: %s\n", res.Suggestion)
		}
	}
	fmt.Fprintf(w, "\n%s\n", doctor.Summary(results))
}

// checkReport is one check result with its category, for JSON output.
type checkReport struct {
	Category string `json:"category"`
	doctor.CheckResult
}

type doctorReport struct {
	Checks  []checkReport `json:"checks"`
	Summary struct {
		Pass     int  `json:"pass"`
		Warn     int  `json:"warn"`
		Fail     int  `json:"fail"`
		AllClear bool `json:"all_clear"`
	} `json:"summary"`
}

func writeDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	var report doctorReport
	for i, res := range results {
		report.Checks = append(report.Checks, checkReport{
			Category:    checks[i].Category(),
			CheckResult: res,
		})
	}
	counts := doctor.CountByStatus(results)
	report.Summary.Pass = counts[doctor.StatusPass]
	report.Summary.Warn = counts[doctor.StatusWarn]
	report.Summary.Fail = counts[doctor.StatusFail]
	report.Summary.AllClear = report.Summary.Warn == 0 && report.Summary.Fail == 0

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
