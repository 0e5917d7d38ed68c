package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/osintinfo/internal/version"
	osintinfo "github.com/kailas-cloud/osintinfo/pkg/sdk"
)

// NewRootCmd builds the osintctl command tree.
func NewRootCmd(s Settings) *cobra.Command {
	root := &cobra.Command{
		Use:   "osintctl",
		Short: "Look up breach records and turn raw answers into readable reports.",
		Long: heredoc.Doc(`
			osintctl runs breach lookups and normalizes their answers into
			record cards, plain-text reports and markdown reports.

			Settings are read from the environment:
			  OSINTINFO_API_KEY   breach API token (needed by "search" only)
			  OSINTINFO_BASE_URL  breach API endpoint override
			  OSINTINFO_TIMEOUT   lookup timeout, e.g. 20s
			  OSINTINFO_SITE      heading printed on exports
		`),
		Version:       version.Version + " (" + version.Commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newNormalizeCmd(s),
		newExportCmd(s),
		newSearchCmd(s),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	s, err := LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := NewRootCmd(s).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newClient(s Settings, stderr io.Writer) (*osintinfo.Client, error) {
	opts := []osintinfo.Option{
		osintinfo.WithAPIKey(s.APIKey),
		osintinfo.WithBaseURL(s.BaseURL),
		osintinfo.WithTimeout(s.Timeout),
		osintinfo.WithSiteName(s.Site),
	}
	if s.Debug {
		opts = append(opts, osintinfo.WithLogger(slog.New(
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)))
	}
	client, err := osintinfo.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

// readInput reads a file argument, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return data, nil
}
