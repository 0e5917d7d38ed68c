package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	osintinfo "github.com/kailas-cloud/osintinfo/pkg/sdk"
)

func newNormalizeCmd(s Settings) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "normalize [file|-]",
		Short: "Normalize a saved breach API answer into record cards.",
		Long: heredoc.Doc(`
			Reads a JSON answer from a file or stdin and prints one card per
			record. Noise keys and empty values are dropped.
		`),
		Example: heredoc.Doc(`
			osintctl normalize answer.json
			curl -s ... | osintctl normalize --json
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			client, err := newClient(s, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res, err := client.Normalize(data)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), renderCards(res))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print normalized results as JSON")
	return cmd
}

func newExportCmd(s Settings) *cobra.Command {
	var (
		query  string
		format string
		output string
		render bool
		style  string
	)

	cmd := &cobra.Command{
		Use:   "export [file|-]",
		Short: "Render a saved breach API answer as a text or markdown report.",
		Long: heredoc.Doc(`
			Normalizes a JSON answer and writes the same report the web front
			end offers for download. With --render a markdown report is drawn
			for the terminal.
		`),
		Example: heredoc.Doc(`
			osintctl export answer.json --query john@example.com
			osintctl export answer.json -q john@example.com -f markdown --render
			osintctl export answer.json -q john@example.com -o report
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, ok := exportExt(format)
			if !ok {
				return fmt.Errorf("unknown format %q (want text or markdown)", format)
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			client, err := newClient(s, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res, err := client.Normalize(data)
			if err != nil {
				return err
			}

			var doc string
			if ext == "md" {
				doc = client.Markdown(query, res)
			} else {
				doc = client.Text(query, res)
			}

			if output != "" {
				name := output
				if info, err := os.Stat(output); err == nil && info.IsDir() {
					name = strings.TrimRight(output, "/") + "/" + osintinfo.Filename(query, ext)
				}
				if err := os.WriteFile(name, []byte(doc), 0o600); err != nil {
					return fmt.Errorf("write %s: %w", name, err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Saved", name)
				return nil
			}

			if render && ext == "md" {
				doc, err = renderMarkdown(doc, style)
				if err != nil {
					return err
				}
			}
			_, err = io.WriteString(cmd.OutOrStdout(), doc)
			return err
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "query shown in the report heading and file name")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "report format: text or markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file, or into this directory")
	cmd.Flags().BoolVar(&render, "render", false, "draw markdown for the terminal")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light or notty")
	return cmd
}

func newSearchCmd(s Settings) *cobra.Command {
	var (
		limit  int
		lang   string
		asJSON bool
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a live breach lookup.",
		Long: heredoc.Doc(`
			Sends the query to the breach API and prints the normalized
			records. Requires OSINTINFO_API_KEY.
		`),
		Example: heredoc.Doc(`
			osintctl search john@example.com
			osintctl search +15551234567 --limit 20 --lang ru --json
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(s, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out, err := client.Search(cmd.Context(), strings.Join(args, " "),
				osintinfo.WithLimit(limit), osintinfo.WithLang(lang))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case raw:
				_, err = w.Write(out.Body)
				return err
			case asJSON:
				return writeJSON(w, out.Results)
			}
			if !out.Found {
				fmt.Fprintln(w, emptyStyle.Render("No results found for "+out.Query+"."))
				return nil
			}
			_, err = io.WriteString(w, renderCards(out.Results))
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 100, "maximum upstream rows (1-10000)")
	cmd.Flags().StringVar(&lang, "lang", "en", "upstream result language")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print normalized results as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the upstream answer untouched")
	return cmd
}

func exportExt(format string) (string, bool) {
	switch strings.ToLower(format) {
	case "text", "txt":
		return "txt", true
	case "markdown", "md":
		return "md", true
	default:
		return "", false
	}
}

func renderMarkdown(doc, style string) (string, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(100))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
