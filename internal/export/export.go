// Package export renders normalized results as downloadable documents.
package export

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/osintinfo/internal/domain/result"
)

// Defaults used by the web front end.
const (
	DefaultSite        = "Osint Info Results"
	DefaultSupportLine = "Need Help regarding anything? Contact us now at Telegram @Osint_Info_supportbot"
	DefaultThanksLine  = "Thankyou for using our service!"
	FilenamePrefix     = "osint-info-results-"
)

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Options controls the header and footer of an export.
type Options struct {
	Site        string
	SupportLine string
	ThanksLine  string
}

// DefaultOptions returns the stock header and footer.
func DefaultOptions() Options {
	return Options{Site: DefaultSite, SupportLine: DefaultSupportLine, ThanksLine: DefaultThanksLine}
}

// Formatter renders results with fixed options.
type Formatter struct {
	opts Options
}

// New creates a formatter. Empty options fall back to the defaults.
func New(opts Options) *Formatter {
	def := DefaultOptions()
	if opts.Site == "" {
		opts.Site = def.Site
	}
	if opts.SupportLine == "" {
		opts.SupportLine = def.SupportLine
	}
	if opts.ThanksLine == "" {
		opts.ThanksLine = def.ThanksLine
	}
	return &Formatter{opts: opts}
}

// Site returns the header site name.
func (f *Formatter) Site() string { return f.opts.Site }

// Text renders the plain-text export.
func (f *Formatter) Text(query string, res result.Results) string {
	return text(f.opts, query, res)
}

// Markdown renders the markdown export.
func (f *Formatter) Markdown(query string, res result.Results) string {
	return markdown(f.opts, query, res)
}

// Text renders the plain-text export with the default footer.
func Text(site, query string, res result.Results) string {
	opts := DefaultOptions()
	opts.Site = site
	return text(opts, query, res)
}

// Markdown renders the markdown export with the default footer.
func Markdown(site, query string, res result.Results) string {
	opts := DefaultOptions()
	opts.Site = site
	return markdown(opts, query, res)
}

func text(opts Options, query string, res result.Results) string {
	records := res.Records()
	lines := []string{headline(opts.Site, query), ""}
	if len(records) == 0 {
		lines = append(lines, "No results found.")
	} else {
		lines = append(lines, "Results ("+strconv.Itoa(len(records))+")")
		for i, rec := range records {
			title := recordTitle(rec, i)
			lines = append(lines, "", strconv.Itoa(i+1)+". "+title)
			if ctx := rec.ContextLabel(); ctx != "" && ctx != title {
				lines = append(lines, "Context: "+ctx)
			}
			for _, fld := range rec.Fields() {
				if v := strings.TrimSpace(Stringify(fld.Value())); v != "" {
					lines = append(lines, "- "+fld.Label()+": "+v)
				}
			}
		}
	}
	lines = append(lines, "", opts.SupportLine, "", opts.ThanksLine)
	return strings.Join(lines, "\n")
}

func markdown(opts Options, query string, res result.Results) string {
	records := res.Records()
	lines := []string{"# " + headline(opts.Site, query), ""}
	if len(records) == 0 {
		lines = append(lines, "_No results found._")
	} else {
		lines = append(lines, "**Results ("+strconv.Itoa(len(records))+")**")
		for i, rec := range records {
			title := recordTitle(rec, i)
			lines = append(lines, "", "## "+strconv.Itoa(i+1)+". "+title, "")
			if ctx := rec.ContextLabel(); ctx != "" && ctx != title {
				lines = append(lines, "_Context: "+ctx+"_", "")
			}
			for _, fld := range rec.Fields() {
				if v := strings.TrimSpace(Stringify(fld.Value())); v != "" {
					lines = append(lines, "- **"+fld.Label()+":** "+v)
				}
			}
		}
	}
	lines = append(lines, "", "---", "", opts.SupportLine, "", opts.ThanksLine, "")
	return strings.Join(lines, "\n")
}

func headline(site, query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		q = "Query"
	}
	return site + ` for "` + q + `"`
}

func recordTitle(rec result.Record, i int) string {
	if t := strings.TrimSpace(rec.Title()); t != "" {
		return t
	}
	return "Record " + strconv.Itoa(i+1)
}

// Stringify flattens a value into one line: lists joined by ", ",
// mappings as "key: value" pairs, empty parts dropped.
func Stringify(v result.Value) string {
	switch v.Kind() {
	case result.KindString:
		return v.Text()
	case result.KindNumber:
		return strconv.FormatFloat(v.Num(), 'f', -1, 64)
	case result.KindBool:
		return strconv.FormatBool(v.Bool())
	case result.KindList:
		parts := make([]string, 0, len(v.Items()))
		for _, item := range v.Items() {
			if s := Stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case result.KindMapping:
		parts := make([]string, 0, len(v.Entries()))
		for _, e := range v.Entries() {
			if s := Stringify(e.Value); s != "" {
				parts = append(parts, e.Key+": "+s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// Filename builds the download name: osint-info-results-<slug>.<ext>.
func Filename(query, ext string) string {
	slug := slugRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(query)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "query"
	}
	return FilenamePrefix + slug + "." + strings.TrimPrefix(ext, ".")
}
