package output

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotboot/dotboot/pkg/errors"
	"github.com/dotboot/dotboot/pkg/logging"
	"github.com/dotboot/dotboot/pkg/output/styles"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer expands the embedded templates and styles the result.
type Renderer struct {
	templates *template.Template
	writer    io.Writer
	lg        *lipgloss.Renderer
	color     bool
}

// NewRenderer creates a Renderer writing to w. Color is used only when
// noColor is false, NO_COLOR is unset and w is a terminal.
func NewRenderer(w io.Writer, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("output.Renderer")

	r := &Renderer{
		writer: w,
		lg:     lipgloss.NewRenderer(w),
		color:  ColorEnabled(w, noColor),
	}

	tmpl, err := template.New("output").Funcs(template.FuncMap{
		"style": r.style,
		"join":  strings.Join,
		"pad":   pad,
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse templates")
	}
	r.templates = tmpl

	log.Debug().
		Bool("color", r.color).
		Str("colorProfile", fmt.Sprintf("%v", r.lg.ColorProfile())).
		Msg("Renderer created")
	return r, nil
}

// ColorEnabled reports whether output to w should be styled.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || termenv.EnvNoColor() {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ForceColor styles output with profile regardless of the writer.
func (r *Renderer) ForceColor(profile termenv.Profile) {
	r.lg.SetColorProfile(profile)
	r.color = true
}

func (r *Renderer) style(name, text string) string {
	if !r.color {
		return text
	}
	return r.lg.NewStyle().Inherit(styles.GetStyle(name)).Render(text)
}

func (r *Renderer) execute(name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to execute template %s", name)
	}
	_, err := fmt.Fprintln(r.writer, strings.TrimRight(buf.String(), "\n"))
	return err
}

// RenderApply writes the report of an apply run.
func (r *Renderer) RenderApply(report *ApplyReport) error {
	return r.execute("apply.tmpl", report)
}

// RenderTargets writes the list of available targets.
func (r *Renderer) RenderTargets(targets []TargetInfo) error {
	return r.execute("targets.tmpl", targets)
}

// RenderError writes err with its details, sorted by key.
func (r *Renderer) RenderError(err error) error {
	view := errorView{Message: err.Error()}
	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		view.Details = append(view.Details, detail{Key: k, Value: details[k]})
	}
	return r.execute("error.tmpl", view)
}

// RenderMessage writes message in the named style.
func (r *Renderer) RenderMessage(style, message string) error {
	_, err := fmt.Fprintln(r.writer, r.style(style, message))
	return err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
