package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/yourusername/app-fetch-go/internal/domain"
)

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)

	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	return t
}

// renderCatalog prints catalog entries in catalog order
func renderCatalog(w io.Writer, apps []domain.Application, checkedOnly bool) {
	t := newTable(w, table.Row{"#", "Name", "Strategy", "Ext", "Default"})
	n := 0
	for _, application := range apps {
		if checkedOnly && !application.Checked {
			continue
		}
		n++
		t.AppendRow(table.Row{n, application.Name, application.Strategy, application.Extension, yesNo(application.Checked)})
	}
	t.Render()
}

// renderCheck prints resolved versions and links
func renderCheck(w io.Writer, results []checkResult) {
	t := newTable(w, table.Row{"Name", "Version", "File", "Link"})
	for _, r := range results {
		switch {
		case r.Err != nil:
			t.AppendRow(table.Row{r.App.Name, "-", "-", "error: " + r.Err.Error()})
		case !r.Resolution.Found():
			t.AppendRow(table.Row{r.App.Name, "-", "-", "not found"})
		default:
			t.AppendRow(table.Row{r.App.Name, r.Resolution.Version, r.App.FileName(r.Resolution.Version), r.Resolution.URL})
		}
	}
	t.Render()
}

// renderSummary prints the outcome of every application of a batch
func renderSummary(w io.Writer, downloads []*domain.Download) {
	t := newTable(w, table.Row{"Name", "Version", "Status", "Result"})
	for _, d := range downloads {
		result := d.FilePath
		if d.Status == domain.StatusFailed {
			result = d.ErrorMessage
		}
		t.AppendRow(table.Row{d.App, d.Version, d.Status, result})
	}
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// batchSource looks up the records of the running batch
type batchSource interface {
	Current() (*domain.Batch, []*domain.Download, error)
}

// progressPrinter renders "Downloading <label>: N%" on a single line per
// application. Report runs on the progress dispatcher goroutine.
type progressPrinter struct {
	out     io.Writer
	catalog *domain.Catalog
	batches batchSource

	mu      sync.Mutex
	current string
	label   string
	dirty   bool
}

func newProgressPrinter(out io.Writer, catalog *domain.Catalog, batches batchSource) *progressPrinter {
	return &progressPrinter{out: out, catalog: catalog, batches: batches}
}

// Report prints the progress of one application
func (p *progressPrinter) Report(name string, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if name != p.current {
		p.endLine()
		p.current = name
		p.label = p.labelFor(name)
	}
	fmt.Fprintf(p.out, "\rDownloading %s: %d%%", p.label, percent)
	p.dirty = true
}

// Notice prints a message on its own line
func (p *progressPrinter) Notice(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.endLine()
	fmt.Fprintln(p.out, msg)
}

// Finish terminates the last progress line
func (p *progressPrinter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endLine()
}

func (p *progressPrinter) endLine() {
	if p.dirty {
		fmt.Fprintln(p.out)
		p.dirty = false
	}
}

// labelFor renders name with its resolved version, falling back to the name
func (p *progressPrinter) labelFor(name string) string {
	application, ok := p.catalog.Find(name)
	if !ok {
		return name
	}

	_, downloads, err := p.batches.Current()
	if err != nil {
		return name
	}
	for _, d := range downloads {
		if d.App == name && d.Version != "" {
			return application.Label(d.Version)
		}
	}
	return name
}
