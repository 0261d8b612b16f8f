package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/corey/shapegen/internal/domain/hierarchy"
	"github.com/corey/shapegen/internal/ports"
	"github.com/pterm/pterm"
)

// renderTable writes rows (the first one is the header) as a pterm table.
func renderTable(w io.Writer, rows [][]string) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// tallyRows lays out per-corpus counts plus the unique totals.
//
//	corpus                 no-default  error  ok   total
//	exhaustive interface   8           4      9    21
//	...
//	unique                             37     412
func tallyRows(run *ports.Run) [][]string {
	rows := [][]string{{"corpus", "no-default", "error", "ok", "total"}}
	for _, t := range run.Tallies {
		rows = append(rows, []string{
			t.Corpus,
			strconv.Itoa(t.NoDefault),
			strconv.Itoa(t.Error),
			strconv.Itoa(t.OK),
			strconv.Itoa(t.Total),
		})
	}
	rows = append(rows, []string{"unique", "", strconv.Itoa(len(run.Err)), strconv.Itoa(len(run.OK)), ""})
	return rows
}

// runHeader is the one-line identity of a run.
func runHeader(run *ports.Run) string {
	return fmt.Sprintf("run %s │ %s │ %s",
		run.ID, time.Unix(run.CreatedAt, 0).Format(time.RFC3339), run.Provenance)
}

// verdict names the classification of a hierarchy.
func verdict(h *hierarchy.Hierarchy) string {
	switch {
	case !h.AnyDefault():
		return "no default"
	case h.IsLegal():
		return "ok"
	default:
		return "error"
	}
}

// defenders lists "class→source" for every class that needs a synthesized
// forwarding method.
func defenders(h *hierarchy.Hierarchy) string {
	var parts []string
	for _, n := range h.Nodes() {
		if n.NeedsDefender() {
			parts = append(parts, n.ID()+"→"+n.DefenderSource().ID())
		}
	}
	return strings.Join(parts, " ")
}

// classifyRows lays out one row per hierarchy.
func classifyRows(hs []*hierarchy.Hierarchy) [][]string {
	rows := [][]string{{"name", "shape", "verdict", "resolved", "defenders"}}
	for _, h := range hs {
		resolved := ""
		if r := h.Root().Resolved(); r != nil {
			resolved = r.ID()
		}
		rows = append(rows, []string{h.Key(), h.Describe(), verdict(h), resolved, defenders(h)})
	}
	return rows
}

// summaryRows lays out stored runs, oldest first.
func summaryRows(runs []ports.RunSummary) [][]string {
	rows := [][]string{{"id", "created", "provenance", "ok", "error"}}
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			time.Unix(r.CreatedAt, 0).Format(time.RFC3339),
			r.Provenance,
			strconv.Itoa(r.OKCount),
			strconv.Itoa(r.ErrCount),
		})
	}
	return rows
}

// writeJSON pretty-prints v.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
