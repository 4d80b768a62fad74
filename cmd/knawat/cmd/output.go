package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/knawat/mp-go/internal/catalog"
	"github.com/knawat/mp-go/internal/domain"
	"github.com/knawat/mp-go/pkg/httpclient"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resultView is the printable form of a diagnostic result.
type resultView struct {
	Method       string              `json:"method"`
	EffectiveURL string              `json:"effective_url"`
	StatusCode   int                 `json:"status_code"`
	Status       string              `json:"status"`
	Proto        string              `json:"proto"`
	RequestBody  json.RawMessage     `json:"request_body,omitempty"`
	ResponseText string              `json:"response_text"`
	Body         any                 `json:"body"`
	Headers      map[string][]string `json:"headers,omitempty"`
	TotalMS      int64               `json:"total_ms"`
	Timing       map[string]int64    `json:"timing_ms"`
	ReceivedAt   time.Time           `json:"received_at"`
}

func newResultView(res *httpclient.Result) resultView {
	t := res.Transport
	view := resultView{
		Method:       t.Method,
		EffectiveURL: res.EffectiveURL,
		StatusCode:   t.StatusCode,
		Status:       t.Status,
		Proto:        t.Proto,
		ResponseText: res.ResponseText,
		Body:         res.Body,
		Headers:      t.Header,
		TotalMS:      t.TotalTime.Milliseconds(),
		Timing: map[string]int64{
			"dns":     t.Timing.DNSLookup.Milliseconds(),
			"connect": t.Timing.Connect.Milliseconds(),
			"tls":     t.Timing.TLSHandshake.Milliseconds(),
			"server":  t.Timing.Server.Milliseconds(),
			"total":   t.Timing.Total.Milliseconds(),
		},
		ReceivedAt: t.ReceivedAt,
	}
	if json.Valid(res.RequestBody) {
		view.RequestBody = res.RequestBody
	}
	return view
}

func printResult(w io.Writer, res *httpclient.Result, asJSON bool) error {
	view := newResultView(res)
	if asJSON {
		return outputJSON(w, view)
	}

	tw := newTabWriter(w)
	tw.writef("Method:\t%s\n", view.Method)
	tw.writef("URL:\t%s\n", view.EffectiveURL)
	tw.writef("Status:\t%s\n", view.Status)
	tw.writef("Proto:\t%s\n", view.Proto)
	tw.writef("Total:\t%dms\n", view.TotalMS)
	if len(view.RequestBody) > 0 {
		tw.writef("Request:\t%s\n", truncate(string(view.RequestBody), 120))
	}
	tw.writef("Response:\t%s\n", truncate(view.ResponseText, 120))
	return tw.finish()
}

// printBody prints a decoded API body. Table mode renders records when the
// body holds a list under key (or is a list itself) and falls back to JSON.
func printBody(w io.Writer, body any, asJSON bool, key string, columns []string) error {
	if asJSON || len(columns) == 0 {
		return outputJSON(w, body)
	}
	records, ok := recordsOf(body, key)
	if !ok {
		return outputJSON(w, body)
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}
	return printRecordsTable(w, records, columns)
}

func recordsOf(body any, key string) ([]map[string]any, bool) {
	var list []any
	switch v := body.(type) {
	case []any:
		list = v
	case map[string]any:
		inner, ok := v[key].([]any)
		if !ok {
			return nil, false
		}
		list = inner
	default:
		return nil, false
	}

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

func printRecordsTable(w io.Writer, records []map[string]any, columns []string) error {
	tw := newTabWriter(w)
	tw.writef("%s\n", strings.ToUpper(strings.Join(columns, "\t")))
	for _, rec := range records {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = cellText(rec[col])
		}
		tw.writef("%s\n", strings.Join(cells, "\t"))
	}
	return tw.finish()
}

// cellText renders a JSON value for a table cell; localized objects show their English text.
func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return truncate(val, 40)
	case json.Number:
		return val.String()
	case float64:
		return fmt.Sprintf("%g", val)
	case []any:
		return fmt.Sprintf("%d", len(val))
	case map[string]any:
		strs := make(map[string]string, len(val))
		for k, x := range val {
			if s, ok := x.(string); ok {
				strs[k] = s
			}
		}
		if s := domain.Localized(strs, "en"); s != "" {
			return truncate(s, 40)
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "{" + strings.Join(keys, ",") + "}"
	default:
		return fmt.Sprint(val)
	}
}

func printReport(w io.Writer, r catalog.Report, asJSON bool) error {
	if asJSON {
		return outputJSON(w, r)
	}
	tw := newTabWriter(w)
	tw.writef("Fetched:\t%d\n", r.Fetched)
	tw.writef("Published:\t%d\n", r.Published)
	tw.writef("Skipped:\t%d\n", r.Skipped)
	tw.writef("Failed:\t%d\n", r.Failed)
	tw.writef("Cursor:\t%s\n", r.Cursor)
	return tw.finish()
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
