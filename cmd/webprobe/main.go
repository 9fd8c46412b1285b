// Command webprobe loads an HTML page into the js host and prints the typed
// state of selected elements as seen through the webapi wrappers.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/webref/internal/config"
	"github.com/chrisuehlinger/webref/js"
	"github.com/chrisuehlinger/webref/webapi"
	"github.com/chrisuehlinger/webref/webcore"
)

// Probe is the state reported for one element.
type Probe struct {
	ID             string  `json:"id"`
	Interface      string  `json:"interface,omitempty"`
	TagName        string  `json:"tagName,omitempty"`
	Value          *string `json:"value,omitempty"`
	SelectionStart *uint32 `json:"selectionStart,omitempty"`
	SelectionEnd   *uint32 `json:"selectionEnd,omitempty"`
	Error          string  `json:"error,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "Path to webprobe.toml")
	policy := flag.String("policy", "", "Downcast policy: lineage, strict or prototype")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *policy != "" {
		cfg.DowncastPolicy = *policy
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	args := flag.Args()
	if len(args) > 0 {
		cfg.Page = args[0]
		if len(args) > 1 {
			cfg.Elements = args[1:]
		}
	}

	if cfg.Page == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <page.html> [element-id]...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s form.html comment email\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -policy=strict -json form.html comment\n", os.Args[0])
		os.Exit(1)
	}

	log, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// os.Exit skips deferred calls, so the logger is flushed on every exit.
	exit := func(code int) {
		_ = log.Sync()
		os.Exit(code)
	}

	probes, err := run(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	if *jsonOutput {
		data, err := json.MarshalIndent(probes, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting JSON: %v\n", err)
			exit(1)
		}
		fmt.Println(string(data))
	} else {
		plainOutput()
		for _, p := range probes {
			printProbe(p)
		}
	}

	for _, p := range probes {
		if p.Error != "" {
			exit(1)
		}
	}
	exit(0)
}

func run(cfg *config.Config, log *zap.Logger) ([]Probe, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	markup, err := os.ReadFile(cfg.Page)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", cfg.Page, err)
	}

	rt := js.NewRuntime(js.WithLogger(log.Named("js")))
	host := js.NewHost(rt)
	if err := host.LoadHTML(string(markup)); err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Page, err)
	}

	br := webcore.New(rt, webcore.WithLogger(log), webcore.WithPolicy(policy))
	doc, err := webapi.DocumentOf(br)
	if err != nil {
		return nil, err
	}
	defer doc.Drop()

	ids := cfg.Elements
	if len(ids) == 0 {
		ids = []string{""}
	}
	probes := make([]Probe, 0, len(ids))
	for _, id := range ids {
		probes = append(probes, probe(doc, id))
	}

	if n := rt.Outstanding(); n != 1 {
		log.Warn("references outstanding after probe", zap.Int("claims", n))
	}
	return probes, nil
}

// probe reports the element with the given id, or the active element when id
// is empty.
func probe(doc webapi.Document, id string) Probe {
	p := Probe{ID: id}

	var el webapi.Element
	var ok bool
	if id == "" {
		var active webapi.HTMLElement
		active, ok = doc.ActiveElement()
		el = active.Element
		p.ID = "(active)"
	} else {
		el, ok = doc.GetElementByID(id)
	}
	if !ok {
		p.Error = "no such element"
		return p
	}
	defer el.Drop()
	p.TagName = el.TagName()

	ta, ok := narrow(&p, el, webapi.TextAreaElementType)
	if ok {
		defer ta.Drop()
		value, start, end := ta.Value(), ta.SelectionStart(), ta.SelectionEnd()
		p.Value, p.SelectionStart, p.SelectionEnd = &value, &start, &end
		return p
	}
	if p.Error != "" {
		return p
	}

	in, ok := narrow(&p, el, webapi.InputElementType)
	if ok {
		defer in.Drop()
		value := in.Value()
		p.Value = &value
		if start, ok := in.SelectionStart(); ok {
			p.SelectionStart = &start
		}
		if end, ok := in.SelectionEnd(); ok {
			p.SelectionEnd = &end
		}
		return p
	}
	if p.Error != "" {
		return p
	}

	p.Interface = webapi.ElementType.Name()
	return p
}

// narrow casts el to t. On success it records the interface on p and the
// caller owns the result. A type mismatch leaves p alone; any other failure
// is recorded as p.Error.
func narrow[T webcore.ReferenceType](p *Probe, el webapi.Element, t *webcore.Type[T]) (T, bool) {
	v, err := t.Cast(el)
	if err != nil {
		if !errors.Is(err, webcore.ErrTypeMismatch) {
			p.Error = err.Error()
		}
		return v, false
	}
	p.Interface = t.Name()
	return v, true
}

func printProbe(p Probe) {
	if p.Error != "" {
		fmt.Printf("%s: %s\n", idStyle.Render(p.ID), errorStyle.Render("ERROR: "+p.Error))
		return
	}
	fmt.Printf("%s <%s> %s\n", idStyle.Render(p.ID), strings.ToLower(p.TagName), interfaceStyle.Render(p.Interface))
	if p.Value != nil {
		fmt.Printf("  value: %s\n", valueStyle.Render(fmt.Sprintf("%q", *p.Value)))
	}
	if p.SelectionStart != nil && p.SelectionEnd != nil {
		fmt.Printf("  selection: [%d, %d)\n", *p.SelectionStart, *p.SelectionEnd)
	}
}
