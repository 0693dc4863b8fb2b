package infra

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// runFunc executes a command and returns its combined output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Printer sends PDF files to the system print spooler (CUPS lp/lpstat).
type Printer struct {
	command        string
	media          string
	defaultPrinter string
	run            runFunc
}

// NewPrinter builds a spooler client. command is usually "lp"; media is the
// CUPS media option, e.g. "X80mmY297mm". An empty defaultPrinter uses the
// system default destination.
func NewPrinter(command, media, defaultPrinter string) *Printer {
	return &Printer{command: command, media: media, defaultPrinter: defaultPrinter, run: execRun}
}

// Print spools the file at path. printer overrides the configured default.
func (p *Printer) Print(ctx context.Context, path, printer string) error {
	args := []string{}
	if p.media != "" {
		args = append(args, "-o", "media="+p.media)
	}
	if printer == "" {
		printer = p.defaultPrinter
	}
	if printer != "" {
		args = append(args, "-d", printer)
	}
	args = append(args, path)

	out, err := p.run(ctx, p.command, args...)
	if err != nil {
		return fmt.Errorf("printer: %s: %w: %s", p.command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ListPrinters returns the destinations accepting jobs and the default one.
func (p *Printer) ListPrinters(ctx context.Context) ([]string, string, error) {
	out, err := p.run(ctx, "lpstat", "-a")
	if err != nil {
		return nil, "", fmt.Errorf("printer: lpstat -a: %w", err)
	}
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if fields := strings.Fields(sc.Text()); len(fields) > 0 {
			names = append(names, fields[0])
		}
	}

	def := p.defaultPrinter
	if def == "" {
		// "system default destination: NAME"; absent when none is set
		if out, err := p.run(ctx, "lpstat", "-d"); err == nil {
			if _, after, ok := strings.Cut(string(out), ":"); ok {
				def = strings.TrimSpace(after)
			}
		}
	}
	return names, def, nil
}
