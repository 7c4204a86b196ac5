package multiquadlet

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// Compiler transforms a directory of staged candidate unit files into a directory of compiled systemd units. Production use execs the podman quadlet
// generator; tests inject stubs so both pipeline phases can be exercised in isolation.
type Compiler func(staging, output string) error

// PodmanCompiler returns the production Compiler: the podman quadlet generator for the given scope, pointed at the staging directory through the
// QUADLET_UNIT_DIRS environment variable. The output directory and any extra generator directories are passed through as arguments, matching systemd's
// generator calling convention.
func PodmanCompiler(scope Scope, extra ...string) Compiler {
	return func(staging, output string) error {
		generator := fmt.Sprintf("/usr/lib/systemd/%s-generators/podman-%s-generator", scope, scope)

		command := exec.Command(generator, append([]string{output}, extra...)...)
		command.Env = append(os.Environ(), "QUADLET_UNIT_DIRS="+staging)
		command.Stdout = os.Stdout
		command.Stderr = os.Stderr

		if e := command.Run(); e != nil {
			return fmt.Errorf("unable to run %q: %w", generator, e)
		}

		return nil
	}
}

// Generator runs one full reconciliation pass: clear and repopulate the staging directory from the input directory, compile it, then install the compiled
// target units' dependency symlinks into the output directory. Failure isolation is scoped, not global -- a failing document is rolled back and skipped
// without affecting other documents, and a failing unit abandons only its own remaining directives. Only infrastructure failures (staging reset, input
// enumeration, compiler) abort the run.
type Generator struct {
	Input   string // directory holding *.multiquadlet documents and passthrough unit files
	Staging string // staging directory handed to the compiler; cleared on every run
	Output  string // destination for compiled target units and their dependency symlinks
	Compile Compiler
	Logger  *slog.Logger
}

// Run executes the pipeline once, synchronously.
func (g *Generator) Run() error {
	logger := g.logger()

	stager := &Stager{Dir: g.Staging, Logger: logger}
	if e := stager.Reset(); e != nil {
		return e
	}

	if e := stager.CopyPassthrough(g.Input); e != nil {
		return e
	}

	documents, e := filepath.Glob(filepath.Join(g.Input, "*.multiquadlet"))
	if e != nil {
		return fmt.Errorf("unable to enumerate documents in %q: %w", g.Input, e)
	}

	for _, document := range documents {
		g.stage(logger, stager, document)
	}

	if g.Compile != nil {
		if e := g.Compile(g.Staging, g.Output); e != nil {
			return fmt.Errorf("unit compiler failed: %w", e)
		}
	}

	return g.install(logger)
}

// stage splits and stages one composite document. Errors are logged with their document context and isolated to that document.
func (g *Generator) stage(logger *slog.Logger, stager *Stager, document string) {
	name := filepath.Base(document)

	text, e := os.ReadFile(document)
	if e != nil {
		logger.Error("unable to read document, skipping", "document", name, "error", e)
		return
	}

	sections, e := Split(name, string(text))
	if e != nil {
		logger.Error("unable to split document, skipping", "document", name, "error", e)
		return
	}

	if len(sections) == 0 {
		logger.Info("no sections generated", "document", name)
		return
	}

	if e := stager.Stage(name, sections); e != nil {
		logger.Error("unable to stage document, skipping", "document", name, "error", e)
		return
	}

	logger.Info("staged document", "document", name, "sections", len(sections))
}

// install copies the compiled *.target units out of staging -- quadlet itself ignores target files -- and materializes each one's install directives in
// the output tree. A pre-existing destination file fails that target only.
func (g *Generator) install(logger *slog.Logger) error {
	targets, e := filepath.Glob(filepath.Join(g.Staging, "*.target"))
	if e != nil {
		return fmt.Errorf("unable to enumerate targets in %q: %w", g.Staging, e)
	}

	for _, source := range targets {
		name := filepath.Base(source)
		destination := filepath.Join(g.Output, name)

		if _, e := os.Lstat(destination); e == nil {
			logger.Error("target already exists, skipping", "target", name, "path", destination)
			continue
		} else if !errors.Is(e, fs.ErrNotExist) {
			return fmt.Errorf("unable to stat %q: %w", destination, e)
		}

		text, e := os.ReadFile(source)
		if e != nil {
			return fmt.Errorf("unable to read %q: %w", source, e)
		}

		if e := os.WriteFile(destination, text, 0o644); e != nil {
			return fmt.Errorf("unable to copy %q to %q: %w", name, g.Output, e)
		}

		parsed, e := Parse(string(text))
		if e != nil {
			logger.Error("unable to parse target, skipping install section", "target", name, "error", e)
			continue
		}

		directives := Resolve(parsed)
		if directives.Empty() {
			logger.Info("no install section", "target", name)
			continue
		}

		records, e := Materialize(directives, destination, g.Output)
		for _, record := range records {
			logger.Info("created install symlink", "link", record.Path(), "target", record.Target)
		}

		if e != nil {
			logger.Error("unable to materialize install symlinks", "target", name, "error", e)
		}
	}

	return nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}

	return slog.Default()
}
