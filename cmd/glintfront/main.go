// Command glintfront drives the parser over a source file: it loads the
// file (and any files it `include`s, relative to it), runs the combined
// parse/typecheck pass, and reports either a summary of the checked
// program or the first compile error encountered.
package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/glint-lang/glint/internal/ast"
	"github.com/glint-lang/glint/internal/codegen"
	cerrors "github.com/glint-lang/glint/internal/errors"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/parser"
)

const version = "0.1.0"

func main() { os.Exit(mainRun()) }

// mainRun holds the entire CLI body and returns the process exit code
// instead of calling os.Exit directly, so it can be driven both from main
// and, as a registered command, from the testscript harness.
func mainRun() int {
	fs := flag.NewFlagSet("glintfront", flag.ContinueOnError)
	emitLLVM := fs.Bool("emit-llvm", false, "print an illustrative LLVM IR lowering of the checked program")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Usage = usage
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Println("glintfront", version)
		return 0
	}

	if fs.NArg() != 1 {
		usage()
		return 2
	}

	runID := uuid.New()
	path := fs.Arg(0)
	color := isatty.IsTerminal(os.Stdout.Fd())
	start := time.Now()

	root, err := run(path)
	elapsed := time.Since(start)
	if err != nil {
		reportError(os.Stderr, err, color)
		return 1
	}

	fmt.Printf("ok: %s checked %s values, %s declarations, %s calls in %s (run %s)\n",
		path,
		humanize.Comma(int64(root.ValueCount)),
		humanize.Comma(int64(root.TotalVarDecls)),
		humanize.Comma(int64(root.ProcCallCount)),
		elapsed.Round(time.Microsecond),
		runID.String()[:8],
	)

	if *emitLLVM {
		mod, err := codegen.Build(root)
		if err != nil {
			log.Printf("emit-llvm: %v", err)
			return 0
		}
		fmt.Println(mod.String())
	}
	return 0
}

// run loads path, wires a filesystem-backed include resolver relative to
// its directory, and runs the parser to completion.
func run(path string) (*ast.Root, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	dir := filepath.Dir(path)
	scanner := lexer.NewMultiScanner(path, string(text))
	scanner.SetResolver(func(name string) (string, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", errors.Wrapf(err, "include %q", name)
		}
		return string(data), nil
	})

	root, err := parser.Parse(scanner)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func reportError(w *os.File, err error, color bool) {
	var ce *cerrors.CompileError
	if stderrors.As(err, &ce) {
		if color {
			fmt.Fprintf(w, "\x1b[31merror[%s]\x1b[0m: %s\n", ce.Kind, ce.Error())
		} else {
			fmt.Fprintf(w, "error[%s]: %s\n", ce.Kind, ce.Error())
		}
		if ce.Kind == cerrors.Internal && ce.Cause != nil {
			fmt.Fprintf(w, "%+v\n", ce.Cause)
		}
		return
	}
	fmt.Fprintf(w, "error: %+v\n", err)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: glintfront [flags] <file>\n\n  -emit-llvm\n    \tprint an illustrative LLVM IR lowering of the checked program\n  -version\n    \tprint the version and exit\n")
}
