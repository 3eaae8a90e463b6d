// Package cli implements natded's command-line entry point: the
// check/prove/export/history/serve subcommands (SPEC_FULL.md §9),
// dispatched by hand off os.Args the way the teacher's own CLI dispatches
// funxy's subcommands (pkg/cli/entry.go, cmd/funxy/main.go) — a switch
// over runXxx(args) int functions rather than a flag-parsing framework —
// and wrapped in the same top-level panic recovery (Run below).
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"github.com/natded/natded/internal/diagnostics"
	"github.com/natded/natded/internal/driver"
	"github.com/natded/natded/internal/export"
	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/lexer"
	"github.com/natded/natded/internal/parser"
	"github.com/natded/natded/internal/prop"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prover"
	"github.com/natded/natded/internal/rpc"
	"github.com/natded/natded/internal/store"
)

// defaultHistoryDB is where `natded check`/`natded history` persist and
// read run records when no --db flag or NATDED_HISTORY_DB override it.
const defaultHistoryDB = ".natded/history.db"

// Run is the CLI's entry point: os.Exit(cli.Run()) from cmd/natded.
// It wraps dispatch in the same recover-and-report pattern the teacher's
// own Run uses, re-panicking under DEBUG=1 for a stack trace.
func Run() int {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()
	return dispatch(os.Args)
}

func dispatch(args []string) int {
	if len(args) < 2 {
		printUsage(os.Stderr)
		return 2
	}

	switch args[1] {
	case "check":
		return runCheck(args[2:])
	case "prove":
		return runProve(args[2:])
	case "export":
		return runExport(args[2:])
	case "history":
		return runHistory(args[2:])
	case "serve":
		return runServe(args[2:])
	case "-help", "--help", "help":
		printUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "natded: unknown command %q\n", args[1])
		printUsage(os.Stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `usage: natded <command> [arguments]

commands:
  check   <file>            typecheck a .nd file, discharging sorry goals with the prover
  prove   <file>            prove a single quantifier-free proposition
  export  <file>            erase a fully-checked proof term to an ML-shaped program
  history [-n N] [--db P]   list recent check runs
  serve   --addr :PORT      serve Verify over gRPC`)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// runCheck implements `natded check <file>`.
func runCheck(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: natded check <file>")
		return 2
	}
	path := args[0]
	source, err := readFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	result, err := driver.Verify(context.Background(), source, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "natded: internal error:", err)
		return 1
	}
	reportResult(os.Stdout, result, source, isTerminal(os.Stdout))

	if s, err := store.Open(resolveHistoryDB()); err == nil {
		_ = s.Save(context.Background(), source, path, result)
		s.Close()
	}

	if !result.OK() {
		return 1
	}
	return 0
}

func reportResult(w io.Writer, result *driver.VerifyResult, source string, colorize bool) {
	for _, d := range result.Diagnostics {
		if colorize {
			fmt.Fprintln(w, diagnostics.Render(d, source))
		} else {
			fmt.Fprintln(w, d.Error())
		}
	}
	if result.Type.Prop != nil || result.Type.IsDatatype {
		fmt.Fprintf(w, "inferred type: %s\n", result.Type.String())
	}
	for i, g := range result.Goals {
		fmt.Fprintf(w, "goal %d: %s\n", i+1, g.Solvability)
	}
	if result.OK() {
		fmt.Fprintln(w, "OK")
	}
}

// runProve implements `natded prove <file>`: the file holds one bare
// proposition, treated directly as a goal for the sequent prover, with
// no declarations and no proof term (spec.md §7).
func runProve(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: natded prove <file>")
		return 2
	}
	source, err := readFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	tokens := lexer.Tokenize(source)
	p := parser.New(tokens)
	goal := p.ParseProp()
	for _, e := range p.Errors() {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if len(p.Errors()) > 0 {
		return 1
	}

	witness, ok := proveRecovered(goal)
	if !ok {
		fmt.Fprintln(os.Stdout, "unprovable (or outside the quantifier-free fragment the prover decides)")
		return 1
	}
	fmt.Fprintln(os.Stdout, "provable; witness:")
	ml, err := export.ToML(witness)
	if err != nil {
		fmt.Fprintln(os.Stdout, "(witness could not be erased to ML:", err, ")")
		return 0
	}
	fmt.Fprint(os.Stdout, ml)
	return 0
}

// proveRecovered is the CLI's own recover point for prover.Prove called
// directly on user-supplied input, rather than on a driver-produced
// sorry goal: a quantified or open proposition here is a usage error to
// report, not a crash to propagate.
func proveRecovered(goal *prop.Prop) (witness proofterm.Term, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return prover.Prove(goal, ident.NewFactory())
}

// runExport implements `natded export <file>`.
func runExport(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: natded export <file>")
		return 2
	}
	path := args[0]
	source, err := readFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	result, err := driver.Verify(context.Background(), source, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "natded: internal error:", err)
		return 1
	}
	if !result.OK() {
		reportResult(os.Stderr, result, source, false)
		fmt.Fprintln(os.Stderr, "natded: export requires a fully-checked program with no open goals")
		return 1
	}
	if result.Program == nil || result.Program.Term == nil {
		fmt.Fprintln(os.Stderr, "natded: nothing to export")
		return 1
	}
	if !export.ExportableType(result.Type) {
		fmt.Fprintln(os.Stderr, "natded: cannot export a quantified top-level type")
		return 1
	}

	ml, err := export.ToML(result.Program.Term)
	if err != nil {
		fmt.Fprintln(os.Stderr, "natded:", err)
		return 1
	}
	fmt.Fprint(os.Stdout, ml)
	return 0
}

// runHistory implements `natded history [-n N] [--db path]`.
func runHistory(args []string) int {
	limit := 20
	dbPath := resolveHistoryDB()
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-n":
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					limit = n
				}
				i++
			}
		case "--db":
			if i+1 < len(args) {
				dbPath = args[i+1]
				i++
			}
		}
	}

	s, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "natded:", err)
		return 1
	}
	defer s.Close()

	records, err := s.History(context.Background(), limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "natded:", err)
		return 1
	}
	for _, r := range records {
		status := "FAIL"
		if r.OK {
			status = "OK"
		}
		fmt.Printf("%s  %-4s  %s  goals %d/%d solved  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), status, r.FilePath, r.SolvedGoals, r.Goals, r.RequestID)
	}
	return 0
}

// runServe implements `natded serve --addr :PORT [--db path]`.
func runServe(args []string) int {
	addr := ":50051"
	dbPath := resolveHistoryDB()
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--addr":
			if i+1 < len(args) {
				addr = args[i+1]
				i++
			}
		case "--db":
			if i+1 < len(args) {
				dbPath = args[i+1]
				i++
			}
		}
	}

	s, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "natded:", err)
		return 1
	}
	defer s.Close()

	verify := func(ctx context.Context, source, filePath string) (*driver.VerifyResult, error) {
		result, err := driver.Verify(ctx, source, filePath)
		if err == nil {
			_ = s.Save(ctx, source, filePath, result)
		}
		return result, err
	}

	fmt.Fprintf(os.Stdout, "natded: serving NatDed.Verify on %s\n", addr)
	if err := rpc.Serve(addr, verify); err != nil {
		fmt.Fprintln(os.Stderr, "natded:", err)
		return 1
	}
	return 0
}

func resolveHistoryDB() string {
	if v := os.Getenv("NATDED_HISTORY_DB"); v != "" {
		return v
	}
	return defaultHistoryDB
}
