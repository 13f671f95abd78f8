package main

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/lsp"
	"duo-compiler/internal/pkg/processors/checker"
	duoc "duo-compiler/pkg"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	normalize := flag.String("normalize", "", "print the normal form of a let binding without parameters")
	xfuncType := flag.String("xfunc", "", "replace a data or codata type by its dual and print the result")
	diagnostics := flag.Bool("diagnostics", false, "print errors as LSP publishDiagnostics parameters in JSON")
	repl := flag.Bool("repl", false, "inspect the checked module interactively")
	trace := flag.Bool("trace", false, "print elaboration traces")
	fuel := flag.Int("fuel", 0, "reduction steps allowed per normalization (0 means default)")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("duo compiler version: %s\n", duoc.Version)
		return
	}

	log := &common.LogWriter{}
	opts := checker.Options{Fuel: *fuel}
	if *trace {
		opts.Tracer = common.NewLogTracer(log)
	}

	if len(flag.Args()) != 1 {
		log.Err(common.NewSystemError(fmt.Errorf("expected one lowered module, run compiler as `duo <module.json>`")))
	} else if mod := duoc.CheckFile(flag.Arg(0), opts, log); mod != nil {
		if *xfuncType != "" {
			if result := duoc.Xfunc(mod, ast.Identifier(*xfuncType), opts, log); result != nil {
				log.Info(result.Module.String())
				mod = result.Module
			}
		}
		if *normalize != "" {
			nf, typ, err := duoc.Normalize(mod, ast.Identifier(*normalize), opts)
			if err != nil {
				log.Err(err)
			} else {
				log.Info(fmt.Sprintf("%s : %s", nf, typ))
			}
		}
		if *repl {
			log.Flush(os.Stdout)
			runRepl(mod, opts, log)
		}
	}

	failed := log.HasErrors()
	if *diagnostics {
		failed = printDiagnostics(log) || failed
	}
	log.Flush(os.Stdout)
	if failed {
		os.Exit(1)
	}
}

// printDiagnostics moves the located errors and warnings of log to stdout
// as JSON. It reports whether there were any.
func printDiagnostics(log *common.LogWriter) bool {
	diagnostics, unlocated := lsp.DiagnosticsWithWarnings(log)
	messages, traces := log.Messages(), log.Traces()
	log.Flush(io.Discard)
	log.Err(unlocated...)
	for _, msg := range traces {
		log.Trace(msg)
	}
	for _, msg := range messages {
		log.Info(msg)
	}

	data, err := json.MarshalIndent(lsp.PublishParams(diagnostics), "", "  ")
	if err != nil {
		log.Err(common.NewSystemError(err))
	} else {
		fmt.Println(string(data))
	}
	return len(diagnostics) > 0
}
