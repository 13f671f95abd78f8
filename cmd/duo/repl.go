package main

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/ast/syntax"
	"duo-compiler/internal/pkg/ast/typed"
	"duo-compiler/internal/pkg/common"
	"duo-compiler/internal/pkg/processors/checker"
	duoc "duo-compiler/pkg"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const historyFile = ".duo_history"

const replHelp = `:decls          list the checked declarations
:type NAME      show the signature of a declaration
:norm NAME      normalize a let binding without parameters
:xfunc TYPE     replace TYPE by its dual for the rest of the session
:quit           leave`

func runRepl(mod *typed.Module, opts checker.Options, log *common.LogWriter) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		return complete(mod, line)
	})

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	for {
		line, err := ln.Prompt("duo> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			if err != io.EOF {
				log.Err(common.NewSystemError(err))
			}
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		var quit bool
		mod, quit = command(mod, line, opts, log)
		log.Flush(os.Stdout)
		if quit {
			break
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
}

// command runs one REPL line against mod and returns the module the session
// continues with.
func command(mod *typed.Module, line string, opts checker.Options, log *common.LogWriter) (*typed.Module, bool) {
	fields := strings.Fields(line)
	arg := func() (ast.Identifier, bool) {
		if len(fields) != 2 {
			log.Err(fmt.Errorf("%s expects one argument", fields[0]))
			return "", false
		}
		return ast.Identifier(fields[1]), true
	}

	switch fields[0] {
	case ":quit", ":q":
		return mod, true
	case ":help", ":h":
		log.Info(replHelp)
	case ":decls":
		for _, d := range mod.Decls {
			log.Info(string(d.GetName()))
		}
	case ":type":
		if name, ok := arg(); ok {
			if decl, ok := mod.Lookup(name); ok {
				log.Info(signature(decl))
			} else {
				log.Err(common.NewLookupError(ast.Location{}, "no checked declaration `%s`", name))
			}
		}
	case ":norm":
		if name, ok := arg(); ok {
			nf, typ, err := duoc.Normalize(mod, name, opts)
			if err != nil {
				log.Err(err)
			} else {
				log.Info(fmt.Sprintf("%s : %s", nf, typ))
			}
		}
	case ":xfunc":
		if name, ok := arg(); ok {
			result := duoc.Xfunc(mod, name, opts, log)
			if result != nil && !log.HasErrors() {
				log.Info(result.Module.String())
				return result.Module, false
			}
		}
	default:
		log.Err(fmt.Errorf("unknown command `%s`, try :help", fields[0]))
	}
	return mod, false
}

func signature(decl syntax.Declaration) string {
	switch decl.(type) {
	case *syntax.Let:
		let := decl.(*syntax.Let)
		return fmt.Sprintf("%s%s : %s", let.Name, let.Params, let.Typ)
	case *syntax.Def:
		def := decl.(*syntax.Def)
		return fmt.Sprintf("%s.%s%s : %s", def.Self, def.Name, def.Params, def.RetTyp)
	case *syntax.Codef:
		codef := decl.(*syntax.Codef)
		return fmt.Sprintf("%s%s : %s", codef.Name, codef.Params, codef.Typ)
	}
	return decl.String()
}

func complete(mod *typed.Module, line string) []string {
	fields := strings.Fields(line)
	if len(fields) != 1 || strings.HasSuffix(line, " ") {
		if len(fields) == 0 {
			return nil
		}
		prefix := ""
		if len(fields) == 2 {
			prefix = fields[1]
		}
		var result []string
		for _, d := range mod.Decls {
			if strings.HasPrefix(string(d.GetName()), prefix) {
				result = append(result, fields[0]+" "+string(d.GetName()))
			}
		}
		return result
	}
	var result []string
	for _, c := range []string{":decls", ":type", ":norm", ":xfunc", ":quit", ":help"} {
		if strings.HasPrefix(c, fields[0]) {
			result = append(result, c)
		}
	}
	return result
}
