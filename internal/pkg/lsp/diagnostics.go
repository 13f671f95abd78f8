package lsp

import (
	"duo-compiler/internal/pkg/ast"
	"duo-compiler/internal/pkg/common"
	"errors"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"pkg.nimblebun.works/go-lsp"
)

// Diagnostics groups located errors by the document they point into.
// Errors without any location are returned separately; they have no
// document to be shown in. Swallowed errors are dropped.
func Diagnostics(errs []error) (map[lsp.DocumentURI][]lsp.Diagnostic, []error) {
	return collect(errs, nil)
}

// DiagnosticsWithWarnings is Diagnostics for a log holding warnings too.
func DiagnosticsWithWarnings(log *common.LogWriter) (map[lsp.DocumentURI][]lsp.Diagnostic, []error) {
	result, unlocated := collect(log.Errors(), nil)
	return collect(log.Warnings(), &accumulator{result: result, unlocated: unlocated, severity: lsp.DSWarning})
}

type accumulator struct {
	result    map[lsp.DocumentURI][]lsp.Diagnostic
	unlocated []error
	severity  lsp.DiagnosticSeverity
}

func collect(errs []error, acc *accumulator) (map[lsp.DocumentURI][]lsp.Diagnostic, []error) {
	if acc == nil {
		acc = &accumulator{result: map[lsp.DocumentURI][]lsp.Diagnostic{}, severity: lsp.DSError}
	}
	for _, err := range common.Flatten(errs...) {
		if common.IsSwallowed(err) {
			continue
		}
		var e common.Error
		if !errors.As(err, &e) {
			acc.unlocated = append(acc.unlocated, err)
			continue
		}
		if e.Location.IsEmpty() {
			if len(e.Extra) == 0 {
				acc.unlocated = append(acc.unlocated, err)
				continue
			}
			e.Location = e.Extra[0]
			e.Extra = e.Extra[1:]
		}
		uri := pathToUri(e.Location.FilePath())
		acc.result[uri] = append(acc.result[uri], diagnostic(e, acc.severity))
	}
	return acc.result, acc.unlocated
}

func diagnostic(e common.Error, severity lsp.DiagnosticSeverity) lsp.Diagnostic {
	message := e.Message
	if e.Kind == common.KindImpossible {
		message = "internal compiler error: " + message
	}
	var related []lsp.DiagnosticRelatedInformation
	for _, l := range e.Extra {
		if l.IsEmpty() || l.EqualsTo(e.Location) {
			continue
		}
		related = append(related, lsp.DiagnosticRelatedInformation{
			Location: locToLocation(l),
			Message:  "related to " + e.Kind.String(),
		})
	}
	return lsp.Diagnostic{
		Range:              locToRange(e.Location),
		Severity:           severity,
		Message:            message,
		RelatedInformation: related,
	}
}

// PublishParams turns diagnostics into publishDiagnostics notifications,
// ordered by document. Documents in clear that have no diagnostics get an
// empty notification, resetting what the editor shows for them.
func PublishParams(diagnostics map[lsp.DocumentURI][]lsp.Diagnostic, clear ...ast.Location) []lsp.PublishDiagnosticsParams {
	uris := maps.Keys(diagnostics)
	for _, loc := range clear {
		uri := pathToUri(loc.FilePath())
		if _, ok := diagnostics[uri]; !ok && !slices.Contains(uris, uri) {
			uris = append(uris, uri)
		}
	}
	slices.Sort(uris)

	params := make([]lsp.PublishDiagnosticsParams, len(uris))
	for i, uri := range uris {
		dsx := diagnostics[uri]
		if dsx == nil {
			dsx = []lsp.Diagnostic{}
		}
		params[i] = lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: dsx}
	}
	return params
}

// Path returns the file path a document URI refers to.
func Path(uri lsp.DocumentURI) string {
	return uriToPath(uri)
}
