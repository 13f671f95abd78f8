package lsp

import (
	"duo-compiler/internal/pkg/ast"
	"strings"

	"pkg.nimblebun.works/go-lsp"
)

func uriToPath(uri lsp.DocumentURI) string {
	return strings.TrimPrefix(string(uri), "file://")
}

func pathToUri(path string) lsp.DocumentURI {
	return lsp.DocumentURI("file://" + path)
}

func locToRange(loc ast.Location) lsp.Range {
	line, c, eline, ec := loc.GetLineAndColumn()
	return lsp.Range{
		Start: lsp.Position{Line: line - 1, Character: c - 1},
		End:   lsp.Position{Line: eline - 1, Character: ec - 1},
	}
}

func locToLocation(loc ast.Location) lsp.Location {
	return lsp.Location{
		URI:   pathToUri(loc.FilePath()),
		Range: locToRange(loc),
	}
}
