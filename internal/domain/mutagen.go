// Package domain holds the mutation-testing lab: mutation generation, the
// phase pipeline, and the orchestrator tying them together.
package domain

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	m "mutlab.dev/pkg/mutlab/internal/model"
	"mutlab.dev/pkg/mutlab/internal/domain/mutagens"
)

// Mutagen enumerates the candidate mutations for a source tree. The returned
// order is deterministic (by file, then offset) before any shuffling.
type Mutagen interface {
	Mutations(ctx context.Context, tree string) ([]m.Mutation, error)
}

type astMutagen struct {
	threads int
}

// NewMutagen constructs the go/ast based mutagen.
func NewMutagen() Mutagen {
	return &astMutagen{threads: runtime.NumCPU()}
}

// Mutations parses every non-test Go file under tree and collects the
// mutations the built-in mutagens produce, scanning files in parallel.
func (g *astMutagen) Mutations(ctx context.Context, tree string) ([]m.Mutation, error) {
	files, err := listSourceFiles(tree)
	if err != nil {
		return nil, err
	}

	var (
		mu  sync.Mutex
		all []m.Mutation
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.threads)

	for _, rel := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			muts, err := mutateFile(tree, rel)
			if err != nil {
				return err
			}

			mu.Lock()
			all = append(all, muts...)
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].File != all[j].File {
			return all[i].File < all[j].File
		}

		if all[i].Offset != all[j].Offset {
			return all[i].Offset < all[j].Offset
		}

		return all[i].Replacement < all[j].Replacement
	})

	slog.Info("enumerated mutations", "tree", tree, "files", len(files), "mutations", len(all))

	return all, nil
}

// listSourceFiles returns tree-relative paths of mutation candidates. Test
// files, vendored code, testdata fixtures, hidden directories and the
// build-output target directory are skipped.
func listSourceFiles(tree string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(tree, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}

		name := entry.Name()

		if entry.IsDir() {
			if path == tree {
				return nil
			}

			if name == "target" || name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			return nil
		}

		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(tree, path)
		if err != nil {
			return fmt.Errorf("relative path of %s under %s: %w", path, tree, err)
		}

		files = append(files, rel)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// mutateFile parses one file and runs every mutagen over each function body.
// Only function bodies are mutated; package-level declarations feed types
// and constants whose mutation mostly yields uncompilable trees.
func mutateFile(tree, rel string) ([]m.Mutation, error) {
	src, err := os.ReadFile(filepath.Join(tree, rel))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, rel, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}

	var muts []m.Mutation

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			for _, gen := range mutagens.All {
				muts = append(muts, gen(n, fset, rel, fn.Name.Name)...)
			}

			return true
		})
	}

	for i := range muts {
		muts[i].Diff = renderDiff(rel, src, muts[i])
	}

	return muts, nil
}

// renderDiff renders a unified diff of the file with the mutation applied.
func renderDiff(rel string, src []byte, mu m.Mutation) string {
	mutated, err := spliceMutation(src, mu)
	if err != nil {
		return ""
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(src)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: rel,
		ToFile:   rel + " (mutated)",
		Context:  3,
	})
	if err != nil {
		return ""
	}

	return text
}

// spliceMutation returns src with the mutation's replacement spliced in,
// verifying the original text is still where the mutation says it is.
func spliceMutation(src []byte, mu m.Mutation) ([]byte, error) {
	end := mu.Offset + len(mu.Original)
	if mu.Offset < 0 || end > len(src) || string(src[mu.Offset:end]) != mu.Original {
		return nil, fmt.Errorf("mutation does not match %s at offset %d: expected %q",
			mu.File, mu.Offset, mu.Original)
	}

	mutated := make([]byte, 0, len(src)-len(mu.Original)+len(mu.Replacement))
	mutated = append(mutated, src[:mu.Offset]...)
	mutated = append(mutated, mu.Replacement...)
	mutated = append(mutated, src[end:]...)

	return mutated, nil
}
