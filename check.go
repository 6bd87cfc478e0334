package monkey

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/podhmo/monkey/parser"
)

// FileDiagnostics holds the parse diagnostics of one script file.
type FileDiagnostics struct {
	Path        string
	Diagnostics []string
}

// CheckFiles parses the given files concurrently without evaluating them.
// The returned slice keeps the order of paths. A file that cannot be read
// stops the check and its error is returned.
func CheckFiles(ctx context.Context, paths ...string) ([]FileDiagnostics, error) {
	results := make([]FileDiagnostics, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			_, diagnostics := parser.Parse(string(source))
			results[i] = FileDiagnostics{Path: path, Diagnostics: diagnostics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
