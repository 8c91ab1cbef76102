package processing

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/systemstart/pipegen/pkg/api"
)

// ErrInputDirectory marks a discovery root that is missing or not a
// readable directory.
var ErrInputDirectory = errors.New("invalid input directory")

// DiscoverPipelines returns the files under root matching pattern (default
// api.DefaultFilePattern) whose directory is at most maxDepth levels below
// root. A maxDepth of -1 means unlimited. Results are sorted by depth, then
// by path.
func DiscoverPipelines(root, pattern string, maxDepth int) ([]string, error) {
	if pattern == "" {
		pattern = api.DefaultFilePattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputDirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputDirectory, root)
	}

	matches, err := doublestar.Glob(os.DirFS(absRoot), pattern,
		doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var rel []string
	for _, m := range matches {
		if maxDepth >= 0 && pathDepth(path.Dir(m)) > maxDepth {
			continue
		}
		rel = append(rel, m)
	}

	slices.SortFunc(rel, func(a, b string) int {
		return cmp.Or(pathDepth(path.Dir(a))-pathDepth(path.Dir(b)), strings.Compare(a, b))
	})

	paths := make([]string, 0, len(rel))
	for _, m := range rel {
		paths = append(paths, filepath.Join(absRoot, filepath.FromSlash(m)))
	}
	return paths, nil
}

// OutputPathFor names the script written beside a discovered pipeline:
// "svc.pipeline.yaml" becomes "svc.Jenkinsfile", "pipeline.yaml" becomes
// "Jenkinsfile".
func OutputPathFor(pipelineFile string) string {
	dir, base := filepath.Split(pipelineFile)

	name := base
	for _, suffix := range []string{".yaml", ".yml", ".pipeline"} {
		name = strings.TrimSuffix(name, suffix)
	}
	if name == "" || name == "pipeline" {
		return filepath.Join(dir, api.DefaultOutputFile)
	}
	return filepath.Join(dir, name+"."+api.DefaultOutputFile)
}

func pathDepth(p string) int {
	if p == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(p), "/") + 1
}
