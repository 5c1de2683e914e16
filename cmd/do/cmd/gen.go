package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type generator struct {
	name   string
	args   []string
	skipFn func() bool
}

func GenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen",
		Short: "Run code generators (templ, mockgen) in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen()
		},
	}
}

func runGen() error {
	generators := []generator{
		{
			name:   "templ",
			args:   []string{"tool", "templ", "generate", "-path", "internal"},
			skipFn: skipTempl,
		},
	}
	_ = filepath.WalkDir("internal", func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		if !hasGenerateDirective(path) {
			return nil
		}
		source := path
		mocks := filepath.Join(filepath.Dir(path), "mocks_test.go")
		generators = append(generators, generator{
			name:   filepath.Dir(path),
			args:   []string{"generate", "./" + filepath.Dir(path)},
			skipFn: func() bool { return !Stale(mocks, source) },
		})
		return nil
	})

	start := time.Now()
	var wg sync.WaitGroup
	errCh := make(chan error, len(generators))

	for _, g := range generators {
		wg.Add(1)
		go func(g generator) {
			defer wg.Done()

			if g.skipFn != nil && g.skipFn() {
				fmt.Printf("[%s] skipped\n", g.name)
				return
			}

			genStart := time.Now()
			cmd := exec.Command("go", g.args...)
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			err := cmd.Run()
			if err != nil {
				errCh <- fmt.Errorf("%s: %w", g.name, err)
				return
			}

			fmt.Printf("[%s] done (%s)\n", g.name, time.Since(genStart).Round(time.Millisecond))
		}(g)
	}

	wg.Wait()
	close(errCh)

	var genErr error
	for err := range errCh {
		fmt.Println("error:", err)
		genErr = multierr.Append(genErr, err)
	}
	if genErr != nil {
		return fmt.Errorf("generation failed: %w", genErr)
	}

	fmt.Printf("done (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// skipTempl reports whether every .templ file has a newer _templ.go.
func skipTempl() bool {
	fresh := true
	_ = filepath.WalkDir("internal", func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".templ") {
			return nil
		}
		if isOlder(strings.TrimSuffix(path, ".templ")+"_templ.go", path) {
			fresh = false
			return filepath.SkipAll
		}
		return nil
	})
	return fresh
}

func hasGenerateDirective(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "//go:generate mockgen")
}
