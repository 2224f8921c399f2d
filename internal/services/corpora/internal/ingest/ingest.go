// Package ingest moves whole corpora between the database and the file
// layout shared by the command line import and dump commands.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/exchange"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"golang.org/x/sync/errgroup"
)

// Bundle is a corpus read from files: its tokens and the allowed values of
// the control list to create with it.
type Bundle struct {
	Tokens  []model.WordToken
	Allowed map[model.Field][]model.AllowedValue
}

// ReadFile reads a single token file.
func ReadFile(fsys fs.FS, name string) ([]model.WordToken, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	tokens, err := exchange.ReadTokens(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return tokens, nil
}

// ReadDir reads the token file and the allowed value files of a directory
// concurrently. Only the token file is required.
func ReadDir(ctx context.Context, fsys fs.FS) (Bundle, error) {
	b := Bundle{Allowed: make(map[model.Field][]model.AllowedValue, len(model.Fields))}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tokens, err := ReadFile(fsys, exchange.TokensFile)
		if err != nil {
			return err
		}

		mu.Lock()
		b.Tokens = tokens
		mu.Unlock()
		return nil
	})

	for _, f := range model.Fields {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			vs, err := readAllowed(fsys, f)
			if err != nil {
				return err
			}

			mu.Lock()
			b.Allowed[f] = vs
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}

	return b, nil
}

func readAllowed(fsys fs.FS, f model.Field) ([]model.AllowedValue, error) {
	name := exchange.AllowedFile(f)
	file, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer file.Close()

	vs, err := exchange.ReadAllowed(f, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return vs, nil
}

// WriteDir dumps tokens and allowed values to dir using the file names
// ReadDir expects, creating dir when needed.
func WriteDir(dir string, tokens []model.WordToken, allowed map[model.Field][]model.AllowedValue) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	err := writeFile(filepath.Join(dir, exchange.TokensFile), func(f *os.File) error {
		return exchange.WriteTokens(f, tokens)
	})
	if err != nil {
		return err
	}

	for _, fld := range model.Fields {
		err := writeFile(filepath.Join(dir, exchange.AllowedFile(fld)), func(f *os.File) error {
			return exchange.WriteAllowed(fld, f, allowed[fld])
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}
