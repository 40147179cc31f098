// Package staticfiles collects static assets into a single serving root.
//
// It mirrors the behavior of framework "collect static" tooling: every
// configured source directory is walked and its files are copied into the
// root, with later sources overriding earlier ones on path collisions. A
// manifest of content hashes makes the step idempotent: when nothing
// changed since the last collection, the step is already satisfied and
// the copy is skipped.
package staticfiles

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/seefood/mooring/internal/logger"
)

// ManifestName is the manifest file written at the root of the collected
// tree.
const ManifestName = "manifest.json"

// Collector copies static assets from source directories into a root.
type Collector struct {
	sources []string
	root    string
}

// Result summarizes a collection run.
type Result struct {
	// Copied is the number of files written into the root.
	Copied int

	// Sources is the number of source directories that existed and were
	// walked.
	Sources int
}

// New returns a Collector for the given source directories and root.
func New(sources []string, root string) *Collector {
	return &Collector{sources: sources, root: root}
}

// Satisfied reports whether the collected tree matches the current
// sources, by comparing the stored manifest against a fresh scan. A
// missing or unreadable manifest means not satisfied.
func (c *Collector) Satisfied(ctx context.Context) (bool, error) {
	stored, err := c.readManifest()
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	current, err := c.scan(ctx)
	if err != nil {
		return false, err
	}

	if len(stored) != len(current) {
		return false, nil
	}
	for path, hash := range current {
		if stored[path] != hash {
			return false, nil
		}
	}
	return true, nil
}

// Collect copies every source file into the root and writes the manifest.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(c.root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create static root: %w", err)
	}

	res := &Result{}
	manifest := map[string]string{}

	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			logger.Warn("static source missing, skipping", "dir", src)
			continue
		}
		res.Sources++

		err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}

			hash, err := c.copyFile(path, filepath.Join(c.root, rel))
			if err != nil {
				return fmt.Errorf("failed to copy %s: %w", rel, err)
			}

			manifest[filepath.ToSlash(rel)] = hash
			res.Copied++
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if err := c.writeManifest(manifest); err != nil {
		return nil, err
	}

	logger.Info("static assets collected",
		"files", res.Copied, "sources", res.Sources, "root", c.root)
	return res, nil
}

// scan hashes every file in the sources without copying anything,
// applying the same later-source-wins override rule as Collect.
func (c *Collector) scan(ctx context.Context) (map[string]string, error) {
	manifest := map[string]string{}

	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			hash, err := hashFile(path)
			if err != nil {
				return err
			}
			manifest[filepath.ToSlash(rel)] = hash
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return manifest, nil
}

func (c *Collector) copyFile(src, dst string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *Collector) manifestPath() string {
	return filepath.Join(c.root, ManifestName)
}

func (c *Collector) readManifest() (map[string]string, error) {
	data, err := os.ReadFile(c.manifestPath())
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("corrupt static manifest: %w", err)
	}
	return m, nil
}

func (c *Collector) writeManifest(m map[string]string) error {
	// encoding/json sorts map keys, keeping the manifest diffable.
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.manifestPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write static manifest: %w", err)
	}
	return nil
}
