package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	m "kickback.dev/pkg/kickback/internal/model"
)

const recursiveSuffix = "/..."

// OracleStore loads and saves oracle circuits.
type OracleStore interface {
	// Expand resolves files, directories and "dir/..." patterns into the
	// oracle files they contain, in lexical order.
	Expand(ctx context.Context, paths []m.Path) ([]m.Path, error)
	// Load reads one oracle file (YAML definition or OpenQASM).
	Load(ctx context.Context, path m.Path) (m.Circuit, error)
	// Save writes oracle to path, choosing the format from the extension.
	Save(ctx context.Context, path m.Path, oracle m.Circuit) error
}

// LocalOracleStore implements OracleStore on the local filesystem.
type LocalOracleStore struct {
	qasm QASMAdapter
}

// NewLocalOracleStore constructs a LocalOracleStore using qasm for .qasm files.
func NewLocalOracleStore(qasm QASMAdapter) *LocalOracleStore {
	return &LocalOracleStore{qasm: qasm}
}

// IsOracleFile reports whether path has an extension the store understands.
func IsOracleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".qasm":
		return true
	}

	return false
}

// Expand implements OracleStore.
func (s *LocalOracleStore) Expand(ctx context.Context, paths []m.Path) ([]m.Path, error) {
	var files []m.Path

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		root := string(path)
		recursive := strings.HasSuffix(root, recursiveSuffix)

		if recursive {
			root = strings.TrimSuffix(root, recursiveSuffix)
			if root == "" {
				root = "."
			}
		}

		info, err := os.Stat(root)
		if err != nil {
			slog.Error("Failed to stat oracle path", "path", root, "error", err)
			return nil, fmt.Errorf("oracle path %s: %w", root, err)
		}

		if !info.IsDir() {
			files = append(files, m.Path(root))
			continue
		}

		found, err := walkOracles(root, recursive)
		if err != nil {
			return nil, err
		}

		files = append(files, found...)
	}

	return files, nil
}

func walkOracles(root string, recursive bool) ([]m.Path, error) {
	var files []m.Path

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}

			return nil
		}

		if IsOracleFile(path) {
			files = append(files, m.Path(path))
		}

		return nil
	})
	if err != nil {
		slog.Error("Failed to walk oracle directory", "root", root, "error", err)
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// Load implements OracleStore.
func (s *LocalOracleStore) Load(ctx context.Context, path m.Path) (m.Circuit, error) {
	if err := ctx.Err(); err != nil {
		return m.Circuit{}, err
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		slog.Error("Failed to read oracle file", "path", path, "error", err)
		return m.Circuit{}, fmt.Errorf("read oracle: %w", err)
	}

	name := oracleName(path)

	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".qasm":
		oracle, err := s.qasm.Decode(name, data)
		if err != nil {
			return m.Circuit{}, fmt.Errorf("decode %s: %w", path, err)
		}

		return oracle, nil
	case ".yaml", ".yml":
		return decodeDefinition(path, name, data)
	}

	return m.Circuit{}, fmt.Errorf("unsupported oracle file %s (want .yaml, .yml or .qasm)", path)
}

func decodeDefinition(path m.Path, name string, data []byte) (m.Circuit, error) {
	var def m.OracleDefinition

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Failed to decode oracle definition", "path", path, "error", err)
		return m.Circuit{}, fmt.Errorf("decode %s: %w", path, err)
	}

	if def.Name == "" {
		def.Name = name
	}

	oracle, err := def.Circuit()
	if err != nil {
		return m.Circuit{}, fmt.Errorf("%s: %w", path, err)
	}

	return oracle, nil
}

// Save implements OracleStore.
func (s *LocalOracleStore) Save(ctx context.Context, path m.Path, oracle m.Circuit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)

	if strings.EqualFold(filepath.Ext(string(path)), ".qasm") {
		data = s.qasm.Encode(oracle)
	} else {
		data, err = yaml.Marshal(m.DefinitionOf(oracle))
		if err != nil {
			return fmt.Errorf("encode oracle: %w", err)
		}
	}

	if dir := filepath.Dir(string(path)); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			slog.Error("Failed to create oracle directory", "dir", dir, "error", err)
			return fmt.Errorf("create directory: %w", err)
		}
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		slog.Error("Failed to write oracle file", "path", path, "error", err)
		return fmt.Errorf("write oracle: %w", err)
	}

	return nil
}

func oracleName(path m.Path) string {
	base := filepath.Base(string(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
