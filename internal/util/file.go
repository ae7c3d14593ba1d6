package util

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// WriteFileAtomic replaces the content of the file at path with the data read from r,
// readers of the file never observe a partially written state.
func WriteFileAtomic(path string, r io.Reader) error {
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return err
	}
	return atomic.WriteFile(path, r)
}
