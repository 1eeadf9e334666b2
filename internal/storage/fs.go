package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

type FSArchive struct{ base string }

func NewFSArchive(base string) (*FSArchive, error) {
	if base == "" {
		return nil, errors.New("archive base directory required")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSArchive{base: base}, nil
}

// resolve roots the key before cleaning so ".." segments cannot escape the
// base directory.
func (s *FSArchive) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	return filepath.Join(s.base, filepath.Clean("/"+key)), nil
}

func (s *FSArchive) Put(key string, r io.Reader) (string, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FSArchive) Get(key string) (io.ReadCloser, error) {
	src, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(src)
}
