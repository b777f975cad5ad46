package document

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is a Doc loaded from disk.
type File struct {
	*Doc
	Path string
	mode os.FileMode
}

func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := &File{Path: path, mode: info.Mode().Perm()}
	if len(data) == 0 {
		// an empty file has no lines
		f.Doc = New(nil)
	} else {
		f.Doc = FromText(string(data))
	}
	return f, nil
}

// Save writes the buffer back through a temp file in the same directory.
func (f *File) Save() error {
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(f.Text()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), f.mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
