// Package filer is the file system interface used by logrotatorr and its
// subpackages. You may override this to gain more control of operations in your app.
package filer

//go:generate mockgen -destination=../mocks/filer.go -package=mocks golift.io/logrotatorr/filer Filer
//go:generate mockgen -destination=../mocks/fileinfo.go -package=mocks os FileInfo

import (
	"errors"
	"io/fs"
	"os"
)

// Filer is used to override file-managing procedures.
type Filer interface {
	Stat(fileName string) (os.FileInfo, error)
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
	Rename(fileName, newPath string) error
	Remove(fileName string) error
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(fileName string) ([]byte, error)
	WriteFile(fileName string, data []byte, perm os.FileMode) error
}

// Default returns a Filer interface that works, using default procedures.
func Default() Filer {
	return &File{}
}

// IsNotExist reports whether err says a file or one of its parent directories is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// File can be embedded in a custom type to provide the missing methods for the Filer interface.
type File struct{}

// Stat provides os.Stat.
func (f *File) Stat(fileName string) (os.FileInfo, error) {
	return os.Stat(fileName)
}

// OpenFile provides os.OpenFile.
func (f *File) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

// Rename provides os.Rename.
func (f *File) Rename(fileName, newPath string) error {
	return os.Rename(fileName, newPath)
}

// Remove provides os.Remove.
func (f *File) Remove(fileName string) error {
	return os.Remove(fileName)
}

// MkdirAll provides os.MkdirAll.
func (f *File) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// ReadFile provides os.ReadFile.
func (f *File) ReadFile(fileName string) ([]byte, error) {
	return os.ReadFile(fileName)
}

// WriteFile provides os.WriteFile.
func (f *File) WriteFile(fileName string, data []byte, perm os.FileMode) error {
	return os.WriteFile(fileName, data, perm)
}
