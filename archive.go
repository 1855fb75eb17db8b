package main

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// ImagePath identifies an image on disk or inside an archive.
type ImagePath struct {
	Path        string // Local file path or archive:entry format
	ArchivePath string // Empty for regular files, path to archive for entries
	EntryPath   string // Empty for regular files, path within archive for entries
}

// NewFileImagePath returns the ImagePath of a regular file, made absolute.
func NewFileImagePath(path string) ImagePath {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return ImagePath{Path: path}
}

func newArchiveImagePath(archivePath, entryPath string) ImagePath {
	return ImagePath{
		Path:        archivePath + ":" + entryPath,
		ArchivePath: archivePath,
		EntryPath:   entryPath,
	}
}

// InArchive reports whether the image is an archive entry.
func (p ImagePath) InArchive() bool {
	return p.ArchivePath != ""
}

// Name returns the base name of the file or archive entry.
func (p ImagePath) Name() string {
	if p.InArchive() {
		return filepath.Base(filepath.FromSlash(p.EntryPath))
	}
	return filepath.Base(p.Path)
}

// Container returns the directory or archive that holds the image.
func (p ImagePath) Container() string {
	if p.InArchive() {
		return p.ArchivePath
	}
	return filepath.Dir(p.Path)
}

func isArchiveExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

func isSupportedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif", ".tif", ".tiff":
		return true
	default:
		return false
	}
}

// errStopWalk ends an archive walk early without reporting an error.
var errStopWalk = errors.New("stop walk")

// archiveVisitor is called for every entry of an archive. open is only
// valid during the call.
type archiveVisitor func(name string, isDir bool, open func() (io.ReadCloser, error)) error

// walkArchive calls visit for each entry in archive order. Returning
// errStopWalk from visit ends the walk successfully.
func walkArchive(archivePath string, visit archiveVisitor) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(archivePath)); ext {
	case ".zip":
		err = walkZip(archivePath, visit)
	case ".rar":
		err = walkRar(archivePath, visit)
	case ".7z":
		err = walk7z(archivePath, visit)
	default:
		return fmt.Errorf("unsupported archive format: %s", ext)
	}
	if errors.Is(err, errStopWalk) {
		return nil
	}
	return err
}

func walkZip(archivePath string, visit archiveVisitor) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := visit(f.Name, f.FileInfo().IsDir(), f.Open); err != nil {
			return err
		}
	}
	return nil
}

// walkRar streams the archive; entries can only be read in order.
func walkRar(archivePath string, visit archiveVisitor) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return err
	}
	open := func() (io.ReadCloser, error) { return io.NopCloser(r), nil }
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := visit(header.Name, header.IsDir, open); err != nil {
			return err
		}
	}
}

func walk7z(archivePath string, visit archiveVisitor) error {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := visit(f.Name, f.FileInfo().IsDir(), f.Open); err != nil {
			return err
		}
	}
	return nil
}

// readArchiveEntry returns the bytes of an archive entry.
func readArchiveEntry(p ImagePath) ([]byte, error) {
	var data []byte
	err := walkArchive(p.ArchivePath, func(name string, isDir bool, open func() (io.ReadCloser, error)) error {
		if isDir || name != p.EntryPath {
			return nil
		}
		rc, err := open()
		if err != nil {
			return err
		}
		defer rc.Close()
		if data, err = io.ReadAll(rc); err != nil {
			return err
		}
		return errStopWalk
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("entry %s not found in %s", p.EntryPath, p.ArchivePath)
	}
	return data, nil
}

// processArchive lists the image entries of an archive in archive order.
func processArchive(archivePath string) ([]ImagePath, error) {
	images := []ImagePath{}
	if !isArchiveExt(archivePath) {
		return images, nil
	}

	err := walkArchive(archivePath, func(name string, isDir bool, _ func() (io.ReadCloser, error)) error {
		if !isDir && isSupportedExt(name) {
			images = append(images, newArchiveImagePath(archivePath, name))
		}
		return nil
	})
	if err != nil {
		log.Printf("Error: Failed to process archive %s: %v", archivePath, err)
		return []ImagePath{}, err
	}
	return images, nil
}
