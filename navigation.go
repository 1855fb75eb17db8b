package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNoImages is returned when a directory or archive holds no supported images.
var ErrNoImages = errors.New("no supported images found")

// DirectoryLister lists the images that sit next to an image.
type DirectoryLister interface {
	ListSiblings(p ImagePath) ([]ImagePath, error)
}

// archiveListingCacheSize bounds how many archive listings FileSystemLister keeps.
const archiveListingCacheSize = 8

// archiveListing is the unsorted entry list of an archive as of modTime/size.
type archiveListing struct {
	modTime time.Time
	size    int64
	images  []ImagePath
}

// FileSystemLister lists plain directories and archives from disk.
// Archive listings are cached until the archive's modification time or
// size changes.
type FileSystemLister struct {
	SortMethod int

	// readArchive lists an archive; nil means processArchive.
	readArchive func(path string) ([]ImagePath, error)
	archives    *lru.Cache[string, archiveListing]
}

// ListSiblings returns the sorted images in p's directory, or in p's
// archive for archive entries.
func (l *FileSystemLister) ListSiblings(p ImagePath) ([]ImagePath, error) {
	if p.InArchive() {
		images, err := l.archiveEntries(p.ArchivePath)
		if err != nil {
			return nil, err
		}
		return sortImagePaths(images, l.SortMethod), nil
	}
	return collectImagesFromSameDirectory(p.Path, l.SortMethod)
}

func (l *FileSystemLister) archiveEntries(path string) ([]ImagePath, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive %s: %w", path, err)
	}
	if l.archives == nil {
		l.archives, _ = lru.New[string, archiveListing](archiveListingCacheSize)
	}
	if cached, ok := l.archives.Get(path); ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.images, nil
	}

	read := l.readArchive
	if read == nil {
		read = processArchive
	}
	images, err := read(path)
	if err != nil {
		l.archives.Remove(path)
		return nil, err
	}
	debugLog("Listed %d images in %s", len(images), path)
	l.archives.Add(path, archiveListing{modTime: info.ModTime(), size: info.Size(), images: images})
	return images, nil
}

// sortImagePaths sorts the given image paths using the specified sort strategy.
// Returns a new sorted slice without modifying the original.
func sortImagePaths(images []ImagePath, sortMethod int) []ImagePath {
	return GetSortStrategy(sortMethod).Sort(images)
}

// collectImagesFromSameDirectory collects image files from the same directory as the given file
// Does not include archives or subdirectories - only image files in the same directory
func collectImagesFromSameDirectory(filePath string, sortMethod int) ([]ImagePath, error) {
	dir := filepath.Dir(filePath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var images []ImagePath
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if isSupportedExt(fullPath) {
			images = append(images, ImagePath{Path: fullPath})
		}
	}

	return sortImagePaths(images, sortMethod), nil
}

// resolveOpenPath turns a user supplied path into the image to show.
// Archives resolve to their first image entry in sort order.
func resolveOpenPath(path string, sortMethod int) (ImagePath, error) {
	p := NewFileImagePath(path)
	info, err := os.Stat(p.Path)
	if err != nil {
		return ImagePath{}, &ImageLoadFailure{Path: p.Path, Cause: err}
	}
	if info.IsDir() {
		return ImagePath{}, &ImageLoadFailure{Path: p.Path, Cause: errors.New("is a directory")}
	}
	if !isArchiveExt(p.Path) {
		return p, nil
	}

	images, err := processArchive(p.Path)
	if err != nil {
		return ImagePath{}, &ImageLoadFailure{Path: p.Path, Cause: err}
	}
	if len(images) == 0 {
		return ImagePath{}, &ImageLoadFailure{Path: p.Path, Cause: ErrNoImages}
	}
	return sortImagePaths(images, sortMethod)[0], nil
}

// wrapIndex maps i into [0, n).
func wrapIndex(i, n int) int {
	return ((i % n) + n) % n
}

// Navigator moves between sibling images with wraparound.
type Navigator struct {
	lister DirectoryLister
}

// NewNavigator creates a Navigator backed by lister.
func NewNavigator(lister DirectoryLister) *Navigator {
	return &Navigator{lister: lister}
}

// Locate lists current's siblings and returns them with current's index.
// An image missing from the listing gets index 0.
func (n *Navigator) Locate(current ImagePath) ([]ImagePath, int, error) {
	siblings, err := n.lister.ListSiblings(current)
	if err != nil {
		return nil, 0, err
	}
	if len(siblings) == 0 {
		return nil, 0, ErrNoImages
	}
	for i, s := range siblings {
		if s.Path == current.Path {
			return siblings, i, nil
		}
	}
	return siblings, 0, nil
}

// Step returns the sibling offset positions away from current. When current
// is no longer listed the first sibling is returned. ok is false when the
// listing fails or is empty.
func (n *Navigator) Step(current ImagePath, offset int) (ImagePath, bool) {
	siblings, idx, err := n.Locate(current)
	if err != nil {
		debugLog("Navigation from %s unavailable: %v", current.Path, err)
		return ImagePath{}, false
	}
	if !containsPath(siblings, current) {
		return siblings[0], true
	}
	return siblings[wrapIndex(idx+offset, len(siblings))], true
}

// Next returns the image after current.
func (n *Navigator) Next(current ImagePath) (ImagePath, bool) {
	return n.Step(current, 1)
}

// Previous returns the image before current.
func (n *Navigator) Previous(current ImagePath) (ImagePath, bool) {
	return n.Step(current, -1)
}

func containsPath(paths []ImagePath, p ImagePath) bool {
	for _, q := range paths {
		if q.Path == p.Path {
			return true
		}
	}
	return false
}
