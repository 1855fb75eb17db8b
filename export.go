package main

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/ncruces/zenity"
	"golang.design/x/clipboard"
)

// encodePNG encodes img as PNG.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportPNG writes img to path as PNG. A missing .png extension is added;
// the final path is returned.
func ExportPNG(path string, img image.Image) (string, error) {
	if img == nil {
		return "", ErrNoImage
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// exportName suggests a file name for exporting p.
func exportName(p ImagePath) string {
	name := p.Name()
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
}

// Clipboard receives copied images.
type Clipboard interface {
	CopyImage(img image.Image) error
}

// systemClipboard is the OS clipboard.
type systemClipboard struct {
	once    sync.Once
	initErr error
}

func (c *systemClipboard) CopyImage(img image.Image) error {
	if img == nil {
		return ErrNoImage
	}
	c.once.Do(func() {
		c.initErr = clipboard.Init()
	})
	if c.initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", c.initErr)
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

// Dialogs shows native file pickers. Both methods block and return
// zenity.ErrCanceled when the user cancels.
type Dialogs interface {
	OpenImage() (string, error)
	SavePNG(defaultName string) (string, error)
}

type zenityDialogs struct{}

var imageFileFilters = zenity.FileFilters{
	{Name: "Images", Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.bmp", "*.gif", "*.webp", "*.tif", "*.tiff"}, CaseFold: true},
	{Name: "Archives", Patterns: []string{"*.zip", "*.rar", "*.7z"}, CaseFold: true},
	{Name: "All files", Patterns: []string{"*"}},
}

func (zenityDialogs) OpenImage() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Open image"),
		imageFileFilters,
	)
}

func (zenityDialogs) SavePNG(defaultName string) (string, error) {
	return zenity.SelectFileSave(
		zenity.Title("Export as PNG"),
		zenity.Filename(defaultName),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{Name: "PNG image", Patterns: []string{"*.png"}, CaseFold: true}},
	)
}
