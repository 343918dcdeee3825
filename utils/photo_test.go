package utils

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func TestIsRasterImage(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"photo.png", true},
		{"photo.tiff", true},
		{"photo.svg", false},
		{"photo.webp", false},
		{"document.pdf", false},
		{"noextension", false},
	}
	for _, tc := range tests {
		if got := IsRasterImage(tc.filename); got != tc.want {
			t.Errorf("IsRasterImage(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func writeTestImage(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	path := filepath.Join(dir, "source.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

func TestProcessNomineePhotoBoundsSize(t *testing.T) {
	dir := t.TempDir()
	source := writeTestImage(t, dir, 2400, 1200)
	photoDir := filepath.Join(dir, "photos")

	filename, err := ProcessNomineePhoto(source, photoDir, 1200)
	if err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	if !strings.HasSuffix(filename, ".jpg") {
		t.Errorf("expected a .jpg filename, got %q", filename)
	}

	stored, err := imaging.Open(filepath.Join(photoDir, filename))
	if err != nil {
		t.Fatalf("failed to reopen stored photo: %v", err)
	}
	if stored.Bounds().Dx() > 1200 || stored.Bounds().Dy() > 1200 {
		t.Errorf("stored photo exceeds bound: %dx%d", stored.Bounds().Dx(), stored.Bounds().Dy())
	}
	// aspect ratio preserved by fitting, not squashing
	if stored.Bounds().Dx() != 1200 || stored.Bounds().Dy() != 600 {
		t.Errorf("expected 1200x600 after fit, got %dx%d", stored.Bounds().Dx(), stored.Bounds().Dy())
	}
}

func TestProcessNomineePhotoKeepsSmallImages(t *testing.T) {
	dir := t.TempDir()
	source := writeTestImage(t, dir, 400, 300)
	photoDir := filepath.Join(dir, "photos")

	filename, err := ProcessNomineePhoto(source, photoDir, 1200)
	if err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	stored, err := imaging.Open(filepath.Join(photoDir, filename))
	if err != nil {
		t.Fatalf("failed to reopen stored photo: %v", err)
	}
	if stored.Bounds().Dx() != 400 || stored.Bounds().Dy() != 300 {
		t.Errorf("small image should not be resized, got %dx%d", stored.Bounds().Dx(), stored.Bounds().Dy())
	}
}

func TestProcessNomineePhotoGeneratesUniqueNames(t *testing.T) {
	dir := t.TempDir()
	source := writeTestImage(t, dir, 100, 100)
	photoDir := filepath.Join(dir, "photos")

	first, err := ProcessNomineePhoto(source, photoDir, 1200)
	if err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	second, err := ProcessNomineePhoto(source, photoDir, 1200)
	if err != nil {
		t.Fatalf("processing failed: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct stored filenames, both were %q", first)
	}
}

func TestProcessNomineePhotoRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bogus.jpg")
	if err := os.WriteFile(source, []byte("not an image"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := ProcessNomineePhoto(source, filepath.Join(dir, "photos"), 1200); err == nil {
		t.Fatalf("expected an error for a non-image file")
	}
}
