package utils

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
)

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// ProcessNomineePhoto normalizes an uploaded nominee photo: fixes EXIF
// orientation, bounds the longest side to maxSize and re-encodes as JPEG
// under a UUID filename in photoDir. It returns the generated filename,
// which is what gets stored as the nominee's photo reference.
func ProcessNomineePhoto(sourcePath, photoDir string, maxSize int) (string, error) {
	if err := os.MkdirAll(photoDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create photo directory %s: %w", photoDir, err)
	}

	img, err := imaging.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", sourcePath, err)
	}
	img = applyExifOrientation(sourcePath, img)

	if img.Bounds().Dx() > maxSize || img.Bounds().Dy() > maxSize {
		img = imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
	}

	photoUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID for photo: %w", err)
	}
	photoFilename := photoUUID.String() + ".jpg" // Save all as jpg with UUID name
	photoSavePath := filepath.Join(photoDir, photoFilename)

	if err := imaging.Save(img, photoSavePath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save photo to %s: %w", photoSavePath, err)
	}

	log.Printf("stored nominee photo %s (from %s)", photoFilename, filepath.Base(sourcePath))
	return photoFilename, nil
}

// applyExifOrientation rotates/flips the decoded image according to the
// EXIF orientation tag, if one is present. Files without EXIF (PNG, GIF)
// pass through untouched.
func applyExifOrientation(sourcePath string, img image.Image) image.Image {
	f, err := os.Open(sourcePath)
	if err != nil {
		return img
	}
	defer f.Close()

	exifData, err := exif.Decode(f)
	if err != nil {
		return img
	}
	tag, err := exifData.Get(exif.Orientation)
	if err != nil || tag == nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
