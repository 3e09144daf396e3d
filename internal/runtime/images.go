package runtime

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImageLibrary maps image names to decoded images.
type ImageLibrary map[string]image.Image

func (lib ImageLibrary) Image(name string) (image.Image, bool) {
	img, ok := lib[name]
	return img, ok
}

// Names returns the image names in sorted order.
func (lib ImageLibrary) Names() []string {
	names := make([]string, 0, len(lib))
	for name := range lib {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// LoadImageDir decodes every PNG, JPEG and GIF file directly inside dir. An
// image is named by its file name without the extension. A missing dir
// yields an empty library.
func LoadImageDir(dir string) (ImageLibrary, error) {
	lib := make(ImageLibrary)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, fmt.Errorf("cannot read image directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !imageExts[ext] {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		img, err := decodeImageFile(path)
		if err != nil {
			return nil, err
		}
		lib[strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))] = img
	}
	return lib, nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode image %s: %w", path, err)
	}
	return img, nil
}
