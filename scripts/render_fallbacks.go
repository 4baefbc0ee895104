// Command render_fallbacks writes the fallback images of a content catalog to
// disk and prints a JSON report, for eyeballing catalog edits.
//
//	go run ./scripts [catalog.yaml] [out-dir]
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/bloom-backend/internal/content"
)

type imageReport struct {
	Name   string `json:"name"`
	File   string `json:"file"`
	Bytes  int    `json:"bytes"`
	SHA256 string `json:"sha256"`
}

type catalogReport struct {
	Tip        string        `json:"tip"`
	StoryTitle string        `json:"story_title"`
	Styles     int           `json:"variation_styles"`
	Palettes   int           `json:"variation_palettes"`
	Scenes     int           `json:"variation_scenes"`
	Images     []imageReport `json:"images"`
}

func main() {
	catalogPath := ""
	outDir := "fallbacks"
	if len(os.Args) > 1 {
		catalogPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		outDir = os.Args[2]
	}

	cat, err := loadCatalog(catalogPath)
	if err != nil {
		exitf("load catalog: %v", err)
	}
	fb, err := content.NewFallbacks(cat)
	if err != nil {
		exitf("render fallbacks: %v", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		exitf("create %s: %v", outDir, err)
	}

	report := catalogReport{
		Tip:        fb.Tip(),
		StoryTitle: fb.Story().Title,
		Styles:     len(cat.Variation.Styles),
		Palettes:   len(cat.Variation.Palettes),
		Scenes:     len(cat.Variation.Scenes),
	}
	for i := 0; i < fb.ImageCount(); i++ {
		img := fb.Image(i)
		name := strings.TrimPrefix(img.Reference, "fallback:")
		file := filepath.Join(outDir, name+".png")
		if err := os.WriteFile(file, img.Data, 0o644); err != nil {
			exitf("write %s: %v", file, err)
		}
		sum := sha256.Sum256(img.Data)
		report.Images = append(report.Images, imageReport{
			Name:   name,
			File:   file,
			Bytes:  len(img.Data),
			SHA256: hex.EncodeToString(sum[:]),
		})
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exitf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func loadCatalog(path string) (*content.Catalog, error) {
	if path == "" {
		return content.DefaultCatalog()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return content.ParseCatalog(raw)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
