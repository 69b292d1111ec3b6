// Package thumbs inspects local thumbnail assets: real aspect ratios from
// image dimensions and blurhash placeholder strings for progressive
// loading. It only handles site-relative paths that resolve inside the
// configured assets directory; remote thumbnails keep their defaults.
package thumbs

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/foliolab/folio-server/internal/domain"
	"github.com/foliolab/folio-server/internal/logger"
)

// blurHashSize is the working size for blurhash computation. The hash is a
// low-resolution placeholder, so a small thumbnail produces a nearly
// identical result in a fraction of the time.
const blurHashSize = 64

// commonRatios are snapped to when the measured ratio is close enough.
var commonRatios = []struct {
	label string
	value float64
}{
	{"16:9", 16.0 / 9.0},
	{"4:3", 4.0 / 3.0},
	{"3:2", 3.0 / 2.0},
	{"1:1", 1.0},
	{"3:4", 3.0 / 4.0},
	{"2:3", 2.0 / 3.0},
	{"9:16", 9.0 / 16.0},
}

const ratioTolerance = 0.05

// Info is what inspection learned about one thumbnail file.
type Info struct {
	Width       int
	Height      int
	AspectRatio string
	BlurHash    string
}

// Inspector resolves site-relative thumbnail paths against a local assets
// directory and inspects the files.
type Inspector struct {
	assetsDir string
	log       *logger.Logger
}

// NewInspector creates an Inspector rooted at assetsDir.
func NewInspector(assetsDir string, log *logger.Logger) *Inspector {
	return &Inspector{assetsDir: assetsDir, log: log}
}

// Inspect reads dimensions and computes a blurhash for a site-relative
// path such as "/images/foo.webp".
func (i *Inspector) Inspect(sitePath string) (Info, error) {
	local, ok := i.resolve(sitePath)
	if !ok {
		return Info{}, fmt.Errorf("path %q is not a local asset", sitePath)
	}

	file, err := os.Open(local)
	if err != nil {
		return Info{}, fmt.Errorf("open thumbnail: %w", err)
	}

	cfg, _, err := image.DecodeConfig(file)
	file.Close()
	if err != nil {
		return Info{}, fmt.Errorf("decode thumbnail config: %w", err)
	}

	info := Info{
		Width:       cfg.Width,
		Height:      cfg.Height,
		AspectRatio: ratioLabel(cfg.Width, cfg.Height),
	}

	hash, err := computeBlurHash(local)
	if err != nil {
		// Dimensions are still useful without a placeholder hash.
		i.log.Warn("Failed to compute blurhash", "path", sitePath, "error", err)
		return info, nil
	}
	info.BlurHash = hash

	return info, nil
}

// Apply fills AspectRatio and BlurHash on items whose thumbnail resolves
// to a local asset. Inspection failures leave the item's defaults intact.
func (i *Inspector) Apply(items []domain.PortfolioItem) {
	for idx := range items {
		item := &items[idx]
		info, err := i.Inspect(item.Thumbnail)
		if err != nil {
			continue
		}
		item.AspectRatio = info.AspectRatio
		if info.BlurHash != "" {
			item.BlurHash = info.BlurHash
		}
	}
}

// resolve maps a site-relative path to a file under assetsDir, rejecting
// anything that escapes it.
func (i *Inspector) resolve(sitePath string) (string, bool) {
	if i.assetsDir == "" || !strings.HasPrefix(sitePath, "/") {
		return "", false
	}

	local := filepath.Join(i.assetsDir, filepath.FromSlash(strings.TrimPrefix(sitePath, "/")))
	rel, err := filepath.Rel(i.assetsDir, local)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return local, true
}

// ratioLabel snaps measured dimensions to the nearest common ratio, or
// falls back to the reduced exact ratio.
func ratioLabel(width, height int) string {
	if width <= 0 || height <= 0 {
		return domain.DefaultAspectRatio
	}

	measured := float64(width) / float64(height)
	for _, r := range commonRatios {
		if measured > r.value*(1-ratioTolerance) && measured < r.value*(1+ratioTolerance) {
			return r.label
		}
	}

	d := gcd(width, height)
	return fmt.Sprintf("%d:%d", width/d, height/d)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// computeBlurHash encodes a 4x3 blurhash from an image file, downscaling
// first so encoding stays cheap.
func computeBlurHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	hash, err := blurhash.Encode(4, 3, downscale(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// downscale produces a small nearest-neighbor thumbnail, which is all the
// precision blurhash needs.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= blurHashSize && srcHeight <= blurHashSize {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = blurHashSize
		dstHeight = max(1, (srcHeight*blurHashSize)/srcWidth)
	} else {
		dstHeight = blurHashSize
		dstWidth = max(1, (srcWidth*blurHashSize)/srcHeight)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := 0; y < dstHeight; y++ {
		for x := 0; x < dstWidth; x++ {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}

	return dst
}
