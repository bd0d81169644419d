package blog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	defaultImageQuality = 75
	maxSourceImageSize  = 20 << 20 // 20MB
	maxSourcePixels     = 40_000_000
	imageFetchTimeout   = 15 * time.Second
)

// ImageWidths are the widths the proxy will resize to. Requests are snapped up to the
// nearest one so the set of cached variants stays small.
var ImageWidths = []int{16, 32, 48, 64, 96, 128, 256, 384, 640, 750, 828, 1080, 1200, 1920, 2048, 3840}

var (
	errHostNotAllowed  = errors.New("image host not allowed")
	errWidthNotAllowed = errors.New("image width not allowed")
	errBadQuality      = errors.New("image quality must be between 1 and 100")
	errImageTooLarge   = errors.New("image dimensions too large")
)

// ImageProxy resizes remote CMS images to JPEG.
type ImageProxy struct {
	hosts  []string
	client *http.Client
	logger *zap.Logger
}

// NewImageProxy creates an ImageProxy that only fetches from hosts.
func NewImageProxy(hosts []string, logger *zap.Logger) *ImageProxy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageProxy{
		hosts:  hosts,
		client: &http.Client{Timeout: imageFetchTimeout},
		logger: logger,
	}
}

// URL returns the proxy URL serving src at least width pixels wide.
// Sources on other hosts are returned unchanged.
func (p *ImageProxy) URL(src string, width int) string {
	abs := normalizeImageURL(src)
	if p.checkHost(abs) != nil {
		return src
	}
	v := url.Values{}
	v.Set("url", abs)
	v.Set("w", strconv.Itoa(snapWidth(width)))
	v.Set("q", strconv.Itoa(defaultImageQuality))
	return "/_img?" + v.Encode()
}

// normalizeImageURL turns the CMS's scheme-relative asset URLs into https URLs.
func normalizeImageURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

func snapWidth(width int) int {
	for _, w := range ImageWidths {
		if w >= width {
			return w
		}
	}
	return ImageWidths[len(ImageWidths)-1]
}

func (p *ImageProxy) checkHost(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return errHostNotAllowed
	}
	if !slices.Contains(p.hosts, u.Hostname()) {
		return fmt.Errorf("%w: %s", errHostNotAllowed, u.Hostname())
	}
	return nil
}

type imageRequest struct {
	src     string
	width   int
	quality int
}

func (p *ImageProxy) parse(c echo.Context) (imageRequest, error) {
	req := imageRequest{src: normalizeImageURL(c.QueryParam("url")), quality: defaultImageQuality}
	if err := p.checkHost(req.src); err != nil {
		return req, err
	}
	w, err := strconv.Atoi(c.QueryParam("w"))
	if err != nil || !slices.Contains(ImageWidths, w) {
		return req, errWidthNotAllowed
	}
	req.width = w
	if q := c.QueryParam("q"); q != "" {
		req.quality, err = strconv.Atoi(q)
		if err != nil || req.quality < 1 || req.quality > 100 {
			return req, errBadQuality
		}
	}
	return req, nil
}

func (p *ImageProxy) handle(c echo.Context) error {
	req, err := p.parse(c)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	data, err := p.fetch(c.Request().Context(), req.src)
	if err != nil {
		p.logger.Warn("fetch image", zap.String("url", req.src), zap.Error(err))
		return c.String(http.StatusBadGateway, "upstream image unavailable")
	}
	out, err := resizeJPEG(data, req.width, req.quality)
	if errors.Is(err, errImageTooLarge) {
		p.logger.Warn("image rejected", zap.String("url", req.src), zap.Error(err))
		return c.String(http.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		// Formats the decoder does not know (SVG, WebP) are served as is.
		p.logger.Debug("image passthrough", zap.String("url", req.src), zap.Error(err))
		return c.Redirect(http.StatusFound, req.src)
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.Blob(http.StatusOK, "image/jpeg", out)
}

func (p *ImageProxy) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxSourceImageSize))
}

// resizeJPEG decodes an image from data, scales it down to at most width pixels wide,
// flattens transparency onto white, and encodes it as JPEG. Sources larger than
// maxSourcePixels are rejected before decoding.
func resizeJPEG(data []byte, width, quality int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxSourcePixels {
		return nil, fmt.Errorf("%w: %dx%d", errImageTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	outW, outH := w, h
	if w > width {
		outW, outH = width, max(h*width/w, 1)
	}
	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if outW != w {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	} else {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
