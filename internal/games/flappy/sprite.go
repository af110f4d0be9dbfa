package flappy

import (
	"context"
	"embed"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG sprites
	_ "image/png"  // PNG sprites
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-wall/internal/config"
)

//go:embed assets/*.png
var assets embed.FS

// maxSpriteBytes bounds a downloaded sprite.
const maxSpriteBytes = 4 << 20

type spriteSet struct {
	rest image.Image
	flap image.Image
}

// Sprites holds the two player frames. They load in the background; until
// both resolve, Frame returns nil and the renderer draws a fallback.
type Sprites struct {
	set  atomic.Pointer[spriteSet]
	done chan struct{}
	err  error
}

// NewSprites returns an already-resolved sprite holder. Either image may
// be nil.
func NewSprites(rest, flap image.Image) *Sprites {
	s := &Sprites{done: make(chan struct{})}
	if rest != nil && flap != nil {
		s.set.Store(&spriteSet{rest: rest, flap: flap})
	}
	close(s.done)
	return s
}

// LoadSprites starts loading both frames once. Sources are http(s) URLs,
// file:// URLs, plain paths, or embed:<name> for the bundled frames. A
// failure is logged and leaves the holder unresolved.
func LoadSprites(ctx context.Context, cfg config.AssetsConfig, client *http.Client, logger *log.Logger) *Sprites {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.WithPrefix("sprites")

	s := &Sprites{done: make(chan struct{})}
	go func() {
		defer close(s.done)

		rest, err := loadImage(ctx, client, cfg.RestSprite)
		if err != nil {
			s.err = err
			logger.Warn("sprite unavailable, drawing without it", "source", cfg.RestSprite, "error", err)
			return
		}
		flap, err := loadImage(ctx, client, cfg.FlapSprite)
		if err != nil {
			s.err = err
			logger.Warn("sprite unavailable, drawing without it", "source", cfg.FlapSprite, "error", err)
			return
		}

		s.set.Store(&spriteSet{rest: rest, flap: flap})
		logger.Debug("sprites loaded", "rest", cfg.RestSprite, "flap", cfg.FlapSprite)
	}()
	return s
}

// Done is closed once loading finished, successfully or not.
func (s *Sprites) Done() <-chan struct{} {
	return s.done
}

// Err returns the load error. Only meaningful after Done is closed.
func (s *Sprites) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Frame returns the frame to draw, or nil while unresolved.
func (s *Sprites) Frame(flapping bool) image.Image {
	if s == nil {
		return nil
	}
	set := s.set.Load()
	if set == nil {
		return nil
	}
	if flapping {
		return set.flap
	}
	return set.rest
}

func loadImage(ctx context.Context, client *http.Client, src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("sprites: empty source")
	}

	rc, err := openSource(ctx, client, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(io.LimitReader(rc, maxSpriteBytes))
	if err != nil {
		return nil, fmt.Errorf("sprites: decode %s: %w", src, err)
	}
	return img, nil
}

func openSource(ctx context.Context, client *http.Client, src string) (io.ReadCloser, error) {
	if name, ok := strings.CutPrefix(src, "embed:"); ok {
		f, err := assets.Open("assets/" + name)
		if err != nil {
			return nil, fmt.Errorf("sprites: open bundled %s: %w", name, err)
		}
		return f, nil
	}

	u, err := url.Parse(src)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return fetch(ctx, client, src)
		case "file":
			src = u.Path
		}
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("sprites: open %s: %w", src, err)
	}
	return f, nil
}

func fetch(ctx context.Context, client *http.Client, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("sprites: request %s: %w", src, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sprites: fetch %s: %w", src, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("sprites: fetch %s: status %s", src, resp.Status)
	}
	return resp.Body, nil
}
