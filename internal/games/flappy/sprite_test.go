package flappy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/flappy-wall/internal/config"
)

func waitSprites(t *testing.T, s *Sprites) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("sprites did not finish loading")
	}
}

func TestLoadBundledSprites(t *testing.T) {
	s := LoadSprites(context.Background(), config.DefaultFlappyConfig().Assets, nil, nil)
	waitSprites(t, s)

	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v, expected nil", err)
	}
	rest, flap := s.Frame(false), s.Frame(true)
	if rest == nil || flap == nil {
		t.Fatal("Frame() returned nil after a successful load")
	}
	if rest.Bounds().Dx() != 32 || rest.Bounds().Dy() != 32 {
		t.Errorf("rest frame is %v, expected 32x32", rest.Bounds())
	}
	if rest == flap {
		t.Error("rest and flap frames should differ")
	}
}

func TestLoadSpritesOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.FileServer(http.FS(assets)))
	defer srv.Close()

	cfg := config.AssetsConfig{
		RestSprite: srv.URL + "/assets/bird.png",
		FlapSprite: srv.URL + "/assets/bird_flap.png",
	}
	s := LoadSprites(context.Background(), cfg, srv.Client(), nil)
	waitSprites(t, s)

	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v, expected nil", err)
	}
	if s.Frame(false) == nil {
		t.Error("Frame() = nil after loading over HTTP")
	}
}

func TestLoadSpritesFailureIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	notImage := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(notImage, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	tests := []struct {
		name string
		cfg  config.AssetsConfig
	}{
		{"missing file", config.AssetsConfig{
			RestSprite: filepath.Join(t.TempDir(), "nope.png"),
			FlapSprite: "embed:bird_flap.png",
		}},
		{"http 404", config.AssetsConfig{
			RestSprite: "embed:bird.png",
			FlapSprite: srv.URL + "/bird_flap.png",
		}},
		{"not an image", config.AssetsConfig{
			RestSprite: "file://" + filepath.ToSlash(notImage),
			FlapSprite: "embed:bird_flap.png",
		}},
		{"unknown bundled name", config.AssetsConfig{
			RestSprite: "embed:missing.png",
			FlapSprite: "embed:bird_flap.png",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := LoadSprites(context.Background(), tc.cfg, srv.Client(), nil)
			waitSprites(t, s)

			if s.Err() == nil {
				t.Error("Err() = nil, expected a load error")
			}
			if s.Frame(false) != nil || s.Frame(true) != nil {
				t.Error("Frame() should stay nil after a failed load")
			}
		})
	}
}

func TestNilSprites(t *testing.T) {
	var s *Sprites
	if s.Frame(true) != nil {
		t.Error("nil *Sprites should have no frame")
	}
}
