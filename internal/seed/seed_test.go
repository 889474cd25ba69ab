package seed

import (
	"image"
	"image/color"
	"testing"
)

func checker(w, h int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, a)
			} else {
				img.SetRGBA(x, y, b)
			}
		}
	}
	return img
}

func TestContentSeedIsDeterministic(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	first := ContentSeed(checker(20, 10, red, blue))
	second := ContentSeed(checker(20, 10, red, blue))
	if first != second {
		t.Errorf("same content gave different seeds: %d vs %d", first, second)
	}

	if other := ContentSeed(checker(20, 10, blue, red)); other == first {
		t.Error("different content gave the same seed")
	}
	if other := ContentSeed(checker(10, 20, red, blue)); other == first {
		t.Error("different dimensions gave the same seed")
	}
}

func TestFilepathSeed(t *testing.T) {
	if FilepathSeed("a/b.png") != FilepathSeed("a/b.png") {
		t.Error("same path gave different seeds")
	}
	if FilepathSeed("a/b.png") == FilepathSeed("a/c.png") {
		t.Error("different paths gave the same seed")
	}
	if FilepathSeed("https://example.com/x.png") != FilepathSeed("https://example.com/x.png") {
		t.Error("same URL gave different seeds")
	}
}

func TestCalculate(t *testing.T) {
	img := checker(4, 4, color.RGBA{A: 255}, color.RGBA{R: 1, A: 255})
	manual := int64(1234)

	tests := []struct {
		name    string
		img     image.Image
		path    string
		config  Config
		want    *int64
		wantErr bool
	}{
		{name: "content", img: img, config: Config{Mode: ModeContent}},
		{name: "content without image", config: Config{Mode: ModeContent}, wantErr: true},
		{name: "filepath", path: "x.png", config: Config{Mode: ModeFilepath}},
		{name: "filepath without path", config: Config{Mode: ModeFilepath}, wantErr: true},
		{name: "manual", config: Config{Mode: ModeManual, Value: &manual}, want: &manual},
		{name: "manual without value", config: Config{Mode: ModeManual}, wantErr: true},
		{name: "random", config: Config{Mode: ModeRandom}},
		{name: "unknown", config: Config{Mode: "bogus"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.img, tt.path, tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Calculate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != nil && got != *tt.want {
				t.Errorf("Calculate() = %d, want %d", got, *tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range ValidModes() {
		if got, err := ParseMode(string(m)); err != nil || got != m {
			t.Errorf("ParseMode(%q) = %q, %v", m, got, err)
		}
	}
	if _, err := ParseMode("sometimes"); err == nil {
		t.Error("expected error for invalid mode")
	}
}
