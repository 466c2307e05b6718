// internal/ui/portrait.go
package ui

import (
	"image"

	"soppro-game/internal/config"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ImageSource отдаёт декодированную картинку по URI, если она уже загружена.
type ImageSource interface {
	Get(uri string) (image.Image, bool)
}

// Portraits переводит загруженные картинки в текстуры ebiten и кеширует их.
type Portraits struct {
	source   ImageSource
	textures map[string]*ebiten.Image
}

func NewPortraits(source ImageSource) *Portraits {
	return &Portraits{source: source, textures: make(map[string]*ebiten.Image)}
}

// Draw рисует портрет в квадрате size×size, а пока картинки нет, рисует заглушку.
func (p *Portraits) Draw(screen *ebiten.Image, uri string, x, y, size int) {
	tex := p.texture(uri)
	if tex == nil {
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(size), float32(size), config.HealthBgColor, true)
		vector.StrokeRect(screen, float32(x), float32(y), float32(size), float32(size), 1, config.TextDimColor, true)
		return
	}
	b := tex.Bounds()
	scale := float64(size) / float64(max(b.Dx(), b.Dy()))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(tex, op)
}

func (p *Portraits) texture(uri string) *ebiten.Image {
	if uri == "" {
		return nil
	}
	if tex, ok := p.textures[uri]; ok {
		return tex
	}
	img, ok := p.source.Get(uri)
	if !ok {
		return nil
	}
	tex := ebiten.NewImageFromImage(img)
	p.textures[uri] = tex
	return tex
}
