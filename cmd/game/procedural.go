package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/nightfore/nf/internal/engine/resource"
)

// Sprite colors for the generated sheets.
var (
	colorBall    = color.RGBA{90, 200, 120, 255}
	colorBurst   = color.RGBA{255, 200, 100, 255}
	colorSparkle = color.RGBA{220, 220, 230, 255}
)

// generatedAssets serves the manifest's assets from memory, so the
// binary runs without an asset directory. The switches cover exactly
// what assets/manifest.yaml names.
func generatedAssets(sampleRate int) resource.LoaderFunc {
	sr := beep.SampleRate(sampleRate)
	return func(path string, kind resource.Kind) (resource.Asset, error) {
		switch kind {
		case resource.KindImage:
			img := generatedImage(path)
			if img == nil {
				return resource.Asset{}, fmt.Errorf("no generated image %q", path)
			}
			return resource.Asset{Bounds: img.Bounds(), Data: img}, nil
		case resource.KindSound:
			mono := generatedSound(sr, path)
			if mono == nil {
				return resource.Asset{}, fmt.Errorf("no generated sound %q", path)
			}
			return resource.Asset{Data: monoBuffer(sr, mono)}, nil
		default:
			return resource.Asset{}, fmt.Errorf("no generated %s %q", kind, path)
		}
	}
}

func generatedImage(path string) image.Image {
	switch path {
	case "sprites/ball.png":
		// Radius breathes across the loop.
		radii := []int{6, 7, 6, 5}
		return sheet(len(radii), 16, func(i int, img *image.RGBA, ox int) {
			fillCircle(img, ox+8, 8, radii[i], colorBall)
		})
	case "sprites/burst.png":
		// Expanding ring.
		radii := []int{3, 5, 7}
		return sheet(len(radii), 16, func(i int, img *image.RGBA, ox int) {
			drawRing(img, ox+8, 8, radii[i], colorBurst)
		})
	case "sprites/sparkle.png":
		return sheet(2, 8, func(i int, img *image.RGBA, ox int) {
			drawGlint(img, ox+4, 4, 1+i*2, colorSparkle)
		})
	}
	return nil
}

// sheet builds a one-row sprite sheet of square frames.
func sheet(frames, size int, draw func(i int, img *image.RGBA, originX int)) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frames*size, size))
	for i := 0; i < frames; i++ {
		draw(i, img, i*size)
	}
	return img
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				img.SetRGBA(cx+x, cy+y, c)
			}
		}
	}
}

func drawRing(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	inner := (r - 2) * (r - 2)
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			d := x*x + y*y
			if d <= r*r && d >= inner {
				img.SetRGBA(cx+x, cy+y, c)
			}
		}
	}
}

// drawGlint draws a plus-shaped glint with the given arm length.
func drawGlint(img *image.RGBA, cx, cy, arm int, c color.RGBA) {
	for d := -arm; d <= arm; d++ {
		img.SetRGBA(cx+d, cy, c)
		img.SetRGBA(cx, cy+d, c)
	}
}

func generatedSound(sr beep.SampleRate, path string) []float64 {
	switch path {
	case "sounds/click.wav":
		return tone(sr, 880, 50*time.Millisecond)
	case "sounds/pop.wav":
		return sweep(sr, 700, 180, 90*time.Millisecond)
	case "sounds/theme.wav":
		return melody(sr, 250*time.Millisecond, 440, 523.25, 659.25, 523.25)
	case "sounds/field.wav":
		return melody(sr, 300*time.Millisecond, 329.63, 392, 440, 392)
	}
	return nil
}

// tone renders one sine note.
func tone(sr beep.SampleRate, freq float64, d time.Duration) []float64 {
	out := sine(sr, freq, sr.N(d))
	applyEnvelope(sr, out)
	return out
}

// sweep renders a sine gliding between two frequencies.
func sweep(sr beep.SampleRate, from, to float64, d time.Duration) []float64 {
	n := sr.N(d)
	out := make([]float64, n)
	phase := 0.0
	for i := range out {
		t := float64(i) / float64(n)
		out[i] = math.Sin(2 * math.Pi * phase)
		phase += (from + (to-from)*t) / float64(sr)
		if phase >= 1 {
			phase--
		}
	}
	applyEnvelope(sr, out)
	return out
}

func melody(sr beep.SampleRate, step time.Duration, freqs ...float64) []float64 {
	var out []float64
	for _, f := range freqs {
		out = append(out, tone(sr, f, step)...)
	}
	return out
}

func sine(sr beep.SampleRate, freq float64, n int) []float64 {
	out := make([]float64, n)
	phase := 0.0
	inc := freq / float64(sr)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * phase)
		phase += inc
		if phase >= 1 {
			phase--
		}
	}
	return out
}

// applyEnvelope shapes attack and release in place so note edges do not
// click, and scales to leave mixing headroom.
func applyEnvelope(sr beep.SampleRate, buf []float64) {
	attack := sr.N(5 * time.Millisecond)
	release := sr.N(30 * time.Millisecond)
	releaseStart := len(buf) - release
	if releaseStart < attack {
		releaseStart = attack
	}
	for i := range buf {
		vol := 0.3
		if i < attack {
			vol *= float64(i) / float64(attack)
		} else if i >= releaseStart {
			vol *= float64(len(buf)-i) / float64(release)
		}
		buf[i] *= vol
	}
}

// monoBuffer copies mono samples into a stereo beep buffer.
func monoBuffer(sr beep.SampleRate, mono []float64) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	i := 0
	buf.Append(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if i >= len(mono) {
			return 0, false
		}
		n := 0
		for n < len(samples) && i < len(mono) {
			samples[n][0] = mono[i]
			samples[n][1] = mono[i]
			n++
			i++
		}
		return n, true
	}))
	return buf
}
