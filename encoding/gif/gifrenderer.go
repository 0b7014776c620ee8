// Package gif renders games as animated gifs, one frame per position.
package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi        = 72.0
	fontsize   = 12.0
	lineheight = 1.4
	lines      = 4 // text lines under the board
	endDelay   = 300
	boardSize  = 6 // playable lines
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

const (
	bgIdx uint8 = iota
	blackIdx
	gridIdx
	markIdx
)

var globPalette = color.Palette{
	bgIdx:    color.Gray{253},
	blackIdx: color.Gray{0},
	gridIdx:  color.Gray{160},
	markIdx:  color.RGBA{200, 30, 30, 255},
}

// Encoder is a structure that encodes a game state according to the surakarta.OutputEncoder
// interface. Every Flush writes the frames collected so far and starts a new animation.
type Encoder struct {
	// Filename, when set, is the pattern of the files written by Flush. It is formatted with
	// the number of the flush. Otherwise the animation is written into Writer.
	Filename string
	io.Writer

	Cell  int // pixels between two lines of the board
	Delay int // delay between frames in 100ths of a second

	font.Drawer
	out     *gif.GIF
	flushes int
}

// NewEncoder creates an encoder that draws cell pixels between two board lines.
func NewEncoder(w io.Writer, cell int) *Encoder {
	if cell < 16 {
		cell = 16
	}
	return &Encoder{
		Writer: w,
		Cell:   cell,
		Delay:  50,
		Drawer: font.Drawer{
			Src: image.Black,
			Face: truetype.NewFace(regular, &truetype.Options{
				Size:    fontsize,
				DPI:     dpi,
				Hinting: font.HintingFull,
			}),
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

// NewFileEncoder creates an encoder writing one file per flush. pattern is formatted with the
// number of the flush, e.g. "epoch%03d.gif".
func NewFileEncoder(pattern string, cell int) *Encoder {
	enc := NewEncoder(nil, cell)
	enc.Filename = pattern
	return enc
}

func (enc *Encoder) margin() int { return 2*enc.Cell + enc.Cell/2 }
func (enc *Encoder) side() int   { return 2*enc.margin() + (boardSize-1)*enc.Cell }
func (enc *Encoder) dy() int     { return int(math.Ceil(fontsize * lineheight * dpi / 72)) }

// point is the pixel of a cell.
func (enc *Encoder) point(cell int) image.Point {
	row, col := cell/game.Width, cell%game.Width
	return image.Pt(enc.margin()+(col-1)*enc.Cell, enc.margin()+(row-1)*enc.Cell)
}

// Frames is the number of frames waiting to be flushed.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	g := ms.State()
	side := enc.side()
	im := image.NewPaletted(image.Rect(0, 0, side, side+lines*enc.dy()), globPalette)
	draw.Draw(im, im.Bounds(), &image.Uniform{globPalette[bgIdx]}, image.Point{}, draw.Src)

	enc.drawBoard(im)
	b := g.Board()
	if last := g.LastMove(); g.MoveNumber() > 0 && !last.Action.IsPass() {
		enc.disc(im, enc.point(last.Action.Origin()), enc.Cell/6, markIdx)
		enc.disc(im, enc.point(last.Action.Dest()), enc.Cell*2/5, markIdx)
	}
	r := enc.Cell * 3 / 10
	for cell := 0; cell < game.Cells; cell++ {
		switch b.At(cell) {
		case game.Black:
			enc.disc(im, enc.point(cell), r, blackIdx)
		case game.White:
			enc.disc(im, enc.point(cell), r, blackIdx)
			enc.disc(im, enc.point(cell), r-2, bgIdx)
		}
	}

	black, white := game.Player(game.Black), game.Player(game.White)
	text := []string{
		ms.Name(),
		fmt.Sprintf("Epoch %d, Game Number: %d", ms.Epoch(), ms.GameNumber()),
		fmt.Sprintf("Move %d: %v  (%d:%d)", g.MoveNumber(), g.LastMove().Action, b.Count(black), b.Count(white)),
	}
	delay := enc.Delay
	if ended, winner := g.Ended(); ended {
		delay = endDelay
		text = append(text, fmt.Sprintf("Winner: %v", winner))
	}
	enc.Dst = im
	y := side
	for _, s := range text {
		enc.Dot = fixed.P(enc.Cell/2, y)
		enc.DrawString(s)
		y += enc.dy()
	}

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// drawBoard draws the lines and the loops joining them at the corners.
func (enc *Encoder) drawBoard(im *image.Paletted) {
	lo, hi := enc.margin(), enc.margin()+(boardSize-1)*enc.Cell
	for i := 0; i < boardSize; i++ {
		p := lo + i*enc.Cell
		for q := lo; q <= hi; q++ {
			im.SetColorIndex(p, q, gridIdx)
			im.SetColorIndex(q, p, gridIdx)
		}
	}
	inside := image.Rect(lo, lo, hi+1, hi+1)
	for _, corner := range []image.Point{{lo, lo}, {hi, lo}, {hi, hi}, {lo, hi}} {
		for k := 1; k <= 2; k++ {
			radius := float64(k * enc.Cell)
			steps := int(2 * math.Pi * radius * 2)
			for s := 0; s < steps; s++ {
				theta := 2 * math.Pi * float64(s) / float64(steps)
				pt := image.Pt(corner.X+int(math.Round(radius*math.Cos(theta))), corner.Y+int(math.Round(radius*math.Sin(theta))))
				if pt.In(inside) {
					continue
				}
				im.SetColorIndex(pt.X, pt.Y, gridIdx)
			}
		}
	}
}

func (enc *Encoder) disc(im *image.Paletted, c image.Point, r int, idx uint8) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				im.SetColorIndex(c.X+x, c.Y+y, idx)
			}
		}
	}
}

// Flush writes the gif and starts a new one. Nothing is written when there are no frames.
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return nil
	}
	defer func() {
		enc.out = &gif.GIF{LoopCount: -1}
		enc.flushes++
	}()

	if enc.Filename == "" {
		if enc.Writer == nil {
			return errors.New("gif encoder has no writer")
		}
		return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
	}

	filename := fmt.Sprintf(enc.Filename, enc.flushes)
	f, err := os.Create(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	if err = gif.EncodeAll(f, enc.out); err != nil {
		f.Close()
		return errors.Wrapf(err, "unable to write %v", filename)
	}
	return errors.WithStack(f.Close())
}
