// Command esfmmeter replays an ESFM register-write trace the same way
// esfmplay does, but instead of writing a WAV file it draws a live
// per-channel VU meter to the terminal, grounded in the kind of terminal
// debug visualizer pattern used elsewhere in the retrieval pack (reading
// live emulator state into a character grid every frame).
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"esfmcore/esfm"
	"esfmcore/esfm/regs"
	"esfmcore/esfm/trace"
)

func main() {
	app := cli.NewApp()
	app.Name = "esfmmeter"
	app.Usage = "replay an ESFM trace with a live terminal VU meter"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "trace", Usage: "path to a YAML trace file"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "esfmmeter:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	tracePath := c.String("trace")
	if tracePath == "" {
		cli.ShowAppHelp(c)
		return fmt.Errorf("a --trace file is required")
	}

	f, err := os.Open(tracePath)
	if err != nil {
		return fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	doc, err := trace.Decode(f)
	if err != nil {
		return err
	}
	sampleRate := doc.SampleRate
	if sampleRate == 0 {
		sampleRate = 49716
	}

	chip := esfm.NewChip()
	rf := regs.New(chip)
	buf := trace.NewBuffer(doc.Writes, nil)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tcell: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tcell init: %w", err)
	}
	defer screen.Fini()

	meters := make([]float64, len(chip.Channels))
	quit := make(chan struct{})
	go func() {
		for {
			ev := screen.PollEvent()
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					close(quit)
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	const framesPerFrame = 512
	frameInterval := time.Duration(framesPerFrame) * time.Second / time.Duration(sampleRate)
	style := tcell.StyleDefault
	var sample uint64

	for {
		select {
		case <-quit:
			return nil
		default:
		}

		for i := 0; i < framesPerFrame; i++ {
			buf.ApplyDue(rf, sample)
			chip.GenerateSample()
			sample++
			for ci := range chip.Channels {
				amp := math.Abs(float64(chip.Channels[ci].Output[0])) / 32768
				if amp > meters[ci] {
					meters[ci] = amp
				} else {
					meters[ci] *= 0.98
				}
			}
		}

		drawMeters(screen, style, meters)
		screen.Show()

		if buf.Done() {
			time.Sleep(500 * time.Millisecond)
			return nil
		}
		time.Sleep(frameInterval)
	}
}

func drawMeters(screen tcell.Screen, style tcell.Style, meters []float64) {
	screen.Clear()
	width, _ := screen.Size()
	barWidth := width - 12
	if barWidth < 1 {
		barWidth = 1
	}
	for row, level := range meters {
		label := fmt.Sprintf("ch%02d ", row)
		for i, ch := range label {
			screen.SetContent(i, row, ch, nil, style)
		}
		filled := int(level * float64(barWidth))
		for i := 0; i < barWidth; i++ {
			r := ' '
			if i < filled {
				r = '#'
			}
			screen.SetContent(len(label)+i, row, r, nil, style)
		}
	}
}
