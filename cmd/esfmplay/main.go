// Command esfmplay replays a YAML register-write trace through the ESFM
// synthesis engine and renders it to a WAV file.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"esfmcore/esfm"
	"esfmcore/esfm/regs"
	"esfmcore/esfm/trace"
	"esfmcore/esfm/wav"
	"esfmcore/internal/debug"
)

func main() {
	app := cli.NewApp()
	app.Name = "esfmplay"
	app.Usage = "render an ESFM register-write trace to a WAV file"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "trace", Usage: "path to a YAML trace file"},
		cli.StringFlag{Name: "out", Value: "out.wav", Usage: "output WAV path"},
		cli.IntFlag{Name: "samples", Value: 0, Usage: "frames to render past the last buffered write (default: 1 second)"},
		cli.BoolFlag{Name: "verbose", Usage: "log every applied register write"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "esfmplay:", err)
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

	var logger *debug.Logger
	if c.Bool("verbose") {
		logger = debug.NewLogger(4096)
		logger.SetComponentEnabled(debug.ComponentTrace, true)
		logger.SetMinLevel(debug.LogLevelDebug)
	}

	chip := esfm.NewChip()
	chip.SetLogger(logger)
	rf := regs.New(chip)
	buf := trace.NewBuffer(doc.Writes, logger)

	tail := uint64(sampleRate)
	if s := c.Int("samples"); s > 0 {
		tail = uint64(s)
	}
	totalSamples := lastWriteSample(doc.Writes) + tail

	outPath := c.String("out")
	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer outFile.Close()

	writer, err := wav.NewWriter(outFile, sampleRate)
	if err != nil {
		return err
	}

	var writeErr error
	err = trace.Render(rf, buf, totalSamples, func(_ uint64, left, right int16) {
		if writeErr == nil {
			writeErr = writer.WriteFrame(left, right)
		}
	})
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	if writeErr != nil {
		return writeErr
	}

	return writer.Close()
}

func lastWriteSample(writes []trace.Write) uint64 {
	var last uint64
	for _, w := range writes {
		if w.Sample > last {
			last = w.Sample
		}
	}
	return last
}
