package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/modex"
	"github.com/bodgit/modex/vga"
	"github.com/urfave/cli/v2"
)

const defaultDB = "modex.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func open(c *cli.Context) (*modex.ModeX, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	return modex.New(c.String("db"), logger)
}

func create(file string) (*os.File, error) {
	if file == "" || file == "-" {
		return os.Stdout, nil
	}
	return os.Create(file)
}

func main() {
	app := cli.NewApp()

	app.Name = "modex"
	app.Usage = "256 colour VGA room photo utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MODEX_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Import rooms from XML",
			Description: "Replaces every room with those described in FILE. Photos and objects may be native files or any PNG, GIF or JPEG image.",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				if err := m.ImportXML(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List rooms",
			Action: func(c *cli.Context) error {
				m, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				rooms, err := m.Rooms()
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, name := range rooms {
					fmt.Println(name)
				}

				return nil
			},
		},
		{
			Name:      "render",
			Usage:     "Render a room viewport as PNG",
			ArgsUsage: "ROOM",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "x",
					Usage: "left edge of the viewport",
				},
				&cli.IntFlag{
					Name:  "y",
					Usage: "top edge of the viewport",
				},
				&cli.IntFlag{
					Name:  "width",
					Value: 320,
					Usage: "viewport width",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 200,
					Usage: "viewport height",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "pixel enlargement factor",
				},
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Value:   "-",
					Usage:   "output file",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				f, err := create(c.String("out"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				v := modex.Viewport{
					X:      c.Int("x"),
					Y:      c.Int("y"),
					Width:  c.Int("width"),
					Height: c.Int("height"),
				}

				if err := m.Render(c.Args().First(), v, c.Int("scale"), f); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "preview",
			Usage:       "Write PNG previews of photos",
			Description: "Walks DIRECTORY and writes a quantized PNG alongside every photo found.",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "pixel enlargement factor",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				if err := m.Preview(c.Args().First(), c.Int("scale")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "palette",
			Usage:       "Dump the DAC upload for a room",
			Description: "Writes the 768 bytes that would be sent to the DAC data port to display ROOM.",
			ArgsUsage:   "ROOM",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "out",
					Aliases: []string{"o"},
					Value:   "-",
					Usage:   "output file",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := open(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer m.Close()

				f, err := create(c.String("out"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				d, err := vga.NewDAC(vga.NewStreamConn("index", ioutil.Discard), vga.NewStreamConn("data", f))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := m.Upload(c.Args().First(), d); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "stats",
			Usage:     "Report on how a photo quantizes",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a, err := modex.Analyse(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Printf("Size:       %dx%d\n", a.Width, a.Height)
				fmt.Printf("Colours:    %d\n", a.Colors)
				fmt.Printf("Fine:       %d\n", a.Fine)
				fmt.Printf("Coarse:     %d\n", a.Coarse)
				fmt.Printf("Promoted:   %d\n", a.Promoted)
				fmt.Printf("Fallback:   %d\n", a.Fallback)
				fmt.Printf("Mean error: %.3f\n", a.MeanError)

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
