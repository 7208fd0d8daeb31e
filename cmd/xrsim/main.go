// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command xrsim runs scenes: it builds a scene from a YAML description,
// renders a number of simulated stereo frames on a headless device or
// in a window, and prints the culling stats of each eye.
package main

import (
	"os"
	"runtime"

	"cogentcore.org/xr/base/errors"
	"cogentcore.org/xr/base/logx"
	"github.com/urfave/cli"
)

func init() {
	// glfw and GL calls of the view command must be on the main thread
	runtime.LockOSThread()
}

func main() {
	logx.SetDefaultLogger()
	errors.Log(newApp().Run(os.Args))
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "xrsim"
	app.Usage = "simulate stereo rendering of scenes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.BoolFlag{
			Name:  "q",
			Usage: "only log errors",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		logx.SetUserLevel(logx.LevelFromFlags(ctx.GlobalBool("vv"), ctx.GlobalBool("v"), ctx.GlobalBool("q")))
		return nil
	}
	settingsFlag := cli.StringFlag{
		Name:  "settings, s",
		Usage: "TOML settings file",
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "render simulated frames of a scene",
			Description: `
Build the scene described by the given YAML file, or a demo scene when
no file is given, and render it on a headless device for a number of
frames, with the head turning at a constant rate. The stats of each eye
are printed at the end.`,
			ArgsUsage: "[scene.yaml]",
			Flags: []cli.Flag{
				settingsFlag,
				cli.IntFlag{
					Name:  "frames, n",
					Value: 120,
					Usage: "number of frames to render",
				},
				cli.Float64Flag{
					Name:  "yaw",
					Value: 30,
					Usage: "head turn rate in degrees per second",
				},
				cli.IntFlag{
					Name:  "latency",
					Value: 2,
					Usage: "number of polls before an occlusion query result is available",
				},
				cli.BoolFlag{
					Name:  "watch, w",
					Usage: "apply changes to the settings file while running",
				},
			},
			Action: runScene,
		},
		{
			Name:  "view",
			Usage: "render a scene in a window, one eye on each half",
			Description: `
Open a window with an OpenGL 4.3 context and render the given scene,
or the demo scene, side by side for both eyes with the head turning at
a constant rate, until the window is closed or the number of frames is
reached. Escape closes the window.`,
			ArgsUsage: "[scene.yaml]",
			Flags: []cli.Flag{
				settingsFlag,
				cli.IntFlag{
					Name:  "frames, n",
					Usage: "number of frames to render, 0 to run until closed",
				},
				cli.Float64Flag{
					Name:  "yaw",
					Value: 30,
					Usage: "head turn rate in degrees per second",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 1280,
					Usage: "window width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 640,
					Usage: "window height",
				},
			},
			Action: viewScene,
		},
		{
			Name:      "inspect",
			Usage:     "print a scene description with its templates applied",
			ArgsUsage: "scene.yaml",
			Flags:     []cli.Flag{settingsFlag},
			Action:    inspectScene,
		},
		{
			Name:   "defaults",
			Usage:  "print the default settings in TOML format",
			Action: printDefaults,
		},
	}
	return app
}
