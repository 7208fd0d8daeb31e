// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"cogentcore.org/xr/base/errors"
	"cogentcore.org/xr/config"
	"cogentcore.org/xr/gpu/nullgpu"
	"cogentcore.org/xr/vr"
	"cogentcore.org/xr/xyz"
	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

// simApp is the [vr.App] that builds a scene description.
type simApp struct {
	vr.AppBase
	desc *config.Desc
	lib  config.Library
}

func (sa *simApp) OneTimeInit(dr *vr.Driver) error {
	dr.Scene.Name = sa.desc.Name
	_, err := sa.desc.Build(dr.Scene, sa.lib)
	return err
}

// loadSettings returns the settings from the file of the settings
// flag, or the defaults.
func loadSettings(ctx *cli.Context) (*config.Settings, error) {
	fn := ctx.String("settings")
	if fn == "" {
		return config.Default(), nil
	}
	return config.Open(fn)
}

// loadScene returns the scene description from the first argument,
// or the demo scene.
func loadScene(ctx *cli.Context) (*config.Desc, error) {
	if ctx.NArg() == 0 {
		return demoScene(), nil
	}
	return config.OpenScene(ctx.Args().First())
}

func runScene(ctx *cli.Context) error {
	s, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	desc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	frames := ctx.Int("frames")
	if frames < 0 {
		return fmt.Errorf("invalid number of frames %d", frames)
	}

	dev := nullgpu.NewDevice(ctx.Int("latency"))
	dr := vr.NewDriver(&simApp{desc: desc, lib: newLibrary(dev)}, dev, s)
	src := vr.NewSimSource(int64(frames), float32(ctx.Float64("yaw")))

	g, gctx := errgroup.WithContext(context.Background())
	runCtx, stop := context.WithCancel(gctx)
	defer stop()
	var watcher *config.Watcher
	if fn := ctx.String("settings"); ctx.Bool("watch") && fn != "" {
		w, err := config.NewWatcher(fn)
		if err != nil {
			return err
		}
		watcher = w
		dr.Reloads = w.C
		g.Go(func() error {
			err := w.Run(runCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		defer stop()
		return dr.Run(runCtx, src)
	})
	err = g.Wait()
	if watcher != nil {
		err = errors.Join(err, watcher.Close())
	}
	if err != nil {
		return err
	}
	slog.Info("xrsim: done", "scene", desc.Name, "frames", dr.Frames, "nodes", dr.Scene.NumNodes())
	return writeStats(ctx.App.Writer, dr)
}

// writeStats writes a table of the total stats of each eye.
func writeStats(w io.Writer, dr *vr.Driver) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Eye", "Visited", "Frustum", "LOD", "Occluded", "Queries", "Pending", "Drawn", "Bind errors"})
	var total xyz.Stats
	for eye := range xyz.Eyes {
		st := &dr.Totals[eye]
		total.Add(st)
		table.Append(statsRow(eyeName(eye), st))
	}
	table.SetFooter(statsRow("Total", &total))
	table.Render()
	_, err := fmt.Fprintf(w, "%d frames of %q\n%s", dr.Frames, dr.Scene.Name, buf.String())
	return err
}

func eyeName(eye int) string {
	if eye == 0 {
		return "left"
	}
	return "right"
}

func statsRow(name string, st *xyz.Stats) []string {
	return []string{
		name,
		strconv.Itoa(st.Visited),
		strconv.Itoa(st.FrustumCulled),
		strconv.Itoa(st.LODCulled),
		strconv.Itoa(st.Occluded),
		strconv.Itoa(st.QueriesIssued),
		strconv.Itoa(st.QueriesPending),
		strconv.Itoa(st.Drawn),
		strconv.Itoa(st.BindErrors),
	}
}

func inspectScene(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}
	desc, err := config.OpenScene(ctx.Args().First())
	if err != nil {
		return err
	}
	nodes, err := desc.Resolved()
	if err != nil {
		return err
	}
	if ctx.String("settings") != "" {
		s, err := loadSettings(ctx)
		if err != nil {
			return err
		}
		spew.Fdump(ctx.App.Writer, s)
	}
	spew.Fdump(ctx.App.Writer, nodes)
	return nil
}

func printDefaults(ctx *cli.Context) error {
	// the defaults always encode
	b := errors.Must1(config.Default().Bytes())
	_, err := ctx.App.Writer.Write(b)
	return err
}
