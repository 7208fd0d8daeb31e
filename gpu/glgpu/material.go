// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	_ "embed"

	"cogentcore.org/xr/gpu"
	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

//go:embed shaders/color.vert
var colorVertexShader string

//go:embed shaders/color.frag
var colorFragmentShader string

// ColorProgram is the program shared by all [ColorMaterial]s.
type ColorProgram struct {
	*Program
	uMVP   int32
	uColor int32
}

// NewColorProgram compiles the solid color program.
func NewColorProgram() (*ColorProgram, error) {
	p, err := LoadProgram(colorVertexShader, colorFragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "color program")
	}
	return &ColorProgram{Program: p, uMVP: p.Uniform("uMVP"), uColor: p.Uniform("uColor")}, nil
}

// ColorMaterial draws geometry in a solid color.
// It implements [gpu.Material].
type ColorMaterial struct {

	// Color is the RGBA color.
	Color mgl32.Vec4

	program *ColorProgram
}

// NewColorMaterial returns a new material of the given color on the
// given program.
func NewColorMaterial(prog *ColorProgram, color mgl32.Vec4) *ColorMaterial {
	return &ColorMaterial{Color: color, program: prog}
}

// SortKey groups the draws by program.
func (cm *ColorMaterial) SortKey() uint64 {
	if cm.program == nil {
		return 0
	}
	return uint64(cm.program.ID) << 32
}

func (cm *ColorMaterial) Bind(xf *gpu.Transforms) error {
	if cm.program == nil || cm.program.Program == nil {
		return errors.New("color material has no program")
	}
	gl.UseProgram(cm.program.ID)
	gl.UniformMatrix4fv(cm.program.uMVP, 1, false, &xf.MVP[0])
	gl.Uniform4fv(cm.program.uColor, 1, &cm.Color[0])
	return nil
}
