// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	"log/slog"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/pkg/errors"
)

// Program is a linked vertex and fragment shader program.
type Program struct {
	ID                           uint32
	VertexShader, FragmentShader uint32
}

// Delete deletes the program and its shaders.
func (p *Program) Delete() {
	gl.DetachShader(p.ID, p.VertexShader)
	gl.DetachShader(p.ID, p.FragmentShader)
	gl.DeleteProgram(p.ID)
	gl.DeleteShader(p.VertexShader)
	gl.DeleteShader(p.FragmentShader)
}

// Uniform returns the location of the named uniform.
func (p *Program) Uniform(name string) int32 {
	return gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
}

// LoadProgram compiles and links a program from the given shader sources.
func LoadProgram(vertexSource, fragmentSource string) (*Program, error) {
	p := &Program{}
	vs, err := LoadShader(gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	}
	p.VertexShader = vs
	fs, err := LoadShader(gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		gl.DeleteShader(p.VertexShader)
		return nil, errors.Wrap(err, "fragment shader")
	}
	p.FragmentShader = fs

	p.ID = gl.CreateProgram()
	gl.AttachShader(p.ID, p.VertexShader)
	gl.AttachShader(p.ID, p.FragmentShader)
	gl.LinkProgram(p.ID)

	var linked int32
	gl.GetProgramiv(p.ID, gl.LINK_STATUS, &linked)
	if linked == gl.FALSE {
		var logSize int32
		gl.GetProgramiv(p.ID, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetProgramInfoLog(p.ID, int32(len(buf)), &logSize, &buf[0])
		msg := string(buf[:logSize])
		slog.Error("glgpu: failed to link program", "log", msg)
		p.Delete()
		return nil, errors.Errorf("failed to link program: %q", msg)
	}
	return p, nil
}

// LoadShader compiles a shader of the given type from source.
func LoadShader(xtype uint32, source string) (uint32, error) {
	shader := gl.CreateShader(xtype)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var success int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		var logSize int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetShaderInfoLog(shader, int32(len(buf)), &logSize, &buf[0])
		msg := string(buf[:logSize])
		slog.Error("glgpu: failed to compile shader", "log", msg)
		gl.DeleteShader(shader)
		return 0, errors.Errorf("failed to compile shader: %q", msg)
	}
	return shader, nil
}

// checkError returns an error for the pending GL error, if any.
func checkError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return errors.Errorf("%s: GL error 0x%x", op, code)
	}
	return nil
}
