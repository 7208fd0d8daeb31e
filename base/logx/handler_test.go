// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	UserLevel = slog.LevelDebug
	SetDefaultLogger()

	slog.Debug("this is debug")
	slog.Info("this is info")
	slog.Warn("this is warn")
}

func TestHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(NewHandler(&buf, slog.LevelWarn))
	lg.Info("hidden")
	lg.Warn("shown", "node", "cube")
	lg.Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "node=cube")
	assert.Contains(t, out, "level=ERROR")
}

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false, true))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, true, false))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, false, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, false, false))
}

func TestLevelFromString(t *testing.T) {
	lv, err := LevelFromString("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lv)
	lv, err = LevelFromString("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lv)
	_, err = LevelFromString("chatty")
	assert.Error(t, err)
}

func TestSetUserLevel(t *testing.T) {
	prev, prevLevel := slog.Default(), UserLevel
	defer func() {
		slog.SetDefault(prev)
		SetUserLevel(prevLevel)
	}()

	UserLevel = slog.LevelInfo
	SetDefaultLogger()
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
	SetUserLevel(slog.LevelError)
	assert.Equal(t, slog.LevelError, UserLevel)
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))
}
