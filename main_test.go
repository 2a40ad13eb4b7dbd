package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		want   int
		stderr string
	}{
		{"no packages", nil, exitUsage, "Usage:"},
		{"help", []string{"-h"}, exitOK, "Backends: GLSL330, GLSL410"},
		{"bad flag", []string{"-nope", "./example"}, exitUsage, "flag provided but not defined"},
		{"missing config", []string{"-config", "missing.yaml", "./example"}, exitUsage, "GXSL4002"},
		{"negative concurrency", []string{"-j", "-1", "./example"}, exitUsage, "concurrency: -1 is negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
			if got := run(context.Background(), tt.args, stdout, stderr); got != tt.want {
				t.Errorf("exit code %d, want %d\n%s", got, tt.want, stderr)
			}
			if !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("stderr lacks %q:\n%s", tt.stderr, stderr)
			}
		})
	}
}

func TestRun_Example(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}
	out := t.TempDir()
	args := []string{"-o", out, "-companion", "gen", "./example"}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	if code := run(context.Background(), args, stdout, stderr); code != exitOK {
		t.Fatalf("exit code %d\n%s", code, stderr)
	}
	for _, name := range []string{
		"SpriteVertex.GLSL330.vert",
		"SpriteVertex.ESSL300.vert",
		"SpriteVertex.HLSL.hlsl",
		"SpriteVertex.SPIRV.spv",
		"SpriteFragment.GLSL330.frag",
		"SpriteFlash.GLSL330.frag",
		"SpriteFlash.WGSL.wgsl",
		"gxsl_shaders.go",
	} {
		path := filepath.Join(out, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if !strings.Contains(stdout.String(), path) {
			t.Errorf("%s not listed as written", name)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "SpriteFlash.HLSL.hlsl")); !os.IsNotExist(err) {
		t.Errorf("SpriteFlash built for HLSL despite its backend list: %v", err)
	}

	// A second run finds everything up to date.
	stdout.Reset()
	if code := run(context.Background(), args, stdout, stderr); code != exitOK {
		t.Fatalf("second run exit code %d\n%s", code, stderr)
	}
	if stdout.Len() != 0 {
		t.Errorf("second run wrote:\n%s", stdout)
	}
}

func TestRun_BackendOverride(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}
	t.Run("unknown name", func(t *testing.T) {
		out := t.TempDir()
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		code := run(context.Background(), []string{"-backends", "GLSL330,NOT_A_BACKEND", "-o", out, "./example"}, stdout, stderr)
		if code != exitErrors {
			t.Fatalf("exit code %d, want %d\n%s", code, exitErrors, stderr)
		}
		for _, name := range []string{"SpriteVertex", "SpriteFragment", "SpriteFlash"} {
			want := "(github.com/nikki93/gxsl/example." + name + ") unknown backend name NOT_A_BACKEND"
			if !strings.Contains(stderr.String(), want) {
				t.Errorf("stderr lacks %q:\n%s", want, stderr)
			}
		}
		if strings.Contains(stderr.String(), "GXSL4002") {
			t.Errorf("unknown name failed the whole run:\n%s", stderr)
		}
		if entries, _ := os.ReadDir(out); len(entries) != 0 {
			t.Errorf("wrote %d artifacts for classes with an unknown backend", len(entries))
		}
	})
	t.Run("any case", func(t *testing.T) {
		out := t.TempDir()
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		if code := run(context.Background(), []string{"-backends", "glsl330", "-o", out, "./example"}, stdout, stderr); code != exitOK {
			t.Fatalf("exit code %d\n%s", code, stderr)
		}
		for _, name := range []string{"SpriteVertex.GLSL330.vert", "SpriteFragment.GLSL330.frag", "SpriteFlash.GLSL330.frag"} {
			if _, err := os.Stat(filepath.Join(out, name)); err != nil {
				t.Error(err)
			}
		}
		if _, err := os.Stat(filepath.Join(out, "SpriteVertex.HLSL.hlsl")); !os.IsNotExist(err) {
			t.Errorf("built a backend outside the override: %v", err)
		}
	})
}
