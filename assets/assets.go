// Package assets embeds the lighting shaders so the framework runs without a shader directory.
package assets

import "embed"

// Shaders holds the files under shaders/.
//
//go:embed shaders/*
var Shaders embed.FS

// Embedded shader file names.
const (
	LightingVertGLSL = "shaders/lighting.vert"
	LightingFragGLSL = "shaders/lighting.frag"
	LightingWGSL     = "shaders/lighting.wgsl"
)
