// Package runtimeembed carries the C runtime support sources (asl_rt.h,
// asl_rt.c) that every generated translation unit includes; asl2c copies
// them into the output directory next to the generated files so the
// result builds with no install step.
package runtimeembed

import (
	"embed"
	"io/fs"
)

//go:embed native/*.c native/*.h
var nativeRuntimeFS embed.FS

// NativeRuntimeFS exposes the embedded runtime support sources.
func NativeRuntimeFS() fs.FS {
	return nativeRuntimeFS
}
