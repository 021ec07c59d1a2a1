package logging

import (
	"context"

	"go.viam.com/utils"
)

// debugTagField is the field carrying the tag of a debug-mode context.
const debugTagField = "debug_tag"

type debugTagKey struct{}

// EnableDebugMode returns a context that makes `CDebug*` calls log at any logger level. Every such
// entry carries tag, which is randomly generated when empty, so the entries of one planning call
// can be picked out of interleaved output.
func EnableDebugMode(ctx context.Context, tag string) context.Context {
	if tag == "" {
		tag = utils.RandomAlphaString(6)
	}
	return context.WithValue(ctx, debugTagKey{}, tag)
}

// IsDebugMode reports whether ctx came from EnableDebugMode.
func IsDebugMode(ctx context.Context) bool {
	_, ok := DebugTag(ctx)
	return ok
}

// DebugTag returns the tag given to EnableDebugMode.
func DebugTag(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	tag, ok := ctx.Value(debugTagKey{}).(string)
	return tag, ok && tag != ""
}
