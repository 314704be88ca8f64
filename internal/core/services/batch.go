package services

import (
	"context"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
)

// applyStream walks a flat or paged remote stream and applies fn to each
// leaf item in sequence order, counting items across page boundaries. It
// stops as soon as limit items have been processed (domain.NoLimit means
// unbounded) and never rewinds; the stream is consumed exactly once.
// A stream error or an fn error aborts the walk.
func applyStream(ctx context.Context, stream domain.RemoteStream, limit int, fn func(ctx context.Context, item any) error) (int, error) {
	processed := 0
	err := applyStreamInner(ctx, stream, limit, &processed, fn)
	return processed, err
}

func applyStreamInner(ctx context.Context, stream domain.RemoteStream, limit int, processed *int, fn func(ctx context.Context, item any) error) error {
	for item, err := range stream {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// A nested stream is one page of results; recurse into it so the
		// limit keeps counting leaves across pages.
		if page, ok := item.(domain.RemoteStream); ok {
			if err := applyStreamInner(ctx, page, limit, processed, fn); err != nil {
				return err
			}
			if limit != domain.NoLimit && *processed >= limit {
				return nil
			}
			continue
		}

		if err := fn(ctx, item); err != nil {
			return err
		}
		*processed++
		if limit != domain.NoLimit && *processed >= limit {
			return nil
		}
	}
	return nil
}
