package app

import "context"

// fallback runs a unit of work at a coarse granularity first and, when that
// fails, decomposes it and runs every element on its own.
type fallback[T any] struct {
	coarse func(ctx context.Context, unit []T) error
	fine   func(ctx context.Context, item T) error
}

// fallbackOutcome records how a unit was processed
type fallbackOutcome struct {
	Succeeded   int
	CoarseErr   error
	FineCalls   int
	FineErrors  map[int]error // keyed by position in the unit
	Interrupted bool          // ctx was cancelled before the unit finished
}

func (f fallback[T]) run(ctx context.Context, unit []T) fallbackOutcome {
	if len(unit) == 0 {
		return fallbackOutcome{}
	}

	err := f.coarse(ctx, unit)
	if err == nil {
		return fallbackOutcome{Succeeded: len(unit)}
	}

	out := fallbackOutcome{CoarseErr: err}
	for i, item := range unit {
		if ctx.Err() != nil {
			out.Interrupted = true
			return out
		}
		out.FineCalls++
		if err := f.fine(ctx, item); err != nil {
			// a call cut short by cancellation says nothing about the item
			if ctx.Err() != nil {
				out.Interrupted = true
				return out
			}
			if out.FineErrors == nil {
				out.FineErrors = make(map[int]error)
			}
			out.FineErrors[i] = err
			continue
		}
		out.Succeeded++
	}
	return out
}
