package source

import (
	"context"
	"os"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/scoreline/file"
	"github.com/pkg/errors"
)

// Watch polls p every interval and calls onChange with the new content
// once the file has been quiet for the given duration. It returns when
// ctx is done.
func Watch(ctx context.Context, p string, interval, quiet time.Duration, onChange func(string, error)) error {
	info, err := os.Stat(p)
	if err != nil {
		return errors.Wrapf(err, "watching %v", p)
	}
	modTime, size := info.ModTime(), info.Size()

	debounced := debounce.New(quiet)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.ModTime().Equal(modTime) && info.Size() == size {
			continue
		}
		modTime, size = info.ModTime(), info.Size()

		debounced(func() {
			if ctx.Err() != nil {
				return
			}
			onChange(file.Read(p))
		})
	}
}
