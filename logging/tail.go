package logging

import (
	"context"
	"io"
	stdlog "log"

	"github.com/hpcloud/tail"
)

// TailOptions controls TailFile.
type TailOptions struct {
	// Follow keeps reading as the file grows and across rotation.
	Follow bool
	// FromEnd starts at the current end of file instead of the beginning.
	FromEnd bool
}

// TailFile streams lines of path to fn until the file ends (when not
// following), ctx is cancelled, or fn returns false.
func TailFile(ctx context.Context, path string, opts TailOptions, fn func(line string) bool) error {
	whence := io.SeekStart
	if opts.FromEnd {
		whence = io.SeekEnd
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    opts.Follow,
		ReOpen:    opts.Follow,
		MustExist: !opts.Follow,
		Location:  &tail.SeekInfo{Offset: 0, Whence: whence},
		Logger:    stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Wait()
			}
			if line.Err != nil {
				return line.Err
			}
			if !fn(line.Text) {
				return nil
			}
		}
	}
}
