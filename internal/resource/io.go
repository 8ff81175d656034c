package resource

import (
	"context"
	"io"
)

// LimitWriter returns w throttled by the controller's IO limit. Without a
// limit w is returned as is.
func LimitWriter(ctx context.Context, w io.Writer, rc *Controller) io.Writer {
	if rc == nil || rc.ioLimiter == nil {
		return w
	}
	return &limitedWriter{ctx: ctx, w: w, rc: rc}
}

// LimitReader returns r throttled by the controller's IO limit. Without a
// limit r is returned as is.
func LimitReader(ctx context.Context, r io.Reader, rc *Controller) io.Reader {
	if rc == nil || rc.ioLimiter == nil {
		return r
	}
	return &limitedReader{ctx: ctx, r: r, rc: rc}
}

type limitedWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// Write forwards p in bucket-sized pieces so a canceled context stops the
// stream between pieces.
func (lw *limitedWriter) Write(p []byte) (int, error) {
	written := 0
	burst := lw.rc.ioLimiter.Burst()
	for len(p) > 0 {
		chunk := p[:min(len(p), burst)]
		if err := lw.rc.AcquireIO(lw.ctx, len(chunk)); err != nil {
			return written, err
		}
		n, err := lw.w.Write(chunk)
		written += n
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}

type limitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// Read takes tokens for at most one bucket before reading. Tokens for bytes
// the source did not deliver are not refunded.
func (lr *limitedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return lr.r.Read(p)
	}
	p = p[:min(len(p), lr.rc.ioLimiter.Burst())]
	if err := lr.rc.AcquireIO(lr.ctx, len(p)); err != nil {
		return 0, err
	}
	return lr.r.Read(p)
}
