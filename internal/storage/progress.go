package storage

import "io"

// progressReader wraps a reader and reports the running byte count to a
// callback after every read. Wrapping the transport stream keeps progress
// accounting out of the copy loop itself.
type progressReader struct {
	r          io.Reader
	total      int64
	written    int64
	onProgress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, onProgress ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, onProgress: onProgress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.written += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.written, p.total)
		}
	}
	return n, err
}
