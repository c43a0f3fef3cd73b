package mock

import (
	"bytes"
	"io"
)

// RSC is an io.ReadSeekCloser over a byte slice that records Close.
type RSC struct {
	*bytes.Reader
	Closed bool
}

// compile-time check: *RSC must satisfy io.ReadSeekCloser
var _ io.ReadSeekCloser = (*RSC)(nil)

func NewRSC(data []byte) *RSC {
	return &RSC{Reader: bytes.NewReader(data)}
}

func (r *RSC) Close() error {
	r.Closed = true
	return nil
}
