package wasihttp

import (
	"bytes"
	"io"
	"net/http"
)

// InputStream is a consumable byte stream.
type InputStream interface {
	// Read returns up to max bytes from the stream. An empty chunk with a
	// nil error signals the end of the stream; a non-nil error signals a
	// stream failure after which no more bytes can be read.
	Read(max int) ([]byte, error)
}

// OutputStream is a byte sink accepting a single blocking write.
type OutputStream interface {
	BlockingWriteAndFlush(p []byte) error
}

// NewInputStream adapts an io.Reader into an InputStream, converting the
// io.EOF convention into the empty-chunk convention.
func NewInputStream(r io.Reader) InputStream {
	return &readerStream{r: r}
}

type readerStream struct {
	r   io.Reader
	err error
}

func (s *readerStream) Read(max int) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if max <= 0 {
		return nil, nil
	}
	buf := make([]byte, max)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			// Defer the error to the next call so the bytes read along
			// with it are not lost.
			if err != nil && err != io.EOF {
				s.err = err
			}
			return buf[:n], nil
		}
		switch err {
		case nil:
			continue
		case io.EOF:
			return nil, nil
		default:
			s.err = err
			return nil, err
		}
	}
}

// NewOutputStream adapts an io.Writer into an OutputStream. If the writer
// implements http.Flusher the write is flushed through.
func NewOutputStream(w io.Writer) OutputStream {
	return &writerStream{w: w}
}

type writerStream struct {
	w io.Writer
}

func (s *writerStream) BlockingWriteAndFlush(p []byte) error {
	for len(p) > 0 {
		n, err := s.w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// bufferStream collects writes in memory; it backs OutgoingResponse bodies.
type bufferStream struct {
	buf bytes.Buffer
}

func (s *bufferStream) BlockingWriteAndFlush(p []byte) error {
	_, err := s.buf.Write(p)
	return err
}
