// Package tracelog reads and writes the exchange trace log: an append-only
// file of compressed records, one per HTTP exchange served by the echo
// handler.
//
// The file starts with a fixed header identifying the format and version.
// Each record is framed as a 4-byte big-endian payload length, a one-byte
// compression tag, and the payload itself: a json-encoded
// httpformat.Exchange, compressed according to the tag.
package tracelog

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/loopwork/echotrace/format/httpformat"
)

var magic = [4]byte{'E', 'C', 'T', '1'}

// maxRecordSize bounds the payload length accepted when reading, so a
// corrupted frame cannot trigger an arbitrarily large allocation.
const maxRecordSize = 64 << 20

// Writer appends exchanges to a trace log. It is safe for concurrent use.
type Writer struct {
	mutex       sync.Mutex
	w           io.Writer
	compression Compression
	started     bool
	frame       [5]byte
	buffer      []byte
}

func NewWriter(w io.Writer, compression Compression) *Writer {
	return &Writer{w: w, compression: compression}
}

// Resume marks the destination as already carrying the log header, for
// appending to an existing log file.
func (w *Writer) Resume() {
	w.mutex.Lock()
	w.started = true
	w.mutex.Unlock()
}

// WriteExchange appends one record to the log, writing the file header first
// if this is the first record.
func (w *Writer) WriteExchange(exchange *httpformat.Exchange) error {
	payload, err := json.Marshal(exchange)
	if err != nil {
		return fmt.Errorf("encoding exchange record: %w", err)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.started {
		if _, err := w.w.Write(magic[:]); err != nil {
			return err
		}
		w.started = true
	}

	w.buffer, err = compress(w.buffer[:0], payload, w.compression)
	if err != nil {
		return err
	}

	binary.BigEndian.PutUint32(w.frame[:4], uint32(len(w.buffer)))
	w.frame[4] = byte(w.compression)
	if _, err := w.w.Write(w.frame[:]); err != nil {
		return err
	}
	_, err = w.w.Write(w.buffer)
	return err
}

// Reader iterates over the records of a trace log.
type Reader struct {
	r       *bufio.Reader
	started bool
	buffer  []byte
	payload []byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadExchange returns the next record, or io.EOF after the last one.
func (r *Reader) ReadExchange() (*httpformat.Exchange, error) {
	if !r.started {
		var header [4]byte
		if _, err := io.ReadFull(r.r, header[:]); err != nil {
			if err == io.ErrUnexpectedEOF {
				err = io.EOF
			}
			return nil, err
		}
		if header != magic {
			return nil, fmt.Errorf("not an echotrace log (bad magic %q)", header[:])
		}
		r.started = true
	}

	var frame [5]byte
	if _, err := io.ReadFull(r.r, frame[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = fmt.Errorf("truncated record frame: %w", err)
		}
		return nil, err
	}

	size := binary.BigEndian.Uint32(frame[:4])
	if size > maxRecordSize {
		return nil, fmt.Errorf("record of %d bytes exceeds the %d bytes limit", size, maxRecordSize)
	}
	compression := Compression(frame[4])

	if uint32(cap(r.buffer)) < size {
		r.buffer = make([]byte, size)
	}
	r.buffer = r.buffer[:size]
	if _, err := io.ReadFull(r.r, r.buffer); err != nil {
		return nil, fmt.Errorf("truncated record payload: %w", err)
	}

	payload, err := decompress(r.payload[:0], r.buffer, compression)
	if err != nil {
		return nil, err
	}
	r.payload = payload

	exchange := new(httpformat.Exchange)
	if err := json.Unmarshal(payload, exchange); err != nil {
		return nil, fmt.Errorf("decoding exchange record: %w", err)
	}
	return exchange, nil
}
