package cast

import (
	"io"
	"strings"
	"time"
)

// Stream delivers spell output incrementally: a finite, non-restartable
// sequence of ordered chunks. C closing is the end-of-stream signal; after
// that, Wait reports how the producing process exited.
type Stream struct {
	// C yields output chunks in arrival order and is closed exactly once
	// when the stream ends.
	C <-chan string

	errc chan error
	err  error
	done bool
}

// Wait blocks until the stream has ended and returns the producer's exit
// error, if any. Callers should drain C first.
func (s *Stream) Wait() error {
	if !s.done {
		s.err = <-s.errc
		s.done = true
	}
	return s.err
}

// Collect drains the stream into a single string and waits for the producer.
// Convenience for callers that decide late they want the whole output.
func (s *Stream) Collect() (string, error) {
	var b strings.Builder
	for chunk := range s.C {
		b.WriteString(chunk)
	}
	return b.String(), s.Wait()
}

// newStream reads r until EOF, batching chunks on a fixed flush interval so
// fast producers do not flood the consumer with tiny writes. wait is called
// once after the reader finishes and its result is surfaced via Wait.
func newStream(r io.Reader, interval time.Duration, wait func() error) *Stream {
	raw := make(chan string, 16)
	out := make(chan string, 16)
	errc := make(chan error, 1)

	// reader: raw chunks as the process produces them
	go func() {
		defer close(raw)
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				raw <- string(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()

	// batcher: accumulate and flush every interval
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var pending strings.Builder
		for {
			select {
			case chunk, ok := <-raw:
				if !ok {
					if pending.Len() > 0 {
						out <- pending.String()
					}
					errc <- wait()
					return
				}
				pending.WriteString(chunk)
			case <-ticker.C:
				if pending.Len() > 0 {
					out <- pending.String()
					pending.Reset()
				}
			}
		}
	}()

	return &Stream{C: out, errc: errc}
}
