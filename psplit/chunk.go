package psplit

import (
	"fmt"
	"io"
	"os"
)

// openOutput creates prefix<index>, mode 0700, truncating any
// pre-existing file (spec.md §6).
func openOutput(prefix string, index int) (*os.File, error) {
	name := fmt.Sprintf("%s%d", prefix, index)
	return os.OpenFile(name, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o700)
}

// chunkBytes is the Go rendering of escribir_bytes: it streams r
// through a read buffer of size bsize, filling each output to exactly
// nbytes except possibly the last (spec.md §4.4, property 13).
func chunkBytes(prefix string, r io.Reader, nbytes, bsize int) error {
	buf := make([]byte, bsize)
	index := 0
	var out *os.File
	remaining := 0

	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			pos := 0

			if out != nil && remaining > 0 {
				take := remaining
				if take > n-pos {
					take = n - pos
				}
				if _, err := out.Write(buf[pos : pos+take]); err != nil {
					return err
				}
				pos += take
				remaining -= take
				if remaining == 0 {
					out.Close()
					out = nil
				}
			}

			for pos < n {
				f, err := openOutput(prefix, index)
				if err != nil {
					return err
				}
				index++

				take := nbytes
				if take > n-pos {
					take = n - pos
				}
				if _, err := f.Write(buf[pos : pos+take]); err != nil {
					f.Close()
					return err
				}
				pos += take

				if take == nbytes {
					f.Close()
				} else {
					out = f
					remaining = nbytes - take
				}
			}
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}

	if out != nil {
		out.Close()
	}
	return nil
}

// chunkLines is the Go rendering of escribir_lineas: identical shape to
// chunkBytes, but "how many bytes satisfy this output" is answered by
// counting newlines instead of a fixed byte count (spec.md §4.4,
// property 14).
func chunkLines(prefix string, r io.Reader, nlines, bsize int) error {
	buf := make([]byte, bsize)
	index := 0
	var out *os.File
	remaining := 0

	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			pos := 0

			if out != nil && remaining > 0 {
				if end := firstNNewlines(buf, pos, remaining, n); end != -1 {
					if _, err := out.Write(buf[pos : pos+end]); err != nil {
						return err
					}
					pos += end
					out.Close()
					out = nil
					remaining = 0
				} else {
					cnt := countNewlines(buf, pos, n-pos)
					if _, err := out.Write(buf[pos:n]); err != nil {
						return err
					}
					remaining -= cnt
					pos = n
				}
			}

			for pos < n {
				f, err := openOutput(prefix, index)
				if err != nil {
					return err
				}
				index++

				if end := firstNNewlines(buf, pos, nlines, n); end != -1 {
					if _, err := f.Write(buf[pos : pos+end]); err != nil {
						f.Close()
						return err
					}
					pos += end
					f.Close()
				} else {
					cnt := countNewlines(buf, pos, n-pos)
					if _, err := f.Write(buf[pos:n]); err != nil {
						f.Close()
						return err
					}
					out = f
					remaining = nlines - cnt
					pos = n
				}
			}
		}

		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}

	if out != nil {
		out.Close()
	}
	return nil
}

// firstNNewlines returns the byte offset, relative to from, of the end
// of the want-th newline within buf[from:end], or -1 if the window
// contains fewer than want newlines.
func firstNNewlines(buf []byte, from, want, end int) int {
	count := 0
	for i := from; i < end; i++ {
		if buf[i] == '\n' {
			count++
			if count == want {
				return i + 1 - from
			}
		}
	}
	return -1
}

// countNewlines counts newlines in buf[from : from+length].
func countNewlines(buf []byte, from, length int) int {
	n := 0
	end := from + length
	for i := from; i < end; i++ {
		if buf[i] == '\n' {
			n++
		}
	}
	return n
}

// chunk dispatches to the byte or line chunker per opts.
func chunk(prefix string, r io.Reader, opts *Options) error {
	if opts.LineMode() {
		return chunkLines(prefix, r, opts.Lines, opts.BSize)
	}
	return chunkBytes(prefix, r, opts.Bytes, opts.BSize)
}
