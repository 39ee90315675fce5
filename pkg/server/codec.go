package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bastiangx/reelserve/pkg/config"
	"github.com/vmihailenco/msgpack/v5"
)

// maxLineSize bounds a single JSON request line.
const maxLineSize = 1 << 20

// codec frames messages on the transport. Next returns one raw inbound
// message; io.EOF means the client went away. Unmarshal failures on a frame
// are recoverable, Next failures are not.
type codec interface {
	Next() ([]byte, error)
	Unmarshal(data []byte, v any) error
	Write(v any) error
}

func newCodec(encoding string, r io.Reader, w io.Writer) (codec, error) {
	switch encoding {
	case config.EncodingMsgpack, "":
		bw := bufio.NewWriter(w)
		return &msgpackCodec{
			dec: msgpack.NewDecoder(bufio.NewReader(r)),
			enc: msgpack.NewEncoder(bw),
			w:   bw,
		}, nil
	case config.EncodingJSON:
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 4096), maxLineSize)
		return &jsonCodec{sc: sc, w: w}, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", encoding)
	}
}

type msgpackCodec struct {
	dec *msgpack.Decoder
	enc *msgpack.Encoder
	w   *bufio.Writer
}

func (c *msgpackCodec) Next() ([]byte, error) {
	return c.dec.DecodeRaw()
}

func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

func (c *msgpackCodec) Write(v any) error {
	if err := c.enc.Encode(v); err != nil {
		return err
	}
	return c.w.Flush()
}

type jsonCodec struct {
	sc *bufio.Scanner
	w  io.Writer
}

func (c *jsonCodec) Next() ([]byte, error) {
	for c.sc.Scan() {
		line := bytes.TrimSpace(c.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		return append([]byte(nil), line...), nil
	}
	if err := c.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (c *jsonCodec) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = c.w.Write(append(data, '\n'))
	return err
}
