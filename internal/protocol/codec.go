package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Each message travels as one frame: a 2-byte big-endian length prefix
// followed by that many bytes of UTF-8 JSON. This matches the original
// client's framing, so frames cap out at 64KiB.

// MaxFrameSize is the largest payload a single frame can carry.
const MaxFrameSize = 1<<16 - 1

// ErrFrameTooLarge is returned when a payload exceeds MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// WriteFrame writes one length-prefixed frame.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var header [2]byte
	binary.BigEndian.PutUint16(header[:], uint16(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed frame. A clean peer close before any
// header byte surfaces as io.EOF; a close mid-frame is io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	payload := make([]byte, binary.BigEndian.Uint16(header[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}

// ReadRequest reads and decodes one request frame.
func ReadRequest(r io.Reader) (*Request, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	return &req, nil
}

// WriteRequest encodes and writes one request frame.
func WriteRequest(w io.Writer, req *Request) error {
	return writeJSON(w, req)
}

// ReadResponse reads and decodes one response frame (client side).
func ReadResponse(r io.Reader) (*Response, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil
}

// WriteResponse encodes and writes one response frame.
func WriteResponse(w io.Writer, resp *Response) error {
	return writeJSON(w, resp)
}

// ReadPush reads and decodes one push frame (client side).
func ReadPush(r io.Reader) (*Push, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	var push Push
	if err := json.Unmarshal(payload, &push); err != nil {
		return nil, fmt.Errorf("decoding push: %w", err)
	}
	return &push, nil
}

// WritePush encodes and writes one push frame.
func WritePush(w io.Writer, push *Push) error {
	return writeJSON(w, push)
}

func writeJSON(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	return WriteFrame(w, payload)
}
