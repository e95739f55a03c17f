package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/kmicah/cardtable-go/internal/protocol"
)

const dialTimeout = 10 * time.Second

// Client is a TCP client for the table protocol. It owns one connection;
// the server ties login state and table membership to the socket, so every
// command runs its whole flow on a single client.
type Client struct {
	conn   net.Conn
	nextID int64
	pushes []*protocol.Push
}

// Dial connects to the table server.
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call sends one request and waits for its response. Pushes that arrive
// first are buffered for Pushes / WaitPush.
func (c *Client) Call(typ protocol.RequestType, payload any) (*protocol.Response, error) {
	c.nextID++
	req := &protocol.Request{ProtocolID: c.nextID, Type: typ}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding payload: %w", err)
		}
		req.Payload = data
	}

	if err := protocol.WriteRequest(c.conn, req); err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	for {
		resp, push, err := c.readFrame(time.Time{})
		if err != nil {
			return nil, err
		}
		if push != nil {
			c.pushes = append(c.pushes, push)
			continue
		}
		return resp, nil
	}
}

// CallChecked is Call plus outcome checking: FAIL responses become errors
// carrying the server's error code.
func (c *Client) CallChecked(typ protocol.RequestType, payload any) (*protocol.Response, error) {
	resp, err := c.Call(typ, payload)
	if err != nil {
		return nil, err
	}
	if resp.Outcome != protocol.OutcomeSuccess {
		return nil, fmt.Errorf("%s failed: %s", typ, resp.ErrorCode)
	}
	return resp, nil
}

// Pushes drains the buffered pushes received so far.
func (c *Client) Pushes() []*protocol.Push {
	pushes := c.pushes
	c.pushes = nil
	return pushes
}

// WaitPush blocks until the next push arrives or the timeout passes.
// A zero timeout blocks until the connection closes.
func (c *Client) WaitPush(timeout time.Duration) (*protocol.Push, error) {
	if len(c.pushes) > 0 {
		push := c.pushes[0]
		c.pushes = c.pushes[1:]
		return push, nil
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	resp, push, err := c.readFrame(deadline)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		return nil, errors.New("received a response while waiting for pushes")
	}
	return push, nil
}

// readFrame reads one frame and splits it into response or push. The two
// share the wire; only responses carry an outcome.
func (c *Client) readFrame(deadline time.Time) (*protocol.Response, *protocol.Push, error) {
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, nil, err
	}
	payload, err := protocol.ReadFrame(c.conn)
	if err != nil {
		return nil, nil, fmt.Errorf("reading frame: %w", err)
	}

	var probe struct {
		Outcome protocol.Outcome `json:"outcome"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, nil, fmt.Errorf("decoding frame: %w", err)
	}

	if probe.Outcome == "" {
		var push protocol.Push
		if err := json.Unmarshal(payload, &push); err != nil {
			return nil, nil, fmt.Errorf("decoding push: %w", err)
		}
		return nil, &push, nil
	}

	var resp protocol.Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, nil, fmt.Errorf("decoding response: %w", err)
	}
	return &resp, nil, nil
}

// Login authenticates this connection.
func (c *Client) Login(username, password string) error {
	_, err := c.CallChecked(protocol.TypeLoginUser, protocol.LoginPayload{
		Username: username,
		Password: password,
	})
	return err
}
