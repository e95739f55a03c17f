package protocol

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CodecSuite struct {
	suite.Suite
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) TestFrameRoundTrip() {
	var buf bytes.Buffer
	payload := []byte(`{"hello":"table"}`)

	s.Require().NoError(WriteFrame(&buf, payload))

	got, err := ReadFrame(&buf)
	s.Require().NoError(err)
	s.Equal(payload, got)
}

func (s *CodecSuite) TestSequentialFramesStayDelimited() {
	var buf bytes.Buffer
	s.Require().NoError(WriteFrame(&buf, []byte("first")))
	s.Require().NoError(WriteFrame(&buf, []byte("second")))

	got, err := ReadFrame(&buf)
	s.Require().NoError(err)
	s.Equal("first", string(got))

	got, err = ReadFrame(&buf)
	s.Require().NoError(err)
	s.Equal("second", string(got))
}

func (s *CodecSuite) TestEmptyFrame() {
	var buf bytes.Buffer
	s.Require().NoError(WriteFrame(&buf, nil))

	got, err := ReadFrame(&buf)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *CodecSuite) TestOversizedFrameRejected() {
	var buf bytes.Buffer
	err := WriteFrame(&buf, bytes.Repeat([]byte("x"), MaxFrameSize+1))
	s.ErrorIs(err, ErrFrameTooLarge)
	s.Zero(buf.Len())
}

func (s *CodecSuite) TestCleanCloseIsEOF() {
	_, err := ReadFrame(strings.NewReader(""))
	s.ErrorIs(err, io.EOF)
}

func (s *CodecSuite) TestCloseMidFrameIsUnexpectedEOF() {
	// Header promises 10 bytes but only 3 arrive.
	_, err := ReadFrame(bytes.NewReader([]byte{0x00, 0x0a, 'a', 'b', 'c'}))
	s.ErrorIs(err, io.ErrUnexpectedEOF)
}

func (s *CodecSuite) TestCloseMidHeaderIsUnexpectedEOF() {
	_, err := ReadFrame(bytes.NewReader([]byte{0x00}))
	s.ErrorIs(err, io.ErrUnexpectedEOF)
}

func (s *CodecSuite) TestRequestRoundTrip() {
	var buf bytes.Buffer
	payload, err := json.Marshal(LoginPayload{Username: "alice", Password: "pw"})
	s.Require().NoError(err)

	s.Require().NoError(WriteRequest(&buf, &Request{
		ProtocolID: 42,
		Type:       TypeLoginUser,
		Payload:    payload,
	}))

	req, err := ReadRequest(&buf)
	s.Require().NoError(err)
	s.Equal(int64(42), req.ProtocolID)
	s.Equal(TypeLoginUser, req.Type)

	var decoded LoginPayload
	s.Require().NoError(req.DecodePayload(&decoded))
	s.Equal("alice", decoded.Username)
}

func (s *CodecSuite) TestResponseRoundTrip() {
	var buf bytes.Buffer
	s.Require().NoError(WriteResponse(&buf, Fail(&Request{ProtocolID: 7, Type: TypeJoinGame}, ErrCodeNoGame)))

	resp, err := ReadResponse(&buf)
	s.Require().NoError(err)
	s.Equal(int64(7), resp.ProtocolID)
	s.Equal(TypeJoinGame, resp.Type)
	s.Equal(OutcomeFail, resp.Outcome)
	s.Equal(ErrCodeNoGame, resp.ErrorCode)
}

func (s *CodecSuite) TestPushRoundTrip() {
	push, err := NewPush(PushGameNames, []string{"alice", "bob"})
	s.Require().NoError(err)

	var buf bytes.Buffer
	s.Require().NoError(WritePush(&buf, push))

	got, err := ReadPush(&buf)
	s.Require().NoError(err)
	s.Equal(PushGameNames, got.Type)

	var names []string
	s.Require().NoError(json.Unmarshal(got.Payload, &names))
	s.Equal([]string{"alice", "bob"}, names)
}

func (s *CodecSuite) TestMalformedJSONFrame() {
	var buf bytes.Buffer
	s.Require().NoError(WriteFrame(&buf, []byte("not json")))

	_, err := ReadRequest(&buf)
	s.Error(err)
}
