package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/chatrelay/errors"
	"github.com/LilVoxy/chatrelay/logger"
)

func newTestRouter(t *testing.T, handles ...Handle) (*Router, *Registry, *logger.Memory) {
	t.Helper()
	reg := NewRegistry()
	for _, h := range handles {
		_, err := reg.Register(h, "127.0.0.1:0")
		require.NoError(t, err)
		require.NoError(t, reg.MarkHandshakeDone(h))
	}
	mem := &logger.Memory{}
	return NewRouter(reg, logger.New(mem)), reg, mem
}

func TestRouter_LoginRoster(t *testing.T) {
	r, _, _ := newTestRouter(t, 1, 2)

	out, err := r.Route(1, DecodedMessage{Type: TypeLogin, Content: "alice"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"login","content":"alice","userList":["alice"]}`, string(out))

	out, err = r.Route(2, DecodedMessage{Type: TypeLogin, Content: "bob"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"login","content":"bob","userList":["alice","bob"]}`, string(out))
}

func TestRouter_LogoutRosterAfterRemoval(t *testing.T) {
	r, reg, _ := newTestRouter(t, 1, 2)
	require.NoError(t, reg.SetDisplayName(1, "alice"))
	require.NoError(t, reg.SetDisplayName(2, "bob"))

	msg, _, ok := Disconnect(reg, 2)
	require.True(t, ok)

	out, err := r.Route(2, msg)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"logout","content":"bob","userList":["alice"]}`, string(out))
}

func TestRouter_LogoutOfLastUserHasEmptyList(t *testing.T) {
	r, reg, _ := newTestRouter(t, 1)
	require.NoError(t, reg.SetDisplayName(1, "alice"))
	msg, _, _ := Disconnect(reg, 1)

	out, err := r.Route(1, msg)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"logout","content":"alice","userList":[]}`, string(out))
}

func TestRouter_UserMessage(t *testing.T) {
	r, reg, _ := newTestRouter(t, 1)
	require.NoError(t, reg.SetDisplayName(1, "alice"))

	out, err := r.Route(1, DecodedMessage{Type: TypeUser, Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"user","from":"alice","content":"hi"}`, string(out))
}

func TestRouter_UnrecognizedIsLoggedOnly(t *testing.T) {
	r, _, mem := newTestRouter(t, 1)

	out, err := r.Route(1, DecodedMessage{Type: TypeUnrecognized, RawType: "ping"})
	require.NoError(t, err)
	assert.Nil(t, out)

	recs := mem.Find(logger.CategoryDebug, "unknown_message_type")
	require.Len(t, recs, 1)
	assert.Equal(t, "ping", recs[0].Fields["type"])
}

func TestRouter_LoginUnknownHandle(t *testing.T) {
	r, _, _ := newTestRouter(t)

	_, err := r.Route(9, DecodedMessage{Type: TypeLogin, Content: "ghost"})
	assert.ErrorIs(t, err, errors.ErrUnknownHandle)
}
