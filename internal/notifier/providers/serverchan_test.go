package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerChanSendSuccess(t *testing.T) {
	var gotPath, gotTitle, gotDesp string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotTitle = r.PostForm.Get("title")
		gotDesp = r.PostForm.Get("desp")
		w.Write([]byte(`{"code": 0}`))
	}))
	t.Cleanup(srv.Close)

	s := NewServerChanSender(srv.Client(), "SCTKEY", srv.URL)

	err := s.Send(context.Background(), "Tomorrow's Weather", "# report body")

	require.NoError(t, err)
	assert.Equal(t, "/SCTKEY.send", gotPath)
	assert.Equal(t, "Tomorrow's Weather", gotTitle)
	assert.Equal(t, "# report body", gotDesp)
}

func TestServerChanSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 40001, "message": "bad sendkey"}`))
	}))
	t.Cleanup(srv.Close)

	s := NewServerChanSender(srv.Client(), "SCTKEY", srv.URL)

	err := s.Send(context.Background(), "t", "b")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSendFailed))
	assert.Contains(t, err.Error(), "bad sendkey")
}

func TestServerChanSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	s := NewServerChanSender(srv.Client(), "SCTKEY", srv.URL)

	err := s.Send(context.Background(), "t", "b")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSendFailed))
}

func TestDiscordSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	d := NewDiscordSender(srv.Client(), srv.URL)

	require.NoError(t, d.Send(context.Background(), "title", "body"))
}

func TestDiscordSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	d := NewDiscordSender(srv.Client(), srv.URL)

	err := d.Send(context.Background(), "title", "body")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSendFailed))
}
