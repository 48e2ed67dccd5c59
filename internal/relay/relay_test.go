package relay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-contact/internal/config"
)

var payload = Payload{
	Name:    "Jean Dupont",
	Email:   "jean@example.com",
	Message: "Bonjour, je souhaite vous contacter.",
}

func newWeb3Forms(t *testing.T, handler http.HandlerFunc) *Web3Forms {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWeb3Forms(&config.Config{RelayURL: srv.URL, RelayAccessKey: "key-123"}, srv.Client())
}

func TestWeb3FormsSendsMultipartFields(t *testing.T) {
	w := newWeb3Forms(t, func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, payload.Name, r.FormValue("name"))
		assert.Equal(t, payload.Email, r.FormValue("email"))
		assert.Equal(t, payload.Message, r.FormValue("message"))
		assert.Equal(t, "key-123", r.FormValue("access_key"))
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write([]byte(`{"success":true,"message":"Email sent successfully!"}`))
	})

	res, err := w.Deliver(context.Background(), payload)

	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, Message: "Email sent successfully!"}, res)
}

func TestWeb3FormsApplicationRejection(t *testing.T) {
	w := newWeb3Forms(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusTooManyRequests)
		_, _ = rw.Write([]byte(`{"success":false,"message":"Quota exceeded"}`))
	})

	res, err := w.Deliver(context.Background(), payload)

	require.NoError(t, err)
	assert.Equal(t, Result{Success: false, Message: "Quota exceeded"}, res)
}

func TestWeb3FormsServerErrorClaimingSuccess(t *testing.T) {
	w := newWeb3Forms(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
		_, _ = rw.Write([]byte(`{"success":true,"message":"ok"}`))
	})

	res, err := w.Deliver(context.Background(), payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.False(t, res.Success)
}

func TestWeb3FormsUnreadableBody(t *testing.T) {
	w := newWeb3Forms(t, func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := w.Deliver(context.Background(), payload)
	assert.Error(t, err)
}

func TestWeb3FormsMissingSuccessFlag(t *testing.T) {
	w := newWeb3Forms(t, func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`{"message":"hello"}`))
	})

	_, err := w.Deliver(context.Background(), payload)
	assert.Error(t, err)
}

func TestWeb3FormsServerErrorWithoutBody(t *testing.T) {
	w := newWeb3Forms(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusBadGateway)
	})

	_, err := w.Deliver(context.Background(), payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWeb3FormsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	w := NewWeb3Forms(&config.Config{RelayURL: srv.URL, RelayAccessKey: "k"}, nil)

	_, err := w.Deliver(context.Background(), payload)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotConfigured))
}

func TestWeb3FormsMissingAccessKey(t *testing.T) {
	called := false
	w := newWeb3Forms(t, func(rw http.ResponseWriter, r *http.Request) { called = true })
	w.AccessKey = ""

	_, err := w.Deliver(context.Background(), payload)

	assert.ErrorIs(t, err, ErrMissingAccessKey)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, called)
}

func TestSMTPDeliver(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	s := NewSMTP(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: "587", SMTPUser: "me@example.com", SMTPPass: "pw"})
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	res, err := s.Deliver(context.Background(), Payload{Name: "Jean\r\nBcc x", Email: payload.Email, Message: payload.Message})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "me@example.com", gotFrom)
	assert.Equal(t, []string{"me@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Reply-To: jean@example.com\r\n")
	assert.Contains(t, string(gotMsg), "Subject: Portfolio Contact: Jean  Bcc x\r\n")
}

func TestSMTPMissingCredentials(t *testing.T) {
	s := NewSMTP(&config.Config{SMTPHost: "smtp.example.com"})
	_, err := s.Deliver(context.Background(), payload)
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPSendFailure(t *testing.T) {
	s := NewSMTP(&config.Config{SMTPUser: "u", SMTPPass: "p", ToEmail: "owner@example.com"})
	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("554 rejected") }

	_, err := s.Deliver(context.Background(), payload)
	assert.Error(t, err)
}

func TestNewPicksDriver(t *testing.T) {
	d, err := New(&config.Config{RelayDriver: config.RelaySMTP})
	require.NoError(t, err)
	assert.IsType(t, &SMTP{}, d)

	d, err = New(&config.Config{RelayDriver: config.RelayWeb3Forms})
	require.NoError(t, err)
	assert.IsType(t, &Web3Forms{}, d)

	_, err = New(&config.Config{RelayDriver: "carrier-pigeon"})
	assert.Error(t, err)
}
