package netx

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadResponse_Bounded(t *testing.T) {
	big := strings.Repeat("x", int(MaxResponseSize)+10)
	data, err := ReadResponse(strings.NewReader(big))
	require.NoError(t, err)
	assert.Len(t, data, int(MaxResponseSize))
}

func TestDecodeResponse(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		var v struct {
			Detail string `json:"detail"`
		}
		require.NoError(t, DecodeResponse(strings.NewReader(`{"detail":"nope"}`), &v))
		assert.Equal(t, "nope", v.Detail)
	})

	t.Run("empty body leaves value", func(t *testing.T) {
		v := map[string]string{"k": "v"}
		require.NoError(t, DecodeResponse(strings.NewReader(""), &v))
		assert.Equal(t, "v", v["k"])
	})

	t.Run("invalid json", func(t *testing.T) {
		var v map[string]any
		require.Error(t, DecodeResponse(strings.NewReader("{oops"), &v))
	})
}

func TestEncodeBody(t *testing.T) {
	b, err := EncodeBody(nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = EncodeBody(map[string]string{"email": "a@b.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.com"}`, string(b))
}

func TestCookieValue(t *testing.T) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	u, _ := url.Parse("http://api.example.test/auth/login")
	jar.SetCookies(u, []*http.Cookie{{Name: "csrftoken", Value: "tok", Path: "/"}})

	req, _ := http.NewRequest(http.MethodPost, u.String(), nil)
	assert.Equal(t, "tok", CookieValue(jar, req, "csrftoken"))
	assert.Equal(t, "", CookieValue(jar, req, "missing"))
	assert.Equal(t, "", CookieValue(nil, req, "csrftoken"))
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(200))
	assert.True(t, IsSuccess(204))
	assert.False(t, IsSuccess(301))
	assert.False(t, IsSuccess(401))
}
