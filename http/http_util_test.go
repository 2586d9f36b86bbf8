package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Render(rec, req, http.StatusCreated, map[string]int64{"a": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ContentTypeJSON, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req.Header.Set("Accept", ContentTypeMsgPack)
	Render(rec, req, http.StatusOK, map[string]int64{"a": 1})
	assert.Equal(t, ContentTypeMsgPack, rec.Header().Get("Content-Type"))
	var got map[string]int64
	require.NoError(t, MsgPackDecodeBytes(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]int64{"a": 1}, got)

	rec = httptest.NewRecorder()
	RenderJSON(rec, http.StatusOK, "<a>")
	assert.JSONEq(t, `"<a>"`, rec.Body.String())

	rec = httptest.NewRecorder()
	RenderText(rec, http.StatusTeapot, "tea")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "tea", rec.Body.String())
}

func TestMsgPackDecodeEmpty(t *testing.T) {
	var v int
	assert.Error(t, MsgPackDecodeBytes(nil, &v))
}

func TestParseInt64(t *testing.T) {
	v, err := ParseInt64(" 42 ")
	assert.NoError(t, err)
	assert.EqualValues(t, 42, v)

	v, err = ParseInt64("-3")
	assert.NoError(t, err)
	assert.EqualValues(t, -3, v)

	_, err = ParseInt64("x")
	assert.Error(t, err)
	_, err = ParseInt64("99999999999999999999")
	assert.Error(t, err)
}
