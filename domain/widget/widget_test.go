package widget

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somabay/handbook/domain/tree"
)

func TestDecodeData(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		raw  string
		want Data
	}{
		{name: "text", kind: KindText, raw: `{"content": "<p>Hi</p>"}`, want: Text{Content: "<p>Hi</p>"}},
		{name: "image", kind: KindImage, raw: `{"url": "/uploads/a.png", "alt": "A"}`, want: Image{URL: "/uploads/a.png", Alt: "A"}},
		{name: "social", kind: KindSocial, raw: `{"twitter": "https://x.com/hb"}`, want: Social{Twitter: "https://x.com/hb"}},
		{name: "empty", kind: KindSocial, raw: ``, want: Social{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeData(tt.kind, json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.kind, got.Kind())
		})
	}
}

func TestDecodeData_Errors(t *testing.T) {
	_, err := DecodeData("carousel", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, tree.ErrValidation)

	_, err = DecodeData(KindText, json.RawMessage(`{"content": 5}`))
	assert.ErrorIs(t, err, tree.ErrValidation)
}

func TestNew(t *testing.T) {
	w, err := New("footer-social", Social{Facebook: "https://fb.com/hb"})
	require.NoError(t, err)
	assert.Equal(t, KindSocial, w.Kind())

	_, err = New("", Text{})
	assert.ErrorIs(t, err, tree.ErrValidation)

	_, err = New("logo", Image{})
	assert.ErrorIs(t, err, tree.ErrValidation)

	_, err = New("logo", nil)
	assert.ErrorIs(t, err, tree.ErrValidation)
}

func TestWidget_WithData(t *testing.T) {
	w, err := New("banner", Text{Content: "a"})
	require.NoError(t, err)
	w = w.WithID(7)

	next, err := w.WithData(Image{URL: "/uploads/b.png"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), next.ID())
	assert.Equal(t, KindImage, next.Kind())
}

func TestEncodeData(t *testing.T) {
	raw, err := EncodeData(Image{URL: "/a.png", Alt: "a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"url": "/a.png", "alt": "a"}`, string(raw))
}
