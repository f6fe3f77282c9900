package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImageDataURI(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47}
	encoded := base64.StdEncoding.EncodeToString(raw)

	data, contentType, err := DecodeImageDataURI("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/png", contentType)

	data, contentType, err = DecodeImageDataURI("data:image/jpeg;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestDecodeImageDataURIBareBase64(t *testing.T) {
	raw := []byte("imagebytes")
	data, contentType, err := DecodeImageDataURI(base64.StdEncoding.EncodeToString(raw))

	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "image/png", contentType)
}

func TestDecodeImageDataURIInvalid(t *testing.T) {
	cases := []string{
		"data:image/png;base64",            // no comma
		"data:image/png;base64,!!!notb64",  // bad base64
		"data:text/plain;base64,aGVsbG8=",  // not an image
		"data:image/png;base64,",           // empty payload
		"%%%",                              // bad bare base64
	}
	for _, in := range cases {
		_, _, err := DecodeImageDataURI(in)
		assert.Error(t, err, "input: %q", in)
	}
}

func TestImageExt(t *testing.T) {
	assert.Equal(t, ".jpg", ImageExt("image/jpeg"))
	assert.Equal(t, ".jpg", ImageExt("image/jpg"))
	assert.Equal(t, ".png", ImageExt("image/png"))
	assert.Equal(t, ".webp", ImageExt("image/webp"))
}
