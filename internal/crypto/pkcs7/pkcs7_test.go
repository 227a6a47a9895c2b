package pkcs7_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bramgg/snapy/internal/crypto/pkcs7"
)

func TestPadUnpad(t *testing.T) {
	for _, tc := range []struct {
		in     []byte
		padded []byte
	}{
		{[]byte{}, []byte{8, 8, 8, 8, 8, 8, 8, 8}},
		{[]byte{1}, []byte{1, 7, 7, 7, 7, 7, 7, 7}},
		{[]byte{1, 2, 3, 4, 5, 6, 7}, []byte{1, 2, 3, 4, 5, 6, 7, 1}},
		{[]byte{1, 2, 3, 4, 5, 6, 7, 8}, []byte{1, 2, 3, 4, 5, 6, 7, 8, 8, 8, 8, 8, 8, 8, 8, 8}},
	} {
		got := pkcs7.Pad(8, tc.in)
		assert.Equal(t, tc.padded, got)

		back, err := pkcs7.Unpad(8, got)
		require.NoError(t, err)
		assert.Equal(t, tc.in, back)
	}
}

func TestUnpadErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   []byte
		want error
	}{
		{"empty", []byte{}, pkcs7.ErrNotPadded},
		{"not a multiple", []byte{1, 2, 3}, pkcs7.ErrNotAMultiple},
		{"zero pad byte", []byte{1, 2, 3, 4, 5, 6, 7, 0}, pkcs7.ErrBadPadding},
		{"pad byte too large", []byte{1, 2, 3, 4, 5, 6, 7, 9}, pkcs7.ErrBadPadding},
		{"inconsistent padding", []byte{1, 2, 3, 4, 5, 6, 3, 3}, pkcs7.ErrBadPadding},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pkcs7.Unpad(8, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
