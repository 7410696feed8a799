package tokenx

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testCodec() *Codec {
	return &Codec{
		Secret: []byte("test-secret-key-for-codec-tests"),
		Issuer: "bazaar-test",
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	c := testCodec()

	token, err := c.Encode("01JC0000000000000000000000", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := c.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "01JC0000000000000000000000", claims.Subject)
	require.Equal(t, "bazaar-test", claims.Issuer)
	require.NotEmpty(t, claims.ID, "jti should be set")
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestDecode_Expired(t *testing.T) {
	c := testCodec()

	token, err := c.Encode("subject", -time.Minute)
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestDecode_WrongSecret(t *testing.T) {
	c := testCodec()
	other := &Codec{Secret: []byte("a-different-secret"), Issuer: c.Issuer}

	token, err := c.Encode("subject", time.Hour)
	require.NoError(t, err)

	_, err = other.Decode(token)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecode_Tampered(t *testing.T) {
	c := testCodec()

	token, err := c.Encode("subject", time.Hour)
	require.NoError(t, err)

	// Flip a byte in the payload segment. The signature no longer matches,
	// so decode must fail one way or another, never return claims.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload := []byte(parts[1])
	payload[len(payload)/2] ^= 0x01
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = c.Decode(tampered)
	require.Error(t, err)
	require.True(t,
		err == ErrInvalidSignature || err == ErrMalformed,
		"tampered token must fail with a signature or malformed error, got %v", err)
}

func TestDecode_Garbage(t *testing.T) {
	c := testCodec()

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c", "...."} {
		_, err := c.Decode(tok)
		require.ErrorIs(t, err, ErrMalformed, "input %q", tok)
	}
}

func TestDecode_WrongIssuer(t *testing.T) {
	minter := &Codec{Secret: []byte("shared"), Issuer: "someone-else"}
	c := &Codec{Secret: []byte("shared"), Issuer: "bazaar-test"}

	token, err := minter.Encode("subject", time.Hour)
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_RejectsUnsignedToken(t *testing.T) {
	c := testCodec()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "subject",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_MissingSubject(t *testing.T) {
	c := testCodec()

	token, err := c.Encode("", time.Hour)
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.ErrorIs(t, err, ErrMalformed)
}
