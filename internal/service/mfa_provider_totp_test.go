package service

import (
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestTOTPProviderValidateCode(t *testing.T) {
	provider := NewTOTPProvider("TalentMatch")
	secret, err := provider.GenerateSecret()
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	code, err := totp.GenerateCodeCustom(secret, time.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	require.True(t, provider.ValidateCode(secret, code))

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	require.False(t, provider.ValidateCode(secret, wrong))
	require.False(t, provider.ValidateCode(secret, "not-a-code"))
	require.False(t, provider.ValidateCode("not-a-secret", code))
}

func TestTOTPProviderQRCodeURL(t *testing.T) {
	provider := NewTOTPProvider("TalentMatch")
	url, err := provider.QRCodeURL("alice@example.com", "", "SECRET")
	require.NoError(t, err)
	require.Contains(t, url, "otpauth://totp/")
	require.Contains(t, url, "secret=SECRET")
	require.Contains(t, url, "issuer=TalentMatch")
}
