package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OtpValidity is how long a verification code stays usable.
const OtpValidity = 10 * time.Minute

// GenerateOtp returns a 6-digit verification code and its expiry time.
func GenerateOtp() (string, time.Time) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the process is in no state to serve
		panic(err)
	}
	otp := fmt.Sprintf("%06d", n.Int64()+100000)
	return otp, time.Now().Add(OtpValidity)
}
