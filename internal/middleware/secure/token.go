package secure

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	tokenLabel  = "frontend-request"
	tokenBucket = 5 * time.Minute
	tokenLen    = 16
)

// FrontendToken computes the time-windowed HMAC the bundled frontend sends
// to identify itself. It is an advisory signal, not an authorization
// boundary: the secret rotates on every process restart unless pinned by
// environment.
func FrontendToken(secret []byte, now time.Time) string {
	bucket := now.Unix() / int64(tokenBucket.Seconds())
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s:%d", tokenLabel, bucket)
	return hex.EncodeToString(mac.Sum(nil))[:tokenLen]
}

// TokenTTL reports how long the current token remains valid.
func TokenTTL(now time.Time) time.Duration {
	step := int64(tokenBucket.Seconds())
	return time.Duration(step-now.Unix()%step) * time.Second
}
