// Package voice issues short-lived RTC channel tokens compatible with the
// Agora 006 token format: an HMAC-SHA256 signature over the app id, channel,
// uid and a packed privilege message, base64-wrapped behind a version prefix.
package voice

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math/rand"
	"strconv"
	"time"
)

const (
	tokenVersion = "006"
	// DefaultTTL bounds how long a channel token stays usable.
	DefaultTTL = time.Hour
)

// Publisher role privilege key for joining a channel.
const privJoinChannel uint16 = 1

var (
	ErrMissingAppId       = errors.New("missing-voice-app-id")
	ErrMissingCertificate = errors.New("missing-voice-certificate")
	ErrMissingChannel     = errors.New("missing-channel")
)

type TokenBuilder struct {
	appId          string
	appCertificate string
	now            func() time.Time
	salt           func() uint32
}

func NewTokenBuilder(appId, appCertificate string) (*TokenBuilder, error) {
	if appId == "" {
		return nil, ErrMissingAppId
	}
	if appCertificate == "" {
		return nil, ErrMissingCertificate
	}
	return &TokenBuilder{
		appId:          appId,
		appCertificate: appCertificate,
		now:            time.Now,
		salt:           rand.Uint32,
	}, nil
}

func (tb *TokenBuilder) AppId() string {
	return tb.appId
}

// BuildToken signs a join-channel privilege for uid on channelName, expiring
// after ttl. A non-positive ttl falls back to DefaultTTL.
func (tb *TokenBuilder) BuildToken(channelName string, uid uint32, ttl time.Duration) (string, error) {
	if channelName == "" {
		return "", ErrMissingChannel
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	ts := uint32(tb.now().Unix())
	expireTs := ts + uint32(ttl/time.Second)

	// Privilege message: salt, issue timestamp, then a single-entry map of
	// privilege key to expiry.
	var message bytes.Buffer
	binary.Write(&message, binary.LittleEndian, uint16(tb.salt()))
	binary.Write(&message, binary.LittleEndian, ts)
	binary.Write(&message, binary.LittleEndian, uint16(1))
	binary.Write(&message, binary.LittleEndian, privJoinChannel)
	binary.Write(&message, binary.LittleEndian, expireTs)

	uidStr := strconv.FormatUint(uint64(uid), 10)

	mac := hmac.New(sha256.New, []byte(tb.appCertificate))
	mac.Write([]byte(tb.appId))
	mac.Write([]byte(channelName))
	mac.Write([]byte(uidStr))
	mac.Write(message.Bytes())
	signature := mac.Sum(nil)

	var content bytes.Buffer
	writeLengthPrefixed(&content, signature)
	binary.Write(&content, binary.LittleEndian, crc32.ChecksumIEEE([]byte(channelName)))
	binary.Write(&content, binary.LittleEndian, uid)
	writeLengthPrefixed(&content, message.Bytes())

	return tokenVersion + tb.appId + base64.StdEncoding.EncodeToString(content.Bytes()), nil
}

func writeLengthPrefixed(buf *bytes.Buffer, b []byte) {
	binary.Write(buf, binary.LittleEndian, uint16(len(b)))
	buf.Write(b)
}
