// Package qr owns the scannable member credential: a short text token
// carrying the member id, rendered as a QR PNG for the printed card.
package qr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrInvalidToken is returned for scanned data that is not a member token.
var ErrInvalidToken = errors.New("invalid member token")

const tokenPrefix = "member_id:"

// imageSize is the square pixel size of generated QR PNGs.
const imageSize = 256

// Token builds the text payload encoded into a member's QR credential.
func Token(memberID int64) string {
	return tokenPrefix + strconv.FormatInt(memberID, 10)
}

// ParseToken extracts the member id from a scanned token. It accepts
// exactly the shape produced by Token.
func ParseToken(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, tokenPrefix) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	id, err := strconv.ParseInt(token[len(tokenPrefix):], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	return id, nil
}

// EncodePNG renders the member token as a QR PNG.
func EncodePNG(memberID int64) ([]byte, error) {
	png, err := qrcode.Encode(Token(memberID), qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
