// Package watermarks builds the per-viewer marking rendered into a viewed
// document and signs it so a leaked copy's watermark can be authoritatively
// proven genuine or forged. Traceability lives in the human-readable fields;
// the signature only settles disputes about their origin.
package watermarks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/server/models"
)

// Payload is derived once per call and bound to exactly one view session.
// It carries no server-side mutable state.
type Payload struct {
	DisplayName   string `json:"displayName"`
	MaskedEmail   string `json:"maskedEmail"`
	MaskedPhone   string `json:"maskedPhone"`
	UserHash      string `json:"userHash"`
	ViewSessionID string `json:"viewSessionId"`
	WatermarkSeed string `json:"watermarkSeed"`
}

type Response struct {
	Payload   Payload `json:"payload"`
	Signature string  `json:"signature"`
}

type Signer struct {
	key []byte
}

func NewSigner(key []byte) *Signer {
	return &Signer{key: key}
}

// Build assembles a payload for the session's viewer and signs it. The seed
// is fresh per call, binding the payload to this exact render.
func (s *Signer) Build(session *models.ViewSession, profile *models.UserProfile) (*Response, error) {

	seed, err := common.MakeRandHexString(8)
	if err != nil {
		return nil, err
	}

	p := Payload{
		DisplayName:   profile.DisplayName,
		MaskedEmail:   MaskEmail(profile.Email),
		MaskedPhone:   MaskPhone(profile.Phone),
		UserHash:      s.userHash(profile.ID),
		ViewSessionID: session.ID,
		WatermarkSeed: seed,
	}

	sig, err := s.sign(p)
	if err != nil {
		return nil, err
	}

	return &Response{Payload: p, Signature: sig}, nil
}

// Verify recomputes the MAC over the payload's canonical serialization.
// Any altered field, or a signature minted under a different key, fails.
func (s *Signer) Verify(p Payload, signature string) bool {
	want, err := s.sign(p)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(want), []byte(signature))
}

func (s *Signer) sign(p Payload) (string, error) {
	// JSON struct marshaling emits fields in declaration order, which makes
	// the serialization canonical for signing.
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, s.key)
	mac.Write(raw)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// userHash is a stable, non-reversible identity fingerprint: the same user
// gets the same hash across sessions, but the id cannot be recovered.
func (s *Signer) userHash(userID string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte("user:" + userID))
	return hex.EncodeToString(mac.Sum(nil))[:16]
}

// MaskEmail shows only the first character and the domain:
// "student@example.com" -> "s***@example.com".
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email[:1] + "***"
	}
	return email[:1] + "***" + email[at:]
}

// MaskPhone shows only the last two digits: "+919876543210" -> "******10".
func MaskPhone(phone string) string {
	if len(phone) < 2 {
		return "**"
	}
	return "******" + phone[len(phone)-2:]
}
