package models

import "time"

type IssuedSession struct {
	SessionID  string    `json:"sessionId"`
	ViewToken  string    `json:"viewToken"`
	ExpiresAt  time.Time `json:"expiresAt"`
	ContentURL string    `json:"contentUrl"`
	TotalPages int       `json:"totalPages"`
}

type WatermarkPayload struct {
	DisplayName   string `json:"displayName"`
	MaskedEmail   string `json:"maskedEmail"`
	MaskedPhone   string `json:"maskedPhone"`
	UserHash      string `json:"userHash"`
	ViewSessionID string `json:"viewSessionId"`
	WatermarkSeed string `json:"watermarkSeed"`
}

type Watermark struct {
	Payload   WatermarkPayload `json:"payload"`
	Signature string           `json:"signature"`
}
