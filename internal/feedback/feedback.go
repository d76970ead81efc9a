package feedback

import (
	"time"

	"github.com/attendanceterminal/internal/keys"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type ID string

func NewID() ID {
	return ID(gonanoid.Must())
}

type Entry struct {
	ID   ID        `json:"id"`
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

func (e Entry) Encode(key *keys.Key) (*EncodedEntry, error) {
	encoded, err := key.Encrypt([]byte(e.Text))
	if err != nil {
		return nil, err
	}
	return &EncodedEntry{
		ID:   e.ID,
		Time: e.Time,
		Text: encoded,
	}, nil
}

type EncodedEntry struct {
	ID   ID        `json:"id"`
	Time time.Time `json:"time"`
	Text []byte    `json:"text"`
}

func (e EncodedEntry) Decode(key *keys.Key) (*Entry, error) {
	text, err := key.Decrypt(e.Text)
	if err != nil {
		return nil, err
	}
	return &Entry{
		ID:   e.ID,
		Time: e.Time,
		Text: string(text),
	}, nil
}
