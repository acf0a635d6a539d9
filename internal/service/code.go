package service

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	// RoomCodeAlphabet leaves out I, O, 0 and 1.
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	RoomCodeLength   = 6

	maxRoomCodeAttempts = 10
)

// GenerateRoomCode draws RoomCodeLength independent symbols from
// RoomCodeAlphabet. The alphabet has 32 symbols, so reducing a random
// byte modulo its length is unbiased.
func GenerateRoomCode() (string, error) {
	b := make([]byte, RoomCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	for i := range b {
		b[i] = RoomCodeAlphabet[int(b[i])%len(RoomCodeAlphabet)]
	}

	return string(b), nil
}

// NormalizeRoomCode maps user input onto the stored uppercase form.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func ValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		if strings.IndexByte(RoomCodeAlphabet, code[i]) < 0 {
			return false
		}
	}

	return true
}
