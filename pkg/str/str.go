package str

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

const (
	Digits       = "0123456789"
	LowerLetters = "abcdefghijklmnopqrstuvwxyz"
	UpperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Letters      = LowerLetters + UpperLetters
	Alphanumeric = Digits + Letters
)

func RandString(n int, charset string) string {
	if charset == "" {
		charset = Alphanumeric
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

func Md5Str(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NewUUID returns a random uuid without dashes.
func NewUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
