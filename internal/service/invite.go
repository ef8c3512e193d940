package service

import (
	"strings"

	"github.com/google/uuid"
)

const inviteCodeLength = 8

// newInviteCode генерирует короткий инвайт-код. Уникальность гарантирует констрейнт в базе,
// при коллизии регистрация повторяет попытку с новым кодом.
func newInviteCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:inviteCodeLength])
}
