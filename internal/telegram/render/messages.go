package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabot/faq-backend/internal/entity"
)

const (
	MsgWelcome = `👋 Halo! Saya asisten FAQ.

Kirimkan pertanyaan Anda dan saya akan mencarikan jawaban yang paling sesuai.`

	MsgHelp = `🤖 Perintah bot:

/start - Mulai percakapan
/help - Tampilkan bantuan ini

Tulis pertanyaan Anda dalam bentuk teks biasa.`

	MsgTextOnly       = "📝 Maaf, saya hanya bisa membaca pesan teks."
	MsgUnknownCommand = "❓ Perintah tidak dikenal. Gunakan /help"

	// Rate limit warnings, escalating.
	MsgSlowDown     = "⚠️ Terlalu banyak pesan. Mohon tunggu sebentar."
	MsgLimitReached = "⚠️ Batas pesan terlampaui. Tunggu sekitar 30 detik sebelum mencoba lagi."
	MsgLimitBlocked = "🛑 Anda mengirim pesan terlalu sering. Mohon tunggu satu menit."
)

const (
	ErrGeneric     = "❌ Terjadi kesalahan. Silakan coba lagi atau ketik /start"
	ErrTimeout     = "⏱ Permintaan terlalu lama diproses. Silakan coba lagi."
	ErrTooLong     = "✂️ Pesan terlalu panjang. Maksimal %d karakter."
	ErrEmpty       = "📝 Pesan kosong. Silakan tulis pertanyaan Anda."
	ErrUnavailable = "🔧 Layanan sedang tidak tersedia. Silakan coba lagi nanti."
)

// RateLimitWarning returns the warning for the n-th consecutive rejection.
func RateLimitWarning(n int) string {
	switch {
	case n <= 1:
		return MsgSlowDown
	case n == 2:
		return MsgLimitReached
	default:
		return MsgLimitBlocked
	}
}

// ClassifyError maps a chat error to a user-facing message.
func ClassifyError(err error, maxLength int) string {
	switch {
	case err == nil:
		return ErrGeneric
	case errors.Is(err, entity.ErrEmptyMessage):
		return ErrEmpty
	case errors.Is(err, entity.ErrMessageTooLong):
		return fmt.Sprintf(ErrTooLong, maxLength)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	case errors.Is(err, entity.ErrClientNotFound):
		return ErrUnavailable
	}

	msg := err.Error()
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "unavailable") {
		return ErrUnavailable
	}
	return ErrGeneric
}
