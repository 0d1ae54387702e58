package validator

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabot/faq-backend/internal/config"
	"github.com/gabot/faq-backend/internal/entity"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 100
	minPasswordLength = 8
	maxQuestionLength = 1000
)

var AllowedImportExtensions = map[string]bool{
	".csv": true,
}

// Validator validates requests before they reach the use cases
type Validator struct {
	maxMessageLength int
	maxImportSize    int64
}

func New(chatCfg config.ChatConfig, importCfg config.ImportConfig) *Validator {
	return &Validator{
		maxMessageLength: chatCfg.MaxMessageLength,
		maxImportSize:    importCfg.MaxFileSize,
	}
}

// ValidateChatMessage rejects empty, whitespace-only and overlong messages.
func (v *Validator) ValidateChatMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return entity.ErrEmptyMessage
	}
	if n := utf8.RuneCountInString(message); n > v.maxMessageLength {
		return fmt.Errorf("%w: %d characters (max %d)", entity.ErrMessageTooLong, n, v.maxMessageLength)
	}

	return nil
}

func (v *Validator) ValidateFAQ(req *entity.FAQRequest) error {
	if req.Question == "" {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}
	if req.Answer == "" {
		return fmt.Errorf("%w: answer", entity.ErrMissingField)
	}
	if utf8.RuneCountInString(req.Question) > maxQuestionLength {
		return fmt.Errorf("%w: question longer than %d characters", entity.ErrInvalidParameter, maxQuestionLength)
	}

	return nil
}

func (v *Validator) ValidateImport(req *entity.ImportRequest) error {
	if req.Content == nil || req.Filename == "" {
		return fmt.Errorf("%w: csv_file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !AllowedImportExtensions[ext] {
		return fmt.Errorf("%w: %s (allowed: csv)", entity.ErrInvalidExtension, ext)
	}

	if req.Size > v.maxImportSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, req.Filename, req.Size, v.maxImportSize)
	}

	return nil
}

// MaxImportSize is the largest accepted CSV upload in bytes.
func (v *Validator) MaxImportSize() int64 {
	return v.maxImportSize
}

func (v *Validator) ValidateRegister(req *entity.RegisterRequest) error {
	if req.Username == "" {
		return fmt.Errorf("%w: username", entity.ErrMissingField)
	}
	if req.Password == "" {
		return fmt.Errorf("%w: password", entity.ErrMissingField)
	}

	if n := utf8.RuneCountInString(req.Username); n < minUsernameLength || n > maxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters", entity.ErrInvalidParameter, minUsernameLength, maxUsernameLength)
	}
	if strings.ContainsFunc(req.Username, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }) {
		return fmt.Errorf("%w: username must not contain whitespace", entity.ErrInvalidFormat)
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", entity.ErrInvalidParameter, minPasswordLength)
	}

	return nil
}

// SanitizeFilename sanitizes a filename for safe use in a Content-Disposition header
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
		`"`, "",
		"/", "",
		`\`, "",
	)
	return replacer.Replace(filename)
}
