package service

import (
	"math/rand/v2"
	"strings"

	"ylc-be-svc/pkg/logger"
)

// ReferenceCodePrefix starts every customer facing reference code
const ReferenceCodePrefix = "YLC-"

// I and O are left out of the letters, 0 out of the digits
const (
	referenceLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	referenceDigits  = "123456789"
)

// ReferenceCodeGenerator produces display-only codes such as YLC-KD482M.
// Codes are not stored and not unique; a retried notification shows a new one.
type ReferenceCodeGenerator interface {
	Generate(quoteID uint) string
}

type referenceCodeGenerator struct {
	logger *logger.Logger
}

// NewReferenceCodeGenerator creates a new instance of ReferenceCodeGenerator
func NewReferenceCodeGenerator(logger *logger.Logger) ReferenceCodeGenerator {
	return &referenceCodeGenerator{logger: logger}
}

// Generate returns a fresh code. quoteID only correlates the log line.
func (g *referenceCodeGenerator) Generate(quoteID uint) string {
	var b strings.Builder
	b.Grow(len(ReferenceCodePrefix) + 6)
	b.WriteString(ReferenceCodePrefix)
	b.WriteByte(referenceLetters[rand.IntN(len(referenceLetters))])
	b.WriteByte(referenceLetters[rand.IntN(len(referenceLetters))])
	for i := 0; i < 3; i++ {
		b.WriteByte(referenceDigits[rand.IntN(len(referenceDigits))])
	}
	b.WriteByte(referenceLetters[rand.IntN(len(referenceLetters))])

	code := b.String()
	g.logger.WithFields(map[string]interface{}{
		"quote_id":       quoteID,
		"reference_code": code,
	}).Debug("Reference code generated")

	return code
}
