package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe slug
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlug appends a counter until exists reports the slug as free
func UniqueSlug(base string, exists func(slug string) bool) string {
	slug := base
	counter := 1
	for exists(slug) {
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
	return slug
}

// CertificateVerificationHash derives the public lookup token for a
// certificate: the first 16 hex chars of SHA-256(certificateID + learnerID +
// courseID). It proves existence, nothing more.
func CertificateVerificationHash(certificateID string, learnerID, courseID uint) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%d%d", certificateID, learnerID, courseID)))
	return hex.EncodeToString(sum[:])[:16]
}

// NewCertificateID returns a fresh certificate UUID
func NewCertificateID() string {
	return uuid.NewString()
}

// NewPartnerCode generates a short public partner code, e.g. PTR-1A2B3C4D
func NewPartnerCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PTR-" + id[:8]
}

// NewInvitationToken returns the token embedded in invitation links
func NewInvitationToken() string {
	return uuid.NewString()
}

// NewRegNumber generates a learner registration number, e.g. BL-2026-1A2B3C
func NewRegNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("BL-%d-%s", time.Now().Year(), id[:6])
}
