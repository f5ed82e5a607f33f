package utils

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// GenerateInvoiceNumber produces a display-friendly invoice number: the
// prefix, the low-order six digits of the current unix-milli timestamp, and
// a zero-padded four-digit random suffix. Collisions are improbable but not
// impossible; callers rely on the per-organization uniqueness constraint and
// retry with a fresh number on conflict.
func GenerateInvoiceNumber(prefix string) string {
	ts := time.Now().UnixMilli() % 1_000_000
	suffix := rand.Intn(10_000)
	return fmt.Sprintf("%s%06d-%04d", prefix, ts, suffix)
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")

	reg := regexp.MustCompile("[^a-z0-9-]")
	s = reg.ReplaceAllString(s, "")

	reg = regexp.MustCompile("-+")
	s = reg.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
