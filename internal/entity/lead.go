package entity

import (
	"strconv"
	"strings"
)

// LeadBucket is the coarse monthly lead volume a prospect reports.
type LeadBucket string

const (
	LeadBucketUnknown  LeadBucket = "unknown"
	LeadBucketUnder100 LeadBucket = "<100"
	LeadBucket100To300 LeadBucket = "100-300"
	LeadBucketOver300  LeadBucket = "300+"
)

// Qualifies reports whether the bucket is large enough for a sales call.
func (b LeadBucket) Qualifies() bool {
	return b == LeadBucket100To300 || b == LeadBucketOver300
}

// ClassifyLeadBucket strips every non-digit and classifies the remaining number.
// "ca. 1.200 Leads" reads as 1200.
func ClassifyLeadBucket(text string) LeadBucket {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return LeadBucketUnknown
	}

	significant := strings.TrimLeft(digits.String(), "0")
	if len(significant) > 3 {
		return LeadBucketOver300
	}

	n := 0
	if significant != "" {
		n, _ = strconv.Atoi(significant)
	}

	switch {
	case n < 100:
		return LeadBucketUnder100
	case n <= 300:
		return LeadBucket100To300
	default:
		return LeadBucketOver300
	}
}
