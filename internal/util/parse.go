package util

import (
	"regexp"
	"strconv"
)

var (
	couponCodeRegex = regexp.MustCompile(`(?i)code[:\s]+([A-Z0-9-]+)`)
	discountRegex   = regexp.MustCompile(`(\d+)%\s+(?:off|discount)`)
)

// ExtractCouponCodes returns every coupon code announced in free-form page
// text with a "code: XYZ" style marker, in order of appearance.
func ExtractCouponCodes(text string) []string {
	var codes []string
	for _, m := range couponCodeRegex.FindAllStringSubmatch(text, -1) {
		codes = append(codes, m[1])
	}
	return codes
}

// ExtractDiscount finds the first "N% off" / "N% discount" mention in text.
// The second return is false when no discount is announced.
func ExtractDiscount(text string) (float64, bool) {
	m := discountRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}
