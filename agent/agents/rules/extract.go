package rules

import (
	"regexp"
	"strings"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
)

var bengaliDigits = strings.NewReplacer(
	"০", "0", "১", "1", "২", "2", "৩", "3", "৪", "4",
	"৫", "5", "৬", "6", "৭", "7", "৮", "8", "৯", "9",
)

// normalizeDigits rewrites Bengali numerals as ASCII so one pattern covers both.
func normalizeDigits(s string) string {
	return bengaliDigits.Replace(s)
}

var (
	phonePattern = regexp.MustCompile(`(?:\+?88)?(01[3-9]\d{8})`)
	sizePattern  = regexp.MustCompile(`(?i)(?:সাইজ|size)\s*[:：-]?\s*(\d{2})`)

	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`আমার নাম\s+([\p{L}\p{M}]+(?:\s+[\p{L}\p{M}]+)?)`),
		regexp.MustCompile(`(?i)my name is\s+([a-z]+(?:\s+[a-z]+)?)`),
		regexp.MustCompile(`(?i)(?:^|[\s,।])(?:নাম|name)\s*[:：]\s*([\p{L}\p{M}]+(?:\s+[\p{L}\p{M}]+)?)`),
	}

	addressPattern = regexp.MustCompile(`(?i)(?:ঠিকানা|address)\s*[:：-]?\s*([^।\n]+)`)
)

// nameStopWords ends a captured name early when the customer keeps talking.
var nameStopWords = map[string]struct{}{
	"আর": {}, "এবং": {}, "ফোন": {}, "নাম্বার": {}, "ঠিকানা": {}, "সাইজ": {},
	"and": {}, "phone": {}, "address": {}, "size": {},
}

var fallbackColors = []string{"কালো", "সাদা", "নীল", "লাল", "ধূসর", "সিলভার", "গোল্ডেন", "black", "white", "blue", "red"}

// extractProfile pulls whatever customer details the utterance states. Fields
// that are not mentioned stay empty.
func extractProfile(text string, product *catalogx.Product) statex.Profile {
	normalized := normalizeDigits(text)
	var p statex.Profile

	if m := phonePattern.FindStringSubmatch(strings.ReplaceAll(normalized, "-", "")); m != nil {
		p.Phone = m[1]
	}
	p.Name = extractName(normalized)
	p.Address = extractAddress(normalized)
	p.Size = extractSize(normalized, product)
	p.Color = extractColor(normalized, product)
	return p
}

func extractName(text string) string {
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		words := strings.Fields(m[1])
		kept := words[:0]
		for _, w := range words {
			if _, stop := nameStopWords[strings.ToLower(w)]; stop {
				break
			}
			kept = append(kept, w)
		}
		if len(kept) > 0 {
			return strings.Join(kept, " ")
		}
	}
	return ""
}

func extractAddress(text string) string {
	m := addressPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	addr := strings.TrimSpace(m[1])
	// a phone number typed after the address belongs to the phone field
	if loc := phonePattern.FindStringIndex(addr); loc != nil {
		addr = strings.TrimSpace(addr[:loc[0]])
	}
	addr = strings.TrimRight(addr, " ,.;")
	for _, label := range phoneLabels {
		addr = strings.TrimSpace(strings.TrimSuffix(addr, label))
	}
	return strings.TrimRight(addr, " ,.;")
}

var phoneLabels = []string{"নাম্বার", "number", "ফোন", "মোবাইল", "phone", "mobile"}

func extractSize(text string, product *catalogx.Product) string {
	m := sizePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if product == nil || len(product.Sizes) == 0 {
		return m[1]
	}
	for _, s := range product.Sizes {
		if s == m[1] {
			return s
		}
	}
	return ""
}

func extractColor(text string, product *catalogx.Product) string {
	lower := strings.ToLower(text)
	colors := fallbackColors
	if product != nil && len(product.Colors) > 0 {
		colors = product.Colors
	}
	for _, c := range colors {
		if strings.Contains(lower, strings.ToLower(c)) {
			return c
		}
	}
	return ""
}

// containsAny reports whether text holds one of words. Latin keywords must
// match a whole word so "book" does not count as "ok"; Bengali phrases match
// as substrings because their suffixes attach directly.
func containsAny(text string, words []string) bool {
	lower := strings.ToLower(text)
	var tokens map[string]struct{}
	for _, w := range words {
		if !isASCII(w) {
			if strings.Contains(lower, w) {
				return true
			}
			continue
		}
		if tokens == nil {
			tokens = latinTokens(lower)
		}
		if _, ok := tokens[w]; ok {
			return true
		}
	}
	return false
}

func latinTokens(lower string) map[string]struct{} {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

var (
	buyWords     = []string{"নিতে চাই", "নিবো", "নিব", "নেব", "কিনতে", "কিনব", "অর্ডার", "buy", "order", "want"}
	confirmWords = []string{"কনফার্ম", "নিশ্চিত", "হ্যাঁ", "ঠিক আছে", "confirm", "yes", "ok"}
	priceWords   = []string{"দাম", "কত", "প্রাইস", "price", "cost"}
)
