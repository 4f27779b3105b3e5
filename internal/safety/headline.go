package safety

import (
	"strings"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
)

const (
	HeadlineSafe         = "DRINKING WATER SAFE"
	HeadlineMicrobiology = "DRINKING WATER UNSAFE - MICROBIOLOGY"
	HeadlinePoor         = "POOR DRINKING WATER (Check filter)"
)

var microbiologyMarkers = []string{"e. coli", "coliform", "uv sterilizer"}

// Headline maps a verdict to the status banner text.
func Headline(v domain.Verdict) string {
	if v.Safe {
		return HeadlineSafe
	}
	lower := strings.ToLower(v.Reason)
	for _, m := range microbiologyMarkers {
		if strings.Contains(lower, m) {
			return HeadlineMicrobiology
		}
	}
	return HeadlinePoor
}
