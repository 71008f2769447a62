package bot

import (
	"math/rand"
	"strings"
)

var (
	promptSubjects = []string{"cute girl", "majestic landscape", "futuristic city", "mythical creature", "abstract concept"}
	promptStyles   = []string{"in the style of Pixar", "photorealistic", "oil painting", "watercolor", "digital art"}
	promptExtras   = []string{"4K resolution highlights", "Sharp focus", "octane render", "ray tracing", "Ultra-High-Definition"}
)

// RandomPrompt composes an inspiration prompt from fixed word lists: one
// subject, one style and three distinct extras.
func RandomPrompt() string {
	var sb strings.Builder
	sb.WriteString("3d image, ")
	sb.WriteString(promptSubjects[rand.Intn(len(promptSubjects))])
	sb.WriteString(", ")
	sb.WriteString(promptStyles[rand.Intn(len(promptStyles))])
	sb.WriteString(" --ar 1:2 --stylize 750, ")

	picks := rand.Perm(len(promptExtras))[:3]
	for i, p := range picks {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(promptExtras[p])
	}

	sb.WriteString(", 8k, UHD, HDR, (Masterpiece:1.5), (best quality:1.5)")
	return sb.String()
}
