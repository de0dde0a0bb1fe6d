package i18n

import (
	"strconv"
	"strings"
	"time"

	"github.com/relaychat/supportgate/internal/expiration"
	"github.com/relaychat/supportgate/model"
)

// maxDisplayWindowDays is the fixed display window: past this many remaining
// days no banner is produced regardless of the message's own threshold.
const maxDisplayWindowDays = 15

// Translate resolves a message's title/subtitle/description through the
// language dictionary, substituting named placeholders. Returns nil when the
// message or dictionary is absent, or when the remaining days exceed the
// display window. Falls back to the default language when the requested one
// has no dictionary.
func Translate(dict model.Dictionary, msg *model.Message, exp time.Time, language, serverName, serverURL string, now time.Time) *model.TranslatedMessage {
	if msg == nil || len(dict) == 0 {
		return nil
	}

	remaining := expiration.DaysRemaining(exp, now)
	if remaining > maxDisplayWindowDays {
		return nil
	}

	params := map[string]string{
		"instance_ws_name": serverName,
		"instance_domain":  serverURL,
		"remaining_days":   strconv.Itoa(remaining),
	}
	for key, value := range msg.Params {
		params[key] = value
	}

	entries := dict[language]
	if entries == nil {
		entries = dict[DefaultLanguage]
	}
	if entries == nil {
		return nil
	}

	translated := &model.TranslatedMessage{
		Type: msg.Type,
		Link: msg.Link,
	}
	translated.Title = lookupAndExpand(entries, msg.Title, params)
	translated.Subtitle = lookupAndExpand(entries, msg.Subtitle, params)
	translated.Description = lookupAndExpand(entries, msg.Description, params)

	return translated
}

// lookupAndExpand resolves a dictionary key and expands its placeholders.
// Returns "" when the key is empty or has no dictionary entry.
func lookupAndExpand(entries map[string]string, key string, params map[string]string) string {
	if key == "" {
		return ""
	}
	template, ok := entries[key]
	if !ok {
		return ""
	}
	return expandTemplate(template, params)
}

// expandTemplate substitutes {{name}} placeholders in a single pass.
// Placeholders whose name is not in the params map are left literal.
func expandTemplate(template string, params map[string]string) string {
	var b strings.Builder
	b.Grow(len(template))

	for {
		open := strings.Index(template, "{{")
		if open < 0 {
			b.WriteString(template)
			return b.String()
		}
		closeIdx := strings.Index(template[open+2:], "}}")
		if closeIdx < 0 {
			b.WriteString(template)
			return b.String()
		}

		name := template[open+2 : open+2+closeIdx]
		b.WriteString(template[:open])

		if value, ok := params[strings.TrimSpace(name)]; ok {
			b.WriteString(value)
		} else {
			// Unknown placeholder stays literal
			b.WriteString(template[open : open+2+closeIdx+2])
		}

		template = template[open+2+closeIdx+2:]
	}
}
