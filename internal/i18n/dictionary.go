// Package i18n resolves expiration messages through per-language string
// dictionaries and expands {{placeholder}} templates.
package i18n

import (
	"fmt"
	"os"

	"github.com/relaychat/supportgate/model"
	"gopkg.in/yaml.v2"
)

// DefaultLanguage is used when the requested language has no dictionary.
const DefaultLanguage = "en"

// builtinDictionary ships the default English strings. A YAML dictionary
// file and a policy-carried dictionary can both override it.
var builtinDictionary = model.Dictionary{
	"en": {
		"message_token_expiration_title":       "{{instance_ws_name}} is running an unsupported version",
		"message_token_expiration_subtitle":    "Support ends in {{remaining_days}} days",
		"message_token_expiration_description": "The workspace at {{instance_domain}} must be updated to keep receiving support.",
	},
}

// BuiltinDictionary returns a copy of the bundled default dictionary.
func BuiltinDictionary() model.Dictionary {
	return cloneDictionary(builtinDictionary)
}

// LoadDictionaryFile reads a YAML dictionary (language -> key -> template)
// and merges it over the built-in defaults. Keys in the file win.
func LoadDictionaryFile(path string) (model.Dictionary, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file: %w", err)
	}

	var loaded map[string]map[string]string
	if err := yaml.Unmarshal(content, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary file: %w", err)
	}

	dict := cloneDictionary(builtinDictionary)
	for lang, entries := range loaded {
		if dict[lang] == nil {
			dict[lang] = make(map[string]string, len(entries))
		}
		for key, template := range entries {
			dict[lang][key] = template
		}
	}

	return dict, nil
}

func cloneDictionary(src model.Dictionary) model.Dictionary {
	dst := make(model.Dictionary, len(src))
	for lang, entries := range src {
		langCopy := make(map[string]string, len(entries))
		for key, template := range entries {
			langCopy[key] = template
		}
		dst[lang] = langCopy
	}
	return dst
}
