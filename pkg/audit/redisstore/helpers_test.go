package redisstore_test

import "github.com/dmitrymomot/inputguard/pkg/sanitizer"

func changeFor(original string) sanitizer.Change {
	return sanitizer.Change{
		Field:    sanitizer.Field{Source: sanitizer.SourceParam, Name: "content"},
		Original: original,
		Cleaned:  sanitizer.EscapeHTML(original),
		Families: []sanitizer.Family{sanitizer.FamilyScript},
	}
}
