package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TraditionalChinese is the admin screen's home locale.
var TraditionalChinese = language.MustParse("zh-TW")

var supportedTags = []language.Tag{
	language.English,
	TraditionalChinese,
}

var tagMatcher = language.NewMatcher(supportedTags)

func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

func Default() language.Tag {
	return language.English
}

// Parse matches value against the supported locales, falling back to Default.
func Parse(value string) language.Tag {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default()
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default()
	}
	return match(tag)
}

// ResolveTag picks the request's preferred locale from Accept-Language.
func ResolveTag(r *http.Request, fallback language.Tag) language.Tag {
	if r == nil {
		return fallback
	}
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if accept == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	return match(tags...)
}

func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

func match(tags ...language.Tag) language.Tag {
	_, index, confidence := tagMatcher.Match(tags...)
	if confidence == language.No {
		return Default()
	}
	return supportedTags[index]
}

// FieldLabel localises a form field label, falling back to the given text.
func FieldLabel(p *message.Printer, name, fallback string) string {
	return p.Sprintf(message.Key(FieldLabelPrefix+name, fallback))
}
