// Package i18n holds the user-facing strings of the tutor in every
// supported language.
package i18n

import (
	"fmt"
	"strings"

	"github.com/ashureev/quadlab/internal/solver"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key names a translatable string.
type Key string

const (
	ExplainEmpty    Key = "explain.empty"
	ExplainFailed   Key = "explain.failed"
	ExplainIdle     Key = "explain.idle"
	PlotPlaceholder Key = "plot.placeholder"
)

// CategoryKey returns the key of a solution category's message.
func CategoryKey(c solver.Category) Key {
	return Key("category." + c.String())
}

// Default is the language used when a request expresses no preference.
var Default = language.Vietnamese

var supported = []language.Tag{language.Vietnamese, language.English}

var matcher = language.NewMatcher(supported)

var translations = map[language.Tag]map[Key]string{
	language.Vietnamese: {
		CategoryKey(solver.Infinite):      "Phương trình vô số nghiệm",
		CategoryKey(solver.None):          "Phương trình vô nghiệm",
		CategoryKey(solver.LinearOneRoot): "Đây là phương trình bậc nhất (a=0). Có một nghiệm duy nhất.",
		CategoryKey(solver.TwoDistinct):   "Phương trình có 2 nghiệm phân biệt",
		CategoryKey(solver.Repeated):      "Phương trình có nghiệm kép",
		CategoryKey(solver.NoRealRoots):   "Phương trình vô nghiệm thực",
		ExplainEmpty:                      "Xin lỗi, hiện tại tôi không thể đưa ra lời giải thích.",
		ExplainFailed:                     "Đã xảy ra lỗi khi kết nối với gia sư AI. Vui lòng kiểm tra API Key hoặc thử lại sau.",
		ExplainIdle:                       `Nhấn nút "Giải thích chi tiết" để xem hướng dẫn từng bước từ AI.`,
		PlotPlaceholder:                   "Biểu đồ sẽ xuất hiện khi bạn nhập hệ số.",
	},
	language.English: {
		CategoryKey(solver.Infinite):      "The equation has infinitely many solutions",
		CategoryKey(solver.None):          "The equation has no solution",
		CategoryKey(solver.LinearOneRoot): "This is a linear equation (a=0). It has exactly one root.",
		CategoryKey(solver.TwoDistinct):   "The equation has 2 distinct real roots",
		CategoryKey(solver.Repeated):      "The equation has a repeated root",
		CategoryKey(solver.NoRealRoots):   "The equation has no real roots",
		ExplainEmpty:                      "Sorry, I can't give an explanation right now.",
		ExplainFailed:                     "Something went wrong while contacting the AI tutor. Please check the API key or try again later.",
		ExplainIdle:                       `Press "Explain step by step" to get a walkthrough from the AI.`,
		PlotPlaceholder:                   "The graph will appear once you enter coefficients.",
	},
}

var cat = mustBuildCatalog()

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(Default))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, string(key), msg); err != nil {
				panic(fmt.Sprintf("i18n: register %s/%s: %v", tag, key, err))
			}
		}
	}
	return b
}

// Supported returns the languages with a full translation set.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Match picks the best supported language for an Accept-Language header.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// Parse resolves an explicit language code such as "en" or "vi-VN",
// falling back to Default.
func Parse(code string) language.Tag {
	code = strings.TrimSpace(code)
	if code == "" {
		return Default
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// Printer returns a message printer bound to the tutor catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// Text looks up key in the given language.
func Text(tag language.Tag, key Key) string {
	return Printer(tag).Sprintf(string(key))
}

// CategoryText returns the localized message for a solution category.
func CategoryText(tag language.Tag, c solver.Category) string {
	return Text(tag, CategoryKey(c))
}
