package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleEnUS = "en-US"
	LocalePtBR = "pt-BR"
	LocaleZhCN = "zh-CN"

	DefaultLocale = LocaleEnUS
)

var (
	supportedTags = []language.Tag{
		language.AmericanEnglish,
		language.BrazilianPortuguese,
		language.SimplifiedChinese,
	}
	matcher = language.NewMatcher(supportedTags)
)

// ResolveLocale 解析请求语言：lang 参数 > X-Locale 请求头 > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	candidates := []string{c.Query("lang"), c.GetHeader("X-Locale"), c.GetHeader("Accept-Language")}
	for _, raw := range candidates {
		if locale, ok := Match(raw); ok {
			return locale
		}
	}
	return DefaultLocale
}

// Match 将任意语言标识匹配到支持的语言
func Match(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	switch index {
	case 1:
		return LocalePtBR, true
	case 2:
		return LocaleZhCN, true
	default:
		return LocaleEnUS, true
	}
}

// T 翻译文案，缺失时回退到英文，再回退到 key 本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化文案
func Sprintf(locale, key string, args ...interface{}) string {
	msg, ok := lookup(locale, key)
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func lookup(locale, key string) (string, bool) {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg, true
		}
	}
	msg, ok := messages[DefaultLocale][key]
	return msg, ok
}
