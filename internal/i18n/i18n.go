package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleEN   = "en-US"
	LocaleZHCN = "zh-CN"
	LocaleZHTW = "zh-TW"
)

var supportedLocales = []string{LocaleEN, LocaleZHCN, LocaleZHTW}

var matcher = language.NewMatcher([]language.Tag{
	language.AmericanEnglish,
	language.SimplifiedChinese,
	language.TraditionalChinese,
})

// ResolveLocale 依次按 query lang、Accept-Language 解析语言，默认英文
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return LocaleEN
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Match(lang)
	}
	return Match(c.GetHeader("Accept-Language"))
}

// Match 将任意语言标签匹配到支持的语言
func Match(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LocaleEN
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return LocaleEN
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return LocaleEN
	}
	return supportedLocales[index]
}

// T 翻译消息键，缺失时回退英文再回退键本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func lookup(locale, key string) (string, bool) {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg, true
		}
	}
	msg, ok := messages[LocaleEN][key]
	return msg, ok
}
