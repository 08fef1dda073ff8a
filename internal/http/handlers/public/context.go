package public

import (
	handlershared "github.com/quickcart-next/internal/http/handlers/shared"
	"github.com/quickcart-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// localized 按请求语言翻译提示语
func localized(c *gin.Context, key string, args ...interface{}) string {
	locale := i18n.ResolveLocale(c)
	if len(args) == 0 {
		return i18n.T(locale, key)
	}
	return i18n.Sprintf(locale, key, args...)
}
