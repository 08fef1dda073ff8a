package shared

import "github.com/gin-gonic/gin"

// AdminOperatorKey 管理端操作人上下文键
const AdminOperatorKey = "admin_operator"

// AdminOperator 读取认证中间件写入的操作人
func AdminOperator(c *gin.Context) string {
	return c.GetString(AdminOperatorKey)
}
