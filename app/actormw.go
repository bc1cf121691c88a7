// app/actormw.go
package app

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const ActorHeader = "X-Actor"

// ActorFromHeader 把操作人塞进上下文；身份校验由外部网关负责，
// 这里只做审计归属
func ActorFromHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actor == "" {
			actor = "system"
		}
		c.Set("actor", actor)
		c.Next()
	}
}

func Actor(c *gin.Context) string {
	if v, ok := c.Get("actor"); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return "system"
}
