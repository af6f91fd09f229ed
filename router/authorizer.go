package router

import (
	"net/http"

	"nobilis/controllers"

	"github.com/gin-gonic/gin"
)

// Authorizer blocks access to protected routes when the user is blocked.
func Authorizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := controllers.GetUserLogged(c)
		if !ok {
			controllers.RespondError(c, "não autenticado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if user.IsBlocked() {
			controllers.RespondError(c, "usuário bloqueado", http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
