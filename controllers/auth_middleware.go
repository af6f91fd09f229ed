package controllers

import (
	"net/http"
	"strings"

	dbpkg "nobilis/db"
	"nobilis/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const ctxUserKey = "auth_user"

// AuthRequired valida o Bearer token e carrega o usuário no contexto.
// O token também é aceito em ?access_token= para o EventSource do navegador, que não envia headers.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			RespondError(c, "token ausente", http.StatusUnauthorized)
			c.Abort()
			return
		}

		claims, err := parseAccessToken(token, authSettings(c).JwtSecret)
		if err != nil {
			log.WithError(err).Debug("token rejeitado")
			RespondError(c, "token inválido ou expirado", http.StatusUnauthorized)
			c.Abort()
			return
		}

		db, ok := dbpkg.Require(c)
		if !ok {
			c.Abort()
			return
		}
		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			RespondError(c, "user not found", http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return strings.TrimSpace(c.Query("access_token"))
}

// GetUserLogged returns the user loaded by AuthRequired.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
