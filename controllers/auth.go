package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"nobilis/models"
	"nobilis/tools"

	dbpkg "nobilis/db"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	Token          string      `json:"token"`
	TokenExpiresAt int64       `json:"token_expires_at"`
	RefreshToken   string      `json:"refresh_token"`
	User           models.User `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken        string `json:"access_token"`
	AccessExpiresAt    int64  `json:"access_expires_at"`     // unix seconds
	AccessExpiresAtISO string `json:"access_expires_at_iso"` // RFC3339
	RefreshToken       string `json:"refresh_token"`
}

// accessClaims é o conteúdo do JWT de acesso.
type accessClaims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email,omitempty"`
	Admin  bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// POST /api/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		RespondError(c, "email e password são obrigatórios", http.StatusBadRequest)
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}
	if !tools.CheckPasswordHash(user.Password, req.Password) {
		log.WithField("email", req.Email).Warn("tentativa de login com senha inválida")
		RespondError(c, "usuário ou senha inválidos", http.StatusUnauthorized)
		return
	}
	if user.IsBlocked() {
		RespondError(c, "usuário bloqueado", http.StatusForbidden)
		return
	}

	settings := authSettings(c)
	now := time.Now()

	token, exp, err := signAccessToken(settings, user, now)
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}
	refresh, err := issueRefreshToken(db, user.ID, now, settings.RefreshTTL)
	if err != nil {
		RespondError(c, "erro ao gerar refresh token", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	RespondSuccess(c, LoginResponse{
		Token:          token,
		TokenExpiresAt: exp.Unix(),
		RefreshToken:   refresh,
		User:           user,
	})
}

// Refresh troca um refresh token válido por um novo par (access+refresh).
// Rotação com sessão única: ao usar, todos os refresh tokens ativos do usuário são revogados.
func Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		RespondError(c, "refresh_token é obrigatório", http.StatusBadRequest)
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	now := time.Now()
	hash := tools.EncryptTextSHA512(req.RefreshToken)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		RespondError(c, "refresh token inválido", http.StatusUnauthorized)
		return
	}
	if stored.IsRevoked() || stored.IsExpired(now) {
		RespondError(c, "refresh token expirado", http.StatusUnauthorized)
		return
	}

	var user models.User
	if err := db.First(&user, stored.UserID).Error; err != nil || user.IsBlocked() {
		RespondError(c, "usuário sem acesso", http.StatusUnauthorized)
		return
	}

	if err := revokeAllUserRefreshTokens(db, user.ID, now); err != nil {
		RespondError(c, "erro ao revogar sessões anteriores", http.StatusInternalServerError)
		return
	}

	settings := authSettings(c)
	accessToken, accessExp, err := signAccessToken(settings, user, now)
	if err != nil {
		RespondError(c, "erro ao assinar token", http.StatusInternalServerError)
		return
	}
	newRefresh, err := issueRefreshToken(db, user.ID, now, settings.RefreshTTL)
	if err != nil {
		RespondError(c, "erro ao gerar refresh token", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, RefreshResponse{
		AccessToken:        accessToken,
		AccessExpiresAt:    accessExp.Unix(),
		AccessExpiresAtISO: accessExp.UTC().Format(time.RFC3339),
		RefreshToken:       newRefresh,
	})
}

func signAccessToken(settings AuthSettings, user models.User, now time.Time) (string, time.Time, error) {
	exp := now.Add(settings.AccessTTL)
	claims := accessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Admin:  user.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			Issuer:    "nobilis",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(settings.JwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func parseAccessToken(token string, secret string) (*accessClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("token sem usuário")
	}
	return claims, nil
}

func issueRefreshToken(db *gorm.DB, userID int64, now time.Time, ttl time.Duration) (string, error) {
	token := tools.RandomToken()
	exp := now.Add(ttl)
	rt := models.RefreshToken{
		UserID:    userID,
		TokenHash: tools.EncryptTextSHA512(token),
		ExpiresAt: &exp,
	}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func revokeAllUserRefreshTokens(db *gorm.DB, userID int64, now time.Time) error {
	return db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", &now).Error
}
