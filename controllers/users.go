package controllers

import (
	"net/http"
	"strings"

	dbpkg "nobilis/db"
	"nobilis/models"
	"nobilis/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// UserUpdateRequest usa ponteiros para distinguir "não enviado" de valor vazio.
type UserUpdateRequest struct {
	Nome      *string `json:"nome"`
	Cargo     *string `json:"cargo"`
	Unidade   *string `json:"unidade"`
	Matricula *string `json:"matricula"`
	Password  *string `json:"password"`
	Admin     *bool   `json:"admin"`
	Status    *int    `json:"status"`
}

// GET /api/me
func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}

// PUT /api/me
// Campos proibidos para o próprio usuário: email, admin, status.
func UpdateCurrentUser(c *gin.Context) {
	logged, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	req.Admin = nil
	req.Status = nil

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}
	updated, ok := applyUserUpdate(c, db, logged.ID, req)
	if !ok {
		return
	}
	RespondSuccess(c, gin.H{"user": updated})
}

// GET /api/users (admin)
func GetUsers(c *gin.Context) {
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var users []models.User
	if err := db.Order("nome asc").Find(&users).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	RespondSuccess(c, gin.H{"users": users})
}

// POST /api/users (admin)
func CreateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))

	if !requireFields(c, user.MissingFields()) {
		return
	}
	if !tools.ValidateEmail(user.Email) {
		RespondError(c, "E-mail inválido!", http.StatusBadRequest)
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		RespondError(c, "Usuário já existe", http.StatusConflict)
		return
	} else if !gorm.IsRecordNotFoundError(err) {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	hash, err := tools.HashPassword(user.Password)
	if err != nil {
		RespondError(c, "erro ao gerar hash da senha", http.StatusInternalServerError)
		return
	}
	user.ID = 0
	user.Password = hash
	if user.Status != models.USER_STATUS_BLOQUEADO {
		user.Status = models.USER_STATUS_ATIVO
	}

	if err := db.Create(&user).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user.Password = ""
	RespondCreated(c, gin.H{"user": user})
}

// PUT /api/users/:id (admin)
func UpdateUser(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Status != nil && *req.Status != models.USER_STATUS_ATIVO && *req.Status != models.USER_STATUS_BLOQUEADO {
		RespondError(c, "Valor inválido para status", http.StatusBadRequest)
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}
	updated, ok := applyUserUpdate(c, db, id, req)
	if !ok {
		return
	}
	RespondSuccess(c, gin.H{"user": updated})
}

// DELETE /api/users/:id (admin)
func DeleteUser(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if logged, ok := GetUserLogged(c); ok && logged.ID == id {
		RespondError(c, "não é possível remover o próprio usuário", http.StatusBadRequest)
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	tx := db.Begin()
	if err := tx.Delete(&models.RefreshToken{}, "user_id = ?", id).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	res := tx.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		tx.Rollback()
		RespondError(c, res.Error.Error(), http.StatusBadRequest)
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}

func applyUserUpdate(c *gin.Context, db *gorm.DB, id int64, req UserUpdateRequest) (models.User, bool) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		RespondError(c, "usuário não encontrado", http.StatusNotFound)
		return user, false
	}

	fields := map[string]any{}
	if req.Nome != nil {
		if strings.TrimSpace(*req.Nome) == "" {
			RespondError(c, "Faltando campo nome", http.StatusBadRequest)
			return user, false
		}
		fields["nome"] = *req.Nome
	}
	if req.Cargo != nil {
		fields["cargo"] = *req.Cargo
	}
	if req.Unidade != nil {
		fields["unidade"] = *req.Unidade
	}
	if req.Matricula != nil {
		fields["matricula"] = *req.Matricula
	}
	if req.Admin != nil {
		fields["admin"] = *req.Admin
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Password != nil {
		if tools.CheckPassword(*req.Password) != "" {
			RespondError(c, "Valor inválido para password", http.StatusBadRequest)
			return user, false
		}
		hash, err := tools.HashPassword(*req.Password)
		if err != nil {
			RespondError(c, "erro ao gerar hash da senha", http.StatusInternalServerError)
			return user, false
		}
		fields["password"] = hash
	}

	if len(fields) > 0 {
		if err := db.Model(&user).Updates(fields).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return user, false
		}
		if err := db.First(&user, id).Error; err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return user, false
		}
	}

	user.Password = ""
	return user, true
}
