package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/logger"
	"github.com/inkwell/internal/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const currentUserKey = "__current_user"

// identityClaims 是身份提供方签发的令牌声明。
type identityClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	jwt.RegisteredClaims
}

// IdentitySync 在每个请求上同步外部身份：携带有效身份令牌的请求
// 会被解析并 create-or-update 到本地用户表，结果放入请求上下文。
// 没有令牌时回退到会话中的本地用户。
func (a *API) IdentitySync() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := a.userFromToken(c); user != nil {
			c.Set(currentUserKey, user)
			session := sessions.Default(c)
			session.Set("user_id", user.ID)
			if err := session.Save(); err != nil {
				logger.L.Warn("session save failed", zap.Error(err))
			}
			c.Next()
			return
		}

		if user := a.userFromSession(c); user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

func (a *API) userFromToken(c *gin.Context) *db.User {
	if a.cfg.IdentityJWTSecret == "" {
		return nil
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" {
		return nil
	}

	var claims identityClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(a.cfg.IdentityJWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	user, err := a.identity.Sync(service.ExternalIdentity{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		AvatarURL: claims.AvatarURL,
		Bio:       claims.Bio,
	})
	if err != nil {
		logger.L.Error("identity sync failed", zap.String("identity", claims.Subject), zap.Error(err))
		return nil
	}
	return user
}

func (a *API) userFromSession(c *gin.Context) *db.User {
	session := sessions.Default(c)
	rawID := session.Get("user_id")
	userID, ok := rawID.(uint)
	if !ok {
		return nil
	}

	var user db.User
	if err := a.db.First(&user, userID).Error; err != nil {
		return nil
	}
	return &user
}

// currentUser 取出请求上下文中的用户，未登录时返回 nil。
func currentUser(c *gin.Context) *db.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*db.User)
	if !ok {
		return nil
	}
	return user
}

// AuthRequired 要求请求者已登录。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired 要求请求者具备管理员角色。
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		if user.Role != db.RoleAdmin {
			respondError(c, http.StatusForbidden, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Login 处理超级管理员的本地登录，常规用户经由身份令牌进入。
func (a *API) Login(c *gin.Context) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &payload, "无效的登录请求") {
		return
	}

	var user db.User
	if err := a.db.Where("name = ? AND password <> ''", payload.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": user.ID, "name": user.Name, "role": user.Role}})
}

// Logout 清空会话。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}
