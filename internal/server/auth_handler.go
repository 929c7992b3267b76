package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"emosense/internal/dao"
	"emosense/internal/model"
	"emosense/internal/version"
	"emosense/pkg/str"
)

const psychologistKey = "psychologist"

type TokenClaims struct {
	jwt.RegisteredClaims
	UserId int `json:"user_id"`
}

func TrySetUserToContext(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			tokenStr, _ = c.Cookie("token")
		}
		if tokenStr == "" {
			auth := c.GetHeader("Authorization")
			if auth != "" && len(auth) > 7 && auth[:7] == "Bearer " {
				tokenStr = auth[7:]
			}
		}
		if tokenStr != "" {
			token, tokenErr := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if tokenErr != nil || !token.Valid {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid token",
				})
				return
			}

			if claims, ok := token.Claims.(*TokenClaims); ok {
				user, userErr := model.GetPsychologistById(claims.UserId)
				if userErr != nil || user == nil {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
						"error": "invalid user",
					})
					return
				}
				c.Set(psychologistKey, user)
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid token claims",
				})
				return
			}
		}

		c.Next()
	}
}

func NeedAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, exists := c.Get(psychologistKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}

func currentPsychologist(c *gin.Context) *model.Psychologist {
	return c.MustGet(psychologistKey).(*model.Psychologist)
}

// handleRegister registers a psychologist account
// @Summary Register a psychologist account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dao.RegisterSpec true "registration payload"
// @Success 200 {object} dao.PsychologistSpec
// @Failure 400 {object} ErrorResponse "invalid payload"
// @Failure 409 {object} ErrorResponse "username or email taken"
// @Router /api/v1/register [post]
func (s *Server) handleRegister(c *gin.Context) {
	var req dao.RegisterSpec
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		s.writeError(c, http.StatusBadRequest, fmt.Errorf("passwords do not match"))
		return
	}

	if existing, err := model.GetPsychologistByUsername(req.Username); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	} else if existing != nil {
		s.writeError(c, http.StatusConflict, fmt.Errorf("username already registered"))
		return
	}
	if existing, err := model.GetPsychologistByEmail(req.Email); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	} else if existing != nil {
		s.writeError(c, http.StatusConflict, fmt.Errorf("email already registered"))
		return
	}

	user := req.ToModel()
	user.Password = str.Md5Str(req.Password)
	if err := model.CreatePsychologist(user); err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	var spec dao.PsychologistSpec
	spec.FromPsychologistModel(user)
	c.JSON(http.StatusOK, spec)
}

// handleLogin logs a psychologist in
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dao.LoginSpec true "credentials"
// @Success 200 {object} dao.LoginResponse
// @Failure 401 {object} ErrorResponse "bad credentials"
// @Router /api/v1/login [post]
func (s *Server) handleLogin(c *gin.Context) {
	var req dao.LoginSpec
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	user, err := model.GetPsychologistByUsername(req.Username)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}
	if user == nil || user.Password != str.Md5Str(req.Password) {
		s.writeError(c, http.StatusUnauthorized, fmt.Errorf("invalid username or password"))
		return
	}

	expireAt := time.Now().Add(7 * 24 * time.Hour)
	token, err := genJwtToken(user, s.conf.JwtSecret, expireAt)
	if err != nil {
		s.writeError(c, http.StatusInternalServerError, err)
		return
	}

	resp := dao.LoginResponse{
		Token:    token,
		ExpireAt: expireAt.Unix(),
	}
	resp.Profile.FromPsychologistModel(user)
	c.SetCookie("token", token, 7*24*60*60, "/", "", false, true)
	c.JSON(http.StatusOK, resp)
}

func genJwtToken(user *model.Psychologist, jwtSecret string, expireAt time.Time) (string, error) {
	claims := TokenClaims{
		UserId: user.Id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    version.APP,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// handleLogout clears the auth cookie
// @Summary Log out
// @Tags auth
// @Success 200
// @Router /api/v1/logout [post]
func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
}

// handleGetProfile returns the authenticated psychologist
// @Summary Get own profile
// @Tags auth
// @Produce json
// @Success 200 {object} dao.PsychologistSpec
// @Failure 401 {object} ErrorResponse "unauthorized"
// @Router /api/v1/profile [get]
func (s *Server) handleGetProfile(c *gin.Context) {
	var spec dao.PsychologistSpec
	spec.FromPsychologistModel(currentPsychologist(c))
	c.JSON(http.StatusOK, spec)
}
