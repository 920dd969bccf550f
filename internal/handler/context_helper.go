package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sudoeste-fight/academy-api/internal/middleware"
	"github.com/sudoeste-fight/academy-api/internal/models"
	"github.com/sudoeste-fight/academy-api/internal/service"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
)

// clock is the server time source for sessions; tests replace it.
var clock = time.Now

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// sessionFromContext builds the caller session from verified claims and the server clock.
func sessionFromContext(c *gin.Context) (service.Session, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return service.Session{}, appErrors.ErrUnauthorized
	}
	sess := service.NewSession(claims, clock())
	sess.IP = c.ClientIP()
	sess.UserAgent = c.GetHeader("User-Agent")
	return sess, nil
}

func int64Param(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return fallback
}

func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}
