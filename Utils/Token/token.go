package Token

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const CookieName = "token"

func lifespanHours() int {
	lifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil || lifespan <= 0 {
		return 24
	}
	return lifespan
}

func GenerateToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["user_id"] = userID
	claims["role"] = role
	claims["exp"] = time.Now().Add(time.Hour * time.Duration(lifespanHours())).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(os.Getenv("API_SECRET")))
}

// ExtractToken pulls the raw JWT from the Authorization header or, for
// browser sessions, from the HttpOnly cookie.
func ExtractToken(c *gin.Context) string {
	bearerToken := c.Request.Header.Get("Authorization")
	if len(strings.Split(bearerToken, " ")) == 2 {
		return strings.Split(bearerToken, " ")[1]
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

func parse(c *gin.Context) (jwt.MapClaims, error) {
	tokenString := ExtractToken(c)
	if tokenString == "" {
		return nil, errors.New("no token supplied")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("API_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func TokenValid(c *gin.Context) error {
	_, err := parse(c)
	return err
}

func ExtractTokenID(c *gin.Context) (uint, error) {
	claims, err := parse(c)
	if err != nil {
		return 0, err
	}
	uid, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	return uint(uid), nil
}

func ExtractTokenRole(c *gin.Context) (string, error) {
	claims, err := parse(c)
	if err != nil {
		return "", err
	}
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	return role, nil
}
