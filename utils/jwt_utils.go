package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// UserClaims is what the auth middleware hands to handlers.
type UserClaims struct {
	UserID   primitive.ObjectID
	Username string
	Email    string
}

const tokenTTL = 24 * time.Hour

func GenerateToken(secret string, userID primitive.ObjectID, username, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID.Hex(),
		"username": username,
		"email":    email,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func GenerateAdminToken(secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin":     true,
		"timestamp": time.Now().UnixMilli(),
		"exp":       time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*UserClaims, error) {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return nil, err
	}

	idHex, _ := claims["user_id"].(string)
	userID, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)
	if username == "" {
		return nil, ErrTokenInvalid
	}

	return &UserClaims{UserID: userID, Username: username, Email: email}, nil
}

// ParseAdminToken accepts only tokens carrying the admin claim.
func ParseAdminToken(secret, tokenString string) error {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return err
	}
	if admin, _ := claims["admin"].(bool); !admin {
		return ErrTokenInvalid
	}
	return nil
}

func parse(secret, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
