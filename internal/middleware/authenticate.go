package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"account-service/internal/managers"
	"account-service/internal/schemas"
	"account-service/internal/utils"
)

// Authenticate guards routes that require a live session. It extracts the
// session cookie, verifies the token and resolves the subject against the
// user table, a token for a deleted user is as unauthorized as no token.
// On success the verified user ID is handed to the handler via the context.
func Authenticate(jwtMgr managers.JWTMgr, databaseMgr managers.DatabaseMgr) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(utils.SessionCookieName)
		if err != nil || token == "" {
			abortUnauthorized(c, errors.New("missing session cookie"))
			return
		}

		userId, err := jwtMgr.ValidateJWT(token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		queryString := "SELECT user_id FROM account_schema.users WHERE user_id = $1"
		row := databaseMgr.GetPool().QueryRow(c, queryString, userId)

		var id uuid.UUID
		if err := row.Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				abortUnauthorized(c, errors.New("user no longer exists"))
				return
			}
			// A store failure is not a revoked session
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			c.Abort()
			return
		}

		c.Set(utils.UserIdKey.String(), userId)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	utils.LogMessageWithFieldsAndError(c, "info", "Rejecting unauthenticated request", err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.Unauthorized})
}
