package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"account-service/internal/managers"
	"account-service/internal/schemas"
	"account-service/internal/utils"
	"account-service/internal/validators"
)

type UserHdl interface {
	RegisterUser(c *gin.Context)
	LoginUser(c *gin.Context)
	LogoutUser(c *gin.Context)
	GetLoginStatus(c *gin.Context)
	GetUser(c *gin.Context)
	UpdateUser(c *gin.Context)
	DeleteUser(c *gin.Context)
	ChangePassword(c *gin.Context)
	ForgotPassword(c *gin.Context)
	ResetPassword(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager   managers.DatabaseMgr
	JWTManager        managers.JWTMgr
	MailManager       managers.MailMgr
	ResetTokenManager managers.ResetTokenMgr
}

func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr, mailManager *managers.MailMgr, resetTokenManager *managers.ResetTokenMgr) UserHdl {
	return &UserHandler{
		DatabaseManager:   *databaseManager,
		JWTManager:        *jwtManager,
		MailManager:       *mailManager,
		ResetTokenManager: *resetTokenManager,
	}
}

// Defaults applied to optional profile fields on registration.
const (
	defaultPhotoURL = "https://i.ibb.co/4pDNDk1/avatar.png"
	defaultBio      = "bio"
	defaultPhone    = "+250"
)

// RegisterUser creates a new user and logs it in right away by issuing a
// session token and setting the session cookie.
func (handler *UserHandler) RegisterUser(c *gin.Context) {
	registrationRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	// Check if the email is taken
	if err = checkEmailTaken(c, tx, registrationRequest.Email); err != nil {
		return
	}

	// The MX lookup needs outbound DNS, so only the production deployment does it
	if os.Getenv("ENVIRONMENT") == "production" && !validators.GetValidator().VerifyEmail(registrationRequest.Email) {
		err = errors.New("email domain not reachable")
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	userDto := schemas.UserDTO{
		Name:  registrationRequest.Name,
		Email: registrationRequest.Email,
		Photo: registrationRequest.Photo,
		Bio:   registrationRequest.Bio,
		Phone: registrationRequest.Phone,
	}
	if userDto.Photo == "" {
		userDto.Photo = defaultPhotoURL
	}
	if userDto.Bio == "" {
		userDto.Bio = defaultBio
	}
	if userDto.Phone == "" {
		userDto.Phone = defaultPhone
	}

	// Insert the user into the database
	userId := uuid.New()
	userDto.UserId = userId.String()
	createdAt := time.Now()

	queryString := "INSERT INTO account_schema.users (user_id, name, email, password, photo, bio, phone, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"
	if _, err = tx.Exec(c, queryString, userId, userDto.Name, userDto.Email, hashedPassword, userDto.Photo, userDto.Bio, userDto.Phone, createdAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Generate a session token for the user
	token, err := handler.JWTManager.GenerateJWT(userId.String())
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	utils.SetSessionCookie(c, token)

	// Send success response
	utils.WriteAndLogResponse(c, &schemas.AuthDTO{User: userDto, Token: token}, http.StatusCreated)
}

// LoginUser verifies the credentials in the request body and on success issues
// a fresh session token and sets the session cookie.
func (handler *UserHandler) LoginUser(c *gin.Context) {
	loginRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	ctx, cancel := context.WithDeadline(c.Request.Context(), time.Now().Add(10*time.Second))
	defer cancel()

	userDto := schemas.UserDTO{}
	var userId uuid.UUID
	var hashedPassword string

	queryString := "SELECT user_id, name, email, password, photo, bio, phone FROM account_schema.users WHERE email = $1"
	row := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, loginRequest.Email)
	if err := row.Scan(&userId, &userDto.Name, &userDto.Email, &hashedPassword, &userDto.Photo, &userDto.Bio, &userDto.Phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	userDto.UserId = userId.String()

	// Check if the password is correct
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusForbidden, err)
		return
	}

	token, err := handler.JWTManager.GenerateJWT(userId.String())
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	utils.SetSessionCookie(c, token)

	// Send success response
	utils.WriteAndLogResponse(c, &schemas.AuthDTO{User: userDto, Token: token}, http.StatusOK)
}

// LogoutUser clears the session cookie. The server holds no session state, so
// logging out always succeeds.
func (handler *UserHandler) LogoutUser(c *gin.Context) {
	utils.ClearSessionCookie(c)
	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Successfully logged out"}, http.StatusOK)
}

// GetLoginStatus reports whether the request carries a currently valid session
// token. A missing or invalid cookie is a regular false, never an error.
func (handler *UserHandler) GetLoginStatus(c *gin.Context) {
	loggedIn := false

	if token, err := c.Cookie(utils.SessionCookieName); err == nil && token != "" {
		if _, err := handler.JWTManager.ValidateJWT(token); err == nil {
			loggedIn = true
		}
	}

	utils.WriteAndLogResponse(c, &schemas.LoginStatusDTO{LoggedIn: loggedIn}, http.StatusOK)
}

// GetUser returns the public profile of the authenticated user.
func (handler *UserHandler) GetUser(c *gin.Context) {
	userId := c.MustGet(utils.UserIdKey.String()).(string)

	ctx, cancel := context.WithDeadline(c.Request.Context(), time.Now().Add(10*time.Second))
	defer cancel()

	userDto, err := retrieveUser(ctx, handler, userId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, userDto, http.StatusOK)
}

// UpdateUser applies the provided profile fields to the authenticated user.
// Email and password can not be changed through this path.
func (handler *UserHandler) UpdateUser(c *gin.Context) {
	updateRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.UpdateUserRequest)
	userId := c.MustGet(utils.UserIdKey.String()).(string)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	userDto := schemas.UserDTO{UserId: userId}
	queryString := "SELECT name, email, photo, bio, phone FROM account_schema.users WHERE user_id = $1"
	row := tx.QueryRow(c, queryString, userId)
	if err = row.Scan(&userDto.Name, &userDto.Email, &userDto.Photo, &userDto.Bio, &userDto.Phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Apply only the fields present in the request
	if updateRequest.Name != "" {
		userDto.Name = updateRequest.Name
	}
	if updateRequest.Photo != "" {
		userDto.Photo = updateRequest.Photo
	}
	if updateRequest.Bio != "" {
		userDto.Bio = updateRequest.Bio
	}
	if updateRequest.Phone != "" {
		userDto.Phone = updateRequest.Phone
	}

	queryString = "UPDATE account_schema.users SET name = $1, photo = $2, bio = $3, phone = $4 WHERE user_id = $5"
	if _, err = tx.Exec(c, queryString, userDto.Name, userDto.Photo, userDto.Bio, userDto.Phone, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	// Send the updated user in the response
	utils.WriteAndLogResponse(c, &userDto, http.StatusOK)
}

// DeleteUser removes the authenticated user and any reset tokens issued for it.
func (handler *UserHandler) DeleteUser(c *gin.Context) {
	userId := c.MustGet(utils.UserIdKey.String()).(string)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	queryString := "DELETE FROM account_schema.password_reset_tokens WHERE user_id = $1"
	if _, err = tx.Exec(c, queryString, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM account_schema.users WHERE user_id = $1"
	commandTag, err := tx.Exec(c, queryString, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		err = errors.New("user not found")
		utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	utils.ClearSessionCookie(c)

	// Send success response
	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "User deleted successfully"}, http.StatusOK)
}

// ChangePassword verifies the old password of the authenticated user and
// replaces the stored hash with the hash of the new one.
func (handler *UserHandler) ChangePassword(c *gin.Context) {
	passwordChangeRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.ChangePasswordRequest)
	userId := c.MustGet(utils.UserIdKey.String()).(string)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	// Check if the old password is correct
	var hashedPassword string
	queryString := "SELECT password FROM account_schema.users WHERE user_id = $1"
	row := tx.QueryRow(c, queryString, userId)
	if err = row.Scan(&hashedPassword); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(passwordChangeRequest.OldPassword)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidCredentials, http.StatusForbidden, err)
		return
	}

	// Hash the new password
	newHashedPassword, err := bcrypt.GenerateFromPassword([]byte(passwordChangeRequest.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	// Update the user's password in the database
	queryString = "UPDATE account_schema.users SET password = $1 WHERE user_id = $2"
	if _, err = tx.Exec(c, queryString, newHashedPassword, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	// Send success response
	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Password changed successfully"}, http.StatusOK)
}

// ForgotPassword issues a fresh reset token for the user owning the given
// email and mails the reset link. The token is committed before the mail is
// sent, so a delivery failure leaves it valid and the flow retryable, a retry
// supersedes the earlier token.
func (handler *UserHandler) ForgotPassword(c *gin.Context) {
	forgotPasswordRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.ForgotPasswordRequest)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	var userId uuid.UUID
	var name string
	queryString := "SELECT user_id, name FROM account_schema.users WHERE email = $1"
	row := tx.QueryRow(c, queryString, forgotPasswordRequest.Email)
	if err = row.Scan(&userId, &name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Issue a new reset token, superseding any previous one for this user
	plaintext, err := handler.ResetTokenManager.IssueResetToken(c, tx, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	// Send the reset link to the user
	if err = handler.MailManager.SendPasswordResetMail(forgotPasswordRequest.Email, name, plaintext); err != nil {
		utils.WriteAndLogError(c, schemas.EmailNotSent, http.StatusInternalServerError, err)
		return
	}

	// Send success response
	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Password reset email sent"}, http.StatusOK)
}

// ResetPassword consumes the reset token in the path and sets the new password
// from the request body. A consumed token can not be used a second time.
func (handler *UserHandler) ResetPassword(c *gin.Context) {
	resetPasswordRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.ResetPasswordRequest)
	plaintext := c.Param(utils.ResetTokenKey)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	// Look up the token by its digest, expired records count as absent
	record, err := handler.ResetTokenManager.FindValidResetToken(c, tx, plaintext)
	if err != nil {
		if errors.Is(err, managers.ErrResetTokenInvalid) {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Hash the new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(resetPasswordRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString := "UPDATE account_schema.users SET password = $1 WHERE user_id = $2"
	if _, err = tx.Exec(c, queryString, hashedPassword, record.UserID); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Invalidate the token, only one concurrent consumer can win this delete
	if err = handler.ResetTokenManager.ConsumeResetToken(c, tx, *record.ID); err != nil {
		if errors.Is(err, managers.ErrResetTokenInvalid) {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	// Send success response
	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Password reset successful, please login with your new password"}, http.StatusOK)
}

// retrieveUser loads the public profile fields of the user with the given ID.
func retrieveUser(ctx context.Context, handler *UserHandler, userId string) (*schemas.UserDTO, error) {
	userDto := &schemas.UserDTO{}
	var id uuid.UUID

	queryString := "SELECT user_id, name, email, photo, bio, phone FROM account_schema.users WHERE user_id = $1"
	row := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, userId)
	if err := row.Scan(&id, &userDto.Name, &userDto.Email, &userDto.Photo, &userDto.Bio, &userDto.Phone); err != nil {
		return nil, err
	}

	userDto.UserId = id.String()
	return userDto, nil
}

// checkEmailTaken checks if the email is already registered.
func checkEmailTaken(c *gin.Context, tx pgx.Tx, email string) error {
	queryString := "SELECT email FROM account_schema.users WHERE email = $1"
	rows, err := tx.Query(c, queryString, email)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		err = errors.New("email taken")
		utils.WriteAndLogError(c, schemas.EmailTaken, http.StatusConflict, err)
		return err
	}

	// An iteration error must not read as "email free"
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	return nil
}
