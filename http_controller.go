package authsvc

import (
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// HTTPController exposes the auth endpoints over fiber. All token and policy
// failures are translated to status codes here, at the boundary; the user
// facing message stays generic while the operator diagnostic goes to the log.
type HTTPController struct {
	Logger    Logger
	guard     *Guard
	auth      *Authenticator
	users     Users
	tokens    TokenMinter
	cookies   *CookieManager
	publisher EventPublisher
}

// HTTPControllerOption configures the controller.
type HTTPControllerOption func(*HTTPController) *HTTPController

func WithControllerLogger(logger Logger) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithGuard(guard *Guard) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.guard = guard
		return c
	}
}

func WithAuthenticator(auth *Authenticator) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.auth = auth
		return c
	}
}

func WithUsers(users Users) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.users = users
		return c
	}
}

func WithTokenMinter(tokens TokenMinter) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.tokens = tokens
		return c
	}
}

func WithCookieManager(cookies *CookieManager) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.cookies = cookies
		return c
	}
}

func WithEventPublisher(publisher EventPublisher) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.publisher = publisher
		return c
	}
}

// NewHTTPController builds the controller, panicking on missing required
// collaborators: wiring errors are programmer errors, not runtime state.
func NewHTTPController(opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		Logger:    defLogger{},
		publisher: NoopPublisher{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.guard == nil {
		panic("missing Guard in auth controller")
	}
	if c.auth == nil {
		panic("missing Authenticator in auth controller")
	}
	if c.users == nil {
		panic("missing Users repository in auth controller")
	}
	if c.tokens == nil {
		panic("missing TokenMinter in auth controller")
	}
	if c.cookies == nil {
		panic("missing CookieManager in auth controller")
	}

	return c
}

// RegisterRoutes mounts the auth endpoints on the app.
func RegisterRoutes(app *fiber.App, controller *HTTPController) {
	auth := app.Group("/auth")

	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/logout", controller.Logout)
	auth.Post("/refresh", controller.Refresh)
	auth.Get("/user_info", controller.UserInfo)
	auth.Patch("/update_user", controller.UpdateUser)
	auth.Patch("/update/account_status", controller.UpdateAccountStatus)
	auth.Get("/users/all", controller.ListUsers)
}

// RegisterRequest payload
type RegisterRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(8, 72),
		),
	)
}

func (a *HTTPController) Register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.handleError(c, badRequest(err))
	}

	if err := payload.Validate(); err != nil {
		return a.handleError(c, badRequest(err))
	}

	if _, err := a.users.GetByEmail(c.Context(), payload.Email); err == nil {
		return a.handleError(c, ErrEmailTaken)
	} else if !errors.IsNotFound(err) {
		return a.handleError(c, err)
	}

	user, err := a.users.Create(c.Context(), &User{Email: payload.Email}, payload.Password)
	if err != nil {
		return a.handleError(c, err)
	}

	if err := a.publisher.PublishUserRegistered(c.Context(), user.Email); err != nil {
		a.Logger.Warn("registration event publish failed", "email", user.Email, "error", err)
	}

	return c.Status(http.StatusCreated).JSON(user)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *HTTPController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.handleError(c, badRequest(err))
	}

	if err := payload.Validate(); err != nil {
		return a.handleError(c, badRequest(err))
	}

	user, err := a.auth.Authenticate(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.handleError(c, err)
	}

	accessToken, err := a.tokens.Mint(user, TokenTypeAccess)
	if err != nil {
		return a.handleError(c, err)
	}

	refreshToken, err := a.tokens.Mint(user, TokenTypeRefresh)
	if err != nil {
		return a.handleError(c, err)
	}

	a.cookies.Attach(c, TokenTypeAccess, accessToken)
	a.cookies.Attach(c, TokenTypeRefresh, refreshToken)

	return c.JSON(fiber.Map{
		"message": "login successful",
		"user":    user,
	})
}

// Logout clears both cookie slots. It is idempotent: clearing cookies that
// were never set is not an error.
func (a *HTTPController) Logout(c *fiber.Ctx) error {
	a.cookies.Clear(c, TokenTypeAccess)
	a.cookies.Clear(c, TokenTypeRefresh)

	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}

// Refresh validates the refresh cookie and re-mints the access cookie.
func (a *HTTPController) Refresh(c *fiber.Ctx) error {
	user, err := a.guard.RequireRefresh(c)
	if err != nil {
		return a.handleError(c, err)
	}

	accessToken, err := a.tokens.Mint(user, TokenTypeAccess)
	if err != nil {
		return a.handleError(c, err)
	}

	a.cookies.Attach(c, TokenTypeAccess, accessToken)

	return c.JSON(fiber.Map{
		"message": "token refreshed",
	})
}

// UserInfo returns the caller's record, or any record by id for admins.
func (a *HTTPController) UserInfo(c *fiber.Ctx) error {
	actor, err := a.guard.RequireUser(c)
	if err != nil {
		return a.handleError(c, err)
	}

	targetID, ok, err := queryUserID(c)
	if err != nil {
		return a.handleError(c, err)
	}

	if !ok || targetID == actor.ID {
		return c.JSON(actor)
	}

	if !actor.IsAdmin() {
		return a.handleError(c, ErrInsufficientPrivileges)
	}

	user, err := a.users.GetByID(c.Context(), targetID)
	if err != nil {
		return a.handleError(c, err)
	}

	return c.JSON(user)
}

// UpdateUserRequest payload. Absent fields are left untouched.
type UpdateUserRequest struct {
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Length(8, 72),
		),
	)
}

func (a *HTTPController) UpdateUser(c *fiber.Ctx) error {
	actor, err := a.guard.RequireUser(c)
	if err != nil {
		return a.handleError(c, err)
	}

	targetID, ok, err := queryUserID(c)
	if err != nil {
		return a.handleError(c, err)
	}
	if !ok {
		targetID = actor.ID
	}

	if err := a.guard.AuthorizeUserAction(actor, targetID); err != nil {
		return a.handleError(c, err)
	}

	payload := new(UpdateUserRequest)
	if err := c.BodyParser(payload); err != nil {
		return a.handleError(c, badRequest(err))
	}

	if err := payload.Validate(); err != nil {
		return a.handleError(c, badRequest(err))
	}

	if payload.Email != nil {
		if existing, err := a.users.GetByEmail(c.Context(), *payload.Email); err == nil {
			if existing.ID != targetID {
				return a.handleError(c, ErrEmailTaken)
			}
		} else if !errors.IsNotFound(err) {
			return a.handleError(c, err)
		}
	}

	user, err := a.users.Update(c.Context(), targetID, UserUpdate{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return a.handleError(c, err)
	}

	return c.JSON(user)
}

// StatusRequest payload. A zero user_id targets the caller.
type StatusRequest struct {
	UserID int64  `json:"user_id" form:"user_id"`
	Status string `json:"status" form:"status"`
}

// Validate will run validation rules
func (r StatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Status,
			validation.Required,
		),
	)
}

func (a *HTTPController) UpdateAccountStatus(c *fiber.Ctx) error {
	actor, err := a.guard.RequireUser(c)
	if err != nil {
		return a.handleError(c, err)
	}

	payload := new(StatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return a.handleError(c, badRequest(err))
	}

	if err := payload.Validate(); err != nil {
		return a.handleError(c, badRequest(err))
	}

	status, valid := ParseAccountStatus(payload.Status)
	if !valid {
		return a.handleError(c, errors.New("unknown account status", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"status": payload.Status}))
	}

	targetID := payload.UserID
	if targetID == 0 {
		targetID = actor.ID
	}

	if err := a.guard.AuthorizeStatusChange(actor, targetID, status); err != nil {
		return a.handleError(c, err)
	}

	user, err := a.users.UpdateStatus(c.Context(), targetID, status)
	if err != nil {
		return a.handleError(c, err)
	}

	return c.JSON(user)
}

// ListUsers is admin-only.
func (a *HTTPController) ListUsers(c *fiber.Ctx) error {
	actor, err := a.guard.RequireAdmin(c)
	if err != nil {
		return a.handleError(c, err)
	}

	records, err := a.users.List(c.Context())
	if err != nil {
		return a.handleError(c, err)
	}

	a.Logger.Debug("user listing served", "admin_id", actor.ID, "count", len(records))
	return c.JSON(records)
}

func (a *HTTPController) handleError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	a.Logger.Warn("request rejected",
		"path", c.Path(),
		"category", richErr.Category,
		"text_code", richErr.TextCode,
		"error", err,
	)

	return c.Status(status).JSON(fiber.Map{
		"error": richErr.Message,
		"code":  richErr.TextCode,
	})
}

func queryUserID(c *fiber.Ctx) (int64, bool, error) {
	raw := c.Query("id")
	if raw == "" {
		return 0, false, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, errors.New("invalid user id", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"id": raw})
	}

	return id, true, nil
}

func badRequest(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, err.Error()).
		WithCode(errors.CodeBadRequest)
}
