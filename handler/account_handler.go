package handler

import (
	"net/http"
	"strconv"

	"github.com/Mareeswari30/Smart-Banking/common"
	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/Mareeswari30/Smart-Banking/service"
	"github.com/sirupsen/logrus"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// CreateAccount godoc
// @Summary      Open an account
// @Description  Opens an account for the authenticated user with a 500 initial deposit. user_id must match the token subject.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account  body  model.CreateAccountRequest  true  "Owner and account type"
// @Success      201  {object}  model.CreateAccountResponse
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError "Not authorized"
// @Failure      409  {object}  common.AppError "Account number collision, retry"
// @Failure      500  {object}  common.AppError
// @Router       /account [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	subject, ok := UserIDFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Could not validate credentials", nil)
	}

	owner, err := strconv.ParseInt(req.UserID, 10, 64)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "user_id must be numeric", nil)
	}
	if err := service.Authorize(subject, owner); err != nil {
		logger.Log.WithFields(logrus.Fields{"subject": subject, "requested": owner}).Warn("Account creation for another user denied")
		return mapServiceError(err, "")
	}

	account, err := h.service.CreateAccount(r.Context(), owner, req.AccountType)
	if err != nil {
		return mapServiceError(err, "Could not create account")
	}

	common.WriteJSON(w, http.StatusCreated, model.NewCreateAccountResponse(account))
	return nil
}

// Dashboard godoc
// @Summary      Accounts and transactions of a user
// @Description  Lists the user's accounts and every transaction involving them. The path id must match the token subject.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path  int  true  "User ID"
// @Success      200  {object}  model.DashboardResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError "Not authorized"
// @Failure      500  {object}  common.AppError
// @Router       /dashboard/{userId} [get]
func (h *AccountHandler) Dashboard(w http.ResponseWriter, r *http.Request) *common.AppError {
	requested, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}

	subject, ok := UserIDFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Could not validate credentials", nil)
	}
	if err := service.Authorize(subject, requested); err != nil {
		logger.Log.WithFields(logrus.Fields{"subject": subject, "requested": requested}).Warn("Dashboard access for another user denied")
		return mapServiceError(err, "")
	}

	dashboard, err := h.service.ListForUser(r.Context(), requested)
	if err != nil {
		return mapServiceError(err, "Could not load dashboard")
	}

	common.WriteJSON(w, http.StatusOK, model.NewDashboardResponse(dashboard))
	return nil
}
