package handler

import (
	"net/http"
	"strconv"

	"github.com/Mareeswari30/Smart-Banking/common"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/Mareeswari30/Smart-Banking/service"
)

type KYCHandler struct {
	users *service.UserService
}

func NewKYCHandler(users *service.UserService) *KYCHandler {
	return &KYCHandler{users: users}
}

// VerifyKYC godoc
// @Summary      Record a KYC decision
// @Description  Approves or rejects a user's KYC. Requires the X-Admin-Key header when an admin key is configured.
// @Tags         kyc
// @Produce      json
// @Security     AdminKey
// @Param        userId   path   int   true  "User ID"
// @Param        approve  query  bool  true  "true to approve, false to reject"
// @Success      200  {object}  model.MessageResponse
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError "User not found"
// @Router       /verify-kyc/{userId} [post]
func (h *KYCHandler) VerifyKYC(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}

	raw := r.URL.Query().Get("approve")
	if raw == "" {
		return common.NewAppError(http.StatusBadRequest, "approve query parameter is required", nil)
	}
	approve, err := strconv.ParseBool(raw)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "approve must be true or false", nil)
	}

	user, err := h.users.SetKYCStatus(r.Context(), userID, approve)
	if err != nil {
		return mapServiceError(err, "Could not update KYC status")
	}

	common.WriteJSON(w, http.StatusOK, model.KYCMessage(user.KYCStatus))
	return nil
}
