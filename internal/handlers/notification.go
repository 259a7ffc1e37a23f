package handlers

import (
	"fmt"
	"net/http"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/dto"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List godoc
// @Summary      List the caller's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.NotificationResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), who.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.NotificationResponse, len(list))
	for i := range list {
		out[i] = notificationToResponse(list[i])
	}
	c.JSON(http.StatusOK, out)
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  dto.NotificationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.MarkRead(c.Request.Context(), who.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notificationToResponse(n))
}

// MarkAllRead godoc
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CountResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	n, err := h.svc.MarkAllRead(c.Request.Context(), who.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Message: "all notifications marked as read", Count: n})
}

// Delete godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), who.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "notification deleted successfully"})
}

// CheckDueTasks godoc
// @Summary      Create reminders for tasks due in the next 24 hours
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  dto.CountResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /notifications/check-due-tasks [post]
func (h *NotificationHandler) CheckDueTasks(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	n, err := h.svc.ScanDueNow(c.Request.Context(), who.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CountResponse{
		Message: fmt.Sprintf("created %d new notifications", n),
		Count:   int64(n),
	})
}

func notificationToResponse(n dom.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		TaskID:    n.TaskID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		TaskTitle: n.TaskTitle,
	}
}
